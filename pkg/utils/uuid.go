package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera o sufixo aleatório dos identificadores de entidade
// (acc-, fin-, tick-, act-pb-)
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 9)
}
