package timelining

import (
	"strings"

	"github.com/vfg2006/customer-success-api/internal/domain"
)

// healthGroup agrupa os tipos controlados pelo filtro "health": o histórico de
// health score e os eventos de ciclo de vida do produto são ligados e
// desligados sempre juntos, nunca isoladamente
var healthGroup = []domain.TimelineEventType{
	domain.EventHealthScore,
	domain.EventProduct,
}

// FilterSet é o conjunto de categorias ativas da timeline
type FilterSet map[domain.TimelineEventType]bool

// NewFilterSet cria um conjunto com todas as categorias ativas
func NewFilterSet() FilterSet {
	fs := make(FilterSet, len(domain.AllTimelineEventTypes))
	for _, t := range domain.AllTimelineEventTypes {
		fs[t] = true
	}
	return fs
}

// ParseFilterSet monta um conjunto a partir de uma lista de tipos
// (ex.: query string "MEETING,VOC"). Lista vazia ativa todas as categorias
func ParseFilterSet(raw string) FilterSet {
	if strings.TrimSpace(raw) == "" {
		return NewFilterSet()
	}

	fs := make(FilterSet, len(domain.AllTimelineEventTypes))
	for _, part := range strings.Split(raw, ",") {
		t := domain.TimelineEventType(strings.ToUpper(strings.TrimSpace(part)))
		for _, known := range domain.AllTimelineEventTypes {
			if t == known {
				fs[t] = true
			}
		}
	}

	// O grupo de health nunca fica pela metade, mesmo vindo de entrada externa
	if fs[domain.EventHealthScore] || fs[domain.EventProduct] {
		for _, t := range healthGroup {
			fs[t] = true
		}
	}

	return fs
}

// Toggle liga ou desliga uma categoria. Tipos do grupo de health são
// alternados em bloco: não existe transição que ative HEALTH_SCORE sem
// PRODUCT ou vice-versa
func (fs FilterSet) Toggle(t domain.TimelineEventType) {
	group := []domain.TimelineEventType{t}
	if t == domain.EventHealthScore || t == domain.EventProduct {
		group = healthGroup
	}

	allActive := true
	for _, g := range group {
		if !fs[g] {
			allActive = false
			break
		}
	}

	for _, g := range group {
		fs[g] = !allActive
	}
}

// Enabled informa se a categoria está ativa
func (fs FilterSet) Enabled(t domain.TimelineEventType) bool {
	return fs[t]
}

// Reset reativa todas as categorias
func (fs FilterSet) Reset() {
	for _, t := range domain.AllTimelineEventTypes {
		fs[t] = true
	}
}
