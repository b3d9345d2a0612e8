package importing

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/pkg/utils"
)

// ParseFinancialRows interpreta linhas `Conta;Produto;YYYY-MM-DD;Valor`.
// Linhas cujo nome de conta ou de produto não existe na coleção são puladas
// silenciosamente e contadas em skipped. Valores não numéricos viram zero
func ParseFinancialRows(raw string, accounts []domain.Account) (records []domain.FinancialRecord, skipped int, err error) {
	records = make([]domain.FinancialRecord, 0)

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, ";")
		if len(cols) < 4 {
			skipped++
			continue
		}

		accName := strings.TrimSpace(cols[0])
		prodName := strings.TrimSpace(cols[1])
		date := strings.TrimSpace(cols[2])

		amount, parseErr := strconv.ParseFloat(strings.TrimSpace(cols[3]), 64)
		if parseErr != nil {
			amount = 0
		}

		account, product := findAccountProduct(accounts, accName, prodName)
		if account == nil || product == nil {
			skipped++
			continue
		}

		id, genErr := utils.GenerateID()
		if genErr != nil {
			return nil, skipped, errors.Wrap(genErr, "erro ao gerar id de registro financeiro")
		}

		records = append(records, domain.FinancialRecord{
			ID:        "fin-" + id,
			AccountID: account.ID,
			ProductID: product.ID,
			Date:      date,
			Amount:    amount,
			Type:      domain.MovementRecurring,
		})
	}

	return records, skipped, nil
}

// ParseTicketRows interpreta linhas
// `ExternalId;Conta;Assunto;Tipo;Status;Prioridade;AbertoEm;FechadoEm`.
// Tipo, status e prioridade vazios recebem os padrões Issue, Open e Medium
func ParseTicketRows(raw string, accounts []domain.Account, now time.Time) (tickets []domain.TicketRecord, skipped int, err error) {
	tickets = make([]domain.TicketRecord, 0)

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, ";")
		if len(cols) < 7 {
			skipped++
			continue
		}

		accName := strings.TrimSpace(cols[1])
		account := findAccountByName(accounts, accName)
		if account == nil {
			skipped++
			continue
		}

		ticketType := strings.TrimSpace(cols[3])
		if ticketType == "" {
			ticketType = "Issue"
		}
		status := domain.TicketStatus(strings.TrimSpace(cols[4]))
		if status == "" {
			status = domain.TicketStatusOpen
		}
		priority := domain.TicketPriority(strings.TrimSpace(cols[5]))
		if priority == "" {
			priority = domain.TicketPriorityMedium
		}
		openedAt := strings.TrimSpace(cols[6])
		if openedAt == "" {
			openedAt = now.Format("2006-01-02")
		}
		var closedAt string
		if len(cols) > 7 {
			closedAt = strings.TrimSpace(cols[7])
		}

		subject := strings.TrimSpace(cols[2])
		if subject == "" {
			subject = "Sem Assunto"
		}

		id, genErr := utils.GenerateID()
		if genErr != nil {
			return nil, skipped, errors.Wrap(genErr, "erro ao gerar id de ticket")
		}

		tickets = append(tickets, domain.TicketRecord{
			ID:         "tick-" + id,
			ExternalID: strings.TrimSpace(cols[0]),
			AccountID:  account.ID,
			Subject:    subject,
			Type:       ticketType,
			Status:     status,
			Priority:   priority,
			OpenedAt:   openedAt,
			ClosedAt:   closedAt,
		})
	}

	return tickets, skipped, nil
}

// ParseAccountCSV interpreta um CSV com cabeçalho `id,name,cnpj,segment`.
// Colunas extras são ignoradas e linhas sem nome são descartadas
func ParseAccountCSV(raw string) ([]domain.Account, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler cabeçalho do CSV de contas")
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := colIndex["name"]; !ok {
		return nil, errors.New("CSV de contas sem a coluna obrigatória name")
	}

	field := func(row []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	accounts := make([]domain.Account, 0)
	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.Wrap(readErr, "erro ao ler linha do CSV de contas")
		}

		name := field(row, "name")
		if name == "" {
			continue
		}

		accounts = append(accounts, domain.Account{
			ID:         field(row, "id"),
			Name:       name,
			CNPJ:       field(row, "cnpj"),
			Segment:    field(row, "segment"),
			Products:   []domain.Product{},
			Activities: []domain.Activity{},
			Contacts:   []domain.Contact{},
		})
	}

	return accounts, nil
}

func findAccountByName(accounts []domain.Account, name string) *domain.Account {
	for i := range accounts {
		if strings.EqualFold(accounts[i].Name, name) {
			return &accounts[i]
		}
	}
	return nil
}

func findAccountProduct(accounts []domain.Account, accName, prodName string) (*domain.Account, *domain.Product) {
	account := findAccountByName(accounts, accName)
	if account == nil {
		return nil, nil
	}
	for i := range account.Products {
		if strings.EqualFold(account.Products[i].Name, prodName) {
			return account, &account.Products[i]
		}
	}
	return account, nil
}
