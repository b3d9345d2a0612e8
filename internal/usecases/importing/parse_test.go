package importing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/importing"
)

func parseAccounts() []domain.Account {
	return []domain.Account{
		{
			ID:   "acc-1",
			Name: "Bombril",
			Products: []domain.Product{
				{ID: "prod-1", Name: "PED+"},
			},
		},
	}
}

func TestParseFinancialRows(t *testing.T) {
	t.Run("linha válida vira registro Recurring", func(t *testing.T) {
		raw := "Bombril;PED+;2026-01-01;5000.00"

		records, skipped, err := importing.ParseFinancialRows(raw, parseAccounts())
		require.NoError(t, err)

		assert.Zero(t, skipped)
		require.Len(t, records, 1)
		assert.True(t, strings.HasPrefix(records[0].ID, "fin-"))
		assert.Equal(t, "acc-1", records[0].AccountID)
		assert.Equal(t, "prod-1", records[0].ProductID)
		assert.Equal(t, "2026-01-01", records[0].Date)
		assert.Equal(t, float64(5000), records[0].Amount)
		assert.Equal(t, domain.MovementRecurring, records[0].Type)
	})

	t.Run("nomes são casados sem diferenciar maiúsculas", func(t *testing.T) {
		raw := "BOMBRIL;ped+;2026-01-01;100"

		records, skipped, err := importing.ParseFinancialRows(raw, parseAccounts())
		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Len(t, records, 1)
	})

	t.Run("conta ou produto desconhecido é pulado em silêncio", func(t *testing.T) {
		raw := strings.Join([]string{
			"Inexistente;PED+;2026-01-01;100",
			"Bombril;ProdutoFantasma;2026-01-01;100",
			"Bombril;PED+;2026-02-01;200",
		}, "\n")

		records, skipped, err := importing.ParseFinancialRows(raw, parseAccounts())
		require.NoError(t, err)

		assert.Equal(t, 2, skipped)
		require.Len(t, records, 1)
		assert.Equal(t, "2026-02-01", records[0].Date)
	})

	t.Run("valor não numérico vira zero", func(t *testing.T) {
		raw := "Bombril;PED+;2026-01-01;abc"

		records, _, err := importing.ParseFinancialRows(raw, parseAccounts())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Zero(t, records[0].Amount)
	})

	t.Run("linhas curtas e vazias são ignoradas", func(t *testing.T) {
		raw := "\nBombril;PED+\n\nBombril;PED+;2026-01-01;10\n"

		records, skipped, err := importing.ParseFinancialRows(raw, parseAccounts())
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Len(t, records, 1)
	})
}

func TestParseTicketRows(t *testing.T) {
	now := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	t.Run("linha completa preenche todos os campos", func(t *testing.T) {
		raw := "ZD-100;Bombril;Erro no faturamento;Bug;Pending;High;2026-08-01;2026-08-10"

		tickets, skipped, err := importing.ParseTicketRows(raw, parseAccounts(), now)
		require.NoError(t, err)

		assert.Zero(t, skipped)
		require.Len(t, tickets, 1)
		ticket := tickets[0]
		assert.True(t, strings.HasPrefix(ticket.ID, "tick-"))
		assert.Equal(t, "ZD-100", ticket.ExternalID)
		assert.Equal(t, "acc-1", ticket.AccountID)
		assert.Equal(t, "Erro no faturamento", ticket.Subject)
		assert.Equal(t, "Bug", ticket.Type)
		assert.Equal(t, domain.TicketStatusPending, ticket.Status)
		assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
		assert.Equal(t, "2026-08-01", ticket.OpenedAt)
		assert.Equal(t, "2026-08-10", ticket.ClosedAt)
	})

	t.Run("campos vazios recebem os padrões", func(t *testing.T) {
		raw := "ZD-200;Bombril;;;;;"

		tickets, skipped, err := importing.ParseTicketRows(raw, parseAccounts(), now)
		require.NoError(t, err)

		assert.Zero(t, skipped)
		require.Len(t, tickets, 1)
		ticket := tickets[0]
		assert.Equal(t, "Sem Assunto", ticket.Subject)
		assert.Equal(t, "Issue", ticket.Type)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		assert.Equal(t, "2026-08-28", ticket.OpenedAt)
		assert.Empty(t, ticket.ClosedAt)
	})

	t.Run("conta desconhecida é pulada", func(t *testing.T) {
		raw := "ZD-300;Fantasma;Assunto;Bug;Open;Low;2026-08-01;"

		tickets, skipped, err := importing.ParseTicketRows(raw, parseAccounts(), now)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Empty(t, tickets)
	})
}

func TestParseAccountCSV(t *testing.T) {
	t.Run("cabeçalho padrão produz contas com fatias vazias", func(t *testing.T) {
		raw := "id,name,cnpj,segment\nacc-9,Empresa X,11.111.111/0001-11,Varejo\n,Empresa Y,,Indústria\n"

		accounts, err := importing.ParseAccountCSV(raw)
		require.NoError(t, err)

		require.Len(t, accounts, 2)
		assert.Equal(t, "acc-9", accounts[0].ID)
		assert.Equal(t, "Empresa X", accounts[0].Name)
		assert.Equal(t, "Varejo", accounts[0].Segment)
		assert.NotNil(t, accounts[0].Products)

		assert.Empty(t, accounts[1].ID)
		assert.Equal(t, "Empresa Y", accounts[1].Name)
	})

	t.Run("linhas sem nome são descartadas", func(t *testing.T) {
		raw := "id,name,cnpj,segment\nacc-9,,11,Varejo\n"

		accounts, err := importing.ParseAccountCSV(raw)
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})

	t.Run("cabeçalho sem coluna name falha", func(t *testing.T) {
		raw := "id,cnpj\nacc-9,11\n"

		_, err := importing.ParseAccountCSV(raw)
		assert.Error(t, err)
	})
}
