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

func existingAccounts() []domain.Account {
	return []domain.Account{
		{
			ID:   "acc-1",
			Name: "Acme Corp",
			CNPJ: "11.111.111/0001-11",
			Products: []domain.Product{
				{ID: "prod-1", Name: "Plataforma", MRR: 1000},
			},
			Activities: []domain.Activity{
				{ID: "a1", Title: "Kickoff"},
			},
		},
		{ID: "acc-2", Name: "Beta Ltda"},
	}
}

func TestMergeAccounts(t *testing.T) {
	svc := importing.NewService()

	t.Run("casamento por id atualiza sem apagar fatias existentes", func(t *testing.T) {
		incoming := []domain.Account{
			{ID: "acc-1", Name: "Acme Corp", CNPJ: "99.999.999/0001-99"},
		}

		result, err := svc.MergeAccounts(existingAccounts(), incoming)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Updated)
		require.Len(t, result.Accounts, 2)

		merged := result.Accounts[0]
		assert.Equal(t, "99.999.999/0001-99", merged.CNPJ)
		assert.Len(t, merged.Products, 1, "produtos existentes preservados")
		assert.Len(t, merged.Activities, 1, "atividades existentes preservadas")
	})

	t.Run("sem id casa por nome ignorando maiúsculas", func(t *testing.T) {
		incoming := []domain.Account{
			{Name: "ACME CORP", Segment: "Varejo"},
		}

		result, err := svc.MergeAccounts(existingAccounts(), incoming)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, "Varejo", result.Accounts[0].Segment)
		assert.Equal(t, "acc-1", result.Accounts[0].ID, "id original mantido")
	})

	t.Run("sem casamento cria conta com id gerado e fatias vazias", func(t *testing.T) {
		incoming := []domain.Account{
			{Name: "Gama S.A."},
		}

		result, err := svc.MergeAccounts(existingAccounts(), incoming)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 0, result.Updated)
		require.Len(t, result.Accounts, 3)

		created := result.Accounts[2]
		assert.True(t, strings.HasPrefix(created.ID, "acc-"))
		assert.NotNil(t, created.Products)
		assert.NotNil(t, created.Activities)
		assert.NotNil(t, created.Contacts)
	})

	t.Run("lote misto contabiliza criadas e atualizadas", func(t *testing.T) {
		incoming := []domain.Account{
			{ID: "acc-2", Name: "Beta Ltda", CNPJ: "22.222.222/0001-22"},
			{Name: "Nova Conta"},
		}

		result, err := svc.MergeAccounts(existingAccounts(), incoming)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Updated)
	})

	t.Run("entrada não é mutada", func(t *testing.T) {
		existing := existingAccounts()
		incoming := []domain.Account{
			{ID: "acc-1", Name: "Acme Corp", CNPJ: "00.000.000/0001-00"},
		}

		_, err := svc.MergeAccounts(existing, incoming)
		require.NoError(t, err)

		assert.Equal(t, "11.111.111/0001-11", existing[0].CNPJ)
	})
}

func TestUpsertFinancialRecords(t *testing.T) {
	svc := importing.NewService()

	existing := []domain.FinancialRecord{
		{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1000, Type: domain.MovementRecurring},
	}

	t.Run("mesma tripla substitui o registro", func(t *testing.T) {
		incoming := []domain.FinancialRecord{
			{ID: "f2", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1500, Type: domain.MovementExpansion},
		}

		merged := svc.UpsertFinancialRecords(existing, incoming)

		require.Len(t, merged, 1)
		assert.Equal(t, "f2", merged[0].ID)
		assert.Equal(t, float64(1500), merged[0].Amount)
	})

	t.Run("tripla nova é anexada", func(t *testing.T) {
		incoming := []domain.FinancialRecord{
			{ID: "f3", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-09-01", Amount: 1500, Type: domain.MovementRecurring},
		}

		merged := svc.UpsertFinancialRecords(existing, incoming)

		require.Len(t, merged, 2)
		assert.Equal(t, "f1", existing[0].ID, "fatia original intacta")
	})
}

func TestUpsertTicketRecords(t *testing.T) {
	svc := importing.NewService()

	existing := []domain.TicketRecord{
		{ID: "t1", ExternalID: "ZD-100", AccountID: "acc-1", Subject: "Lentidão", Status: domain.TicketStatusOpen},
	}

	t.Run("externalId repetido substitui", func(t *testing.T) {
		incoming := []domain.TicketRecord{
			{ID: "t2", ExternalID: "ZD-100", AccountID: "acc-1", Subject: "Lentidão", Status: domain.TicketStatusResolved},
		}

		merged := svc.UpsertTicketRecords(existing, incoming)

		require.Len(t, merged, 1)
		assert.Equal(t, domain.TicketStatusResolved, merged[0].Status)
	})

	t.Run("externalId novo é anexado", func(t *testing.T) {
		incoming := []domain.TicketRecord{
			{ID: "t3", ExternalID: "ZD-200", AccountID: "acc-1", Subject: "Erro 500", Status: domain.TicketStatusOpen},
		}

		merged := svc.UpsertTicketRecords(existing, incoming)
		assert.Len(t, merged, 2)
	})
}

func TestApplyPlaybook(t *testing.T) {
	svc := importing.NewService()
	now := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	playbook := domain.Playbook{
		ID:    "pb-1",
		Title: "Onboarding",
		Tasks: []domain.PlaybookTaskTemplate{
			{Title: "Agendar kickoff", Category: "Onboarding", Urgency: "Alta", DaysDue: 2},
			{Title: "Configurar ambiente", Category: "Técnico", Urgency: "Média", DaysDue: 7, NotesTemplate: "Checklist de infra"},
		},
	}

	t.Run("gera atividades pendentes com vencimentos relativos", func(t *testing.T) {
		activities, err := svc.ApplyPlaybook(playbook, "acc-1", "Ana", now)
		require.NoError(t, err)
		require.Len(t, activities, 2)

		first := activities[0]
		assert.True(t, strings.HasPrefix(first.ID, "act-pb-"))
		assert.Equal(t, "acc-1", first.AccountID)
		assert.Equal(t, "[Onboarding] Agendar kickoff", first.Title)
		assert.Equal(t, domain.ActivityStatusPending, first.Status)
		assert.Equal(t, "Ana", first.Owner)
		assert.Equal(t, "2026-08-30", first.DueDate)
		assert.Equal(t, 2, first.AlertDays)
		assert.Equal(t, "Gerado automaticamente pelo playbook: Onboarding", first.Notes)

		second := activities[1]
		assert.Equal(t, "2026-09-04", second.DueDate)
		assert.Equal(t, "Checklist de infra", second.Notes)
	})

	t.Run("sem dono usa rótulo padrão", func(t *testing.T) {
		activities, err := svc.ApplyPlaybook(playbook, "acc-1", "", now)
		require.NoError(t, err)
		assert.Equal(t, "A definir", activities[0].Owner)
	})
}
