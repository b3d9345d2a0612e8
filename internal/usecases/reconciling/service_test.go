package reconciling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/reconciling"
)

func baseAccount() domain.Account {
	return domain.Account{
		ID:   "acc-1",
		Name: "Acme Corp",
		Products: []domain.Product{
			{ID: "prod-1", Name: "Plataforma", MRR: 1000},
			{ID: "prod-2", Name: "Analytics", MRR: 500},
		},
	}
}

func TestReconcile(t *testing.T) {
	svc := reconciling.NewService()

	t.Run("registro mais recente define o mrr do produto", func(t *testing.T) {
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-06-01", Amount: 1200, Type: domain.MovementExpansion},
			{ID: "f2", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1500, Type: domain.MovementExpansion},
			{ID: "f3", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-07-01", Amount: 900, Type: domain.MovementContraction},
		}

		result := svc.Reconcile(reconciling.Input{
			Accounts:         []domain.Account{baseAccount()},
			FinancialRecords: records,
		})

		require.True(t, result.Changed)
		assert.Equal(t, float64(1500), result.Accounts[0].Products[0].MRR)
		assert.Equal(t, float64(500), result.Accounts[0].Products[1].MRR, "produto sem registro não muda")
	})

	t.Run("empate de data mantém o primeiro registro da entrada", func(t *testing.T) {
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1100, Type: domain.MovementRecurring},
			{ID: "f2", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1300, Type: domain.MovementRecurring},
		}

		result := svc.Reconcile(reconciling.Input{
			Accounts:         []domain.Account{baseAccount()},
			FinancialRecords: records,
		})

		assert.Equal(t, float64(1100), result.Accounts[0].Products[0].MRR)
	})

	t.Run("contadores de tickets vão apenas para o primeiro produto", func(t *testing.T) {
		tickets := []domain.TicketRecord{
			{ID: "t1", AccountID: "acc-1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical},
			{ID: "t2", AccountID: "acc-1", Status: domain.TicketStatusPending, Priority: domain.TicketPriorityLow},
			{ID: "t3", AccountID: "acc-1", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityCritical},
			{ID: "t4", AccountID: "acc-2", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
		}

		result := svc.Reconcile(reconciling.Input{
			Accounts:      []domain.Account{baseAccount()},
			TicketRecords: tickets,
		})

		require.True(t, result.Changed)
		assert.Equal(t, 2, result.Accounts[0].Products[0].OpenTickets, "resolvidos e de outras contas ficam de fora")
		assert.Equal(t, 1, result.Accounts[0].Products[0].CriticalTickets)
		assert.Zero(t, result.Accounts[0].Products[1].OpenTickets)
		assert.Zero(t, result.Accounts[0].Products[1].CriticalTickets)
	})

	t.Run("conta sem produtos não quebra com tickets presentes", func(t *testing.T) {
		account := domain.Account{ID: "acc-1", Name: "Sem Produtos"}
		tickets := []domain.TicketRecord{
			{ID: "t1", AccountID: "acc-1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical},
		}

		result := svc.Reconcile(reconciling.Input{
			Accounts:      []domain.Account{account},
			TicketRecords: tickets,
		})

		assert.False(t, result.Changed)
		assert.Equal(t, account, result.Accounts[0])
	})

	t.Run("idempotente sobre estado já reconciliado", func(t *testing.T) {
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 1500, Type: domain.MovementExpansion},
		}
		tickets := []domain.TicketRecord{
			{ID: "t1", AccountID: "acc-1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical},
		}

		in := reconciling.Input{
			Accounts:         []domain.Account{baseAccount()},
			FinancialRecords: records,
			TicketRecords:    tickets,
		}

		first := svc.Reconcile(in)
		require.True(t, first.Changed)

		second := svc.Reconcile(reconciling.Input{
			Accounts:         first.Accounts,
			FinancialRecords: records,
			TicketRecords:    tickets,
		})

		assert.False(t, second.Changed)
		assert.Equal(t, first.Accounts, second.Accounts)
	})

	t.Run("copy-on-write não muta a entrada", func(t *testing.T) {
		original := baseAccount()
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 9999, Type: domain.MovementExpansion},
		}

		result := svc.Reconcile(reconciling.Input{
			Accounts:         []domain.Account{original},
			FinancialRecords: records,
		})

		require.True(t, result.Changed)
		assert.Equal(t, float64(1000), original.Products[0].MRR, "entrada permanece intacta")
		assert.Equal(t, float64(9999), result.Accounts[0].Products[0].MRR)
	})

	t.Run("sem razões nada muda", func(t *testing.T) {
		account := baseAccount()
		result := svc.Reconcile(reconciling.Input{Accounts: []domain.Account{account}})

		assert.False(t, result.Changed)
		assert.Equal(t, account, result.Accounts[0])
	})
}
