package notifying_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/notifying"
)

func TestCompute(t *testing.T) {
	now := time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC)
	svc := notifying.NewService()

	accounts := []domain.Account{
		{ID: "acc-1", Name: "Acme Corp"},
		{ID: "acc-2", Name: "Beta Ltda"},
	}

	t.Run("ticket crítico não resolvido gera alerta de risco", func(t *testing.T) {
		tickets := []domain.TicketRecord{
			{
				ID:        "t1",
				AccountID: "acc-1",
				Subject:   "Sistema fora do ar",
				Status:    domain.TicketStatusOpen,
				Priority:  domain.TicketPriorityCritical,
				OpenedAt:  "2026-08-20",
			},
			{
				ID:        "t2",
				AccountID: "acc-1",
				Subject:   "Crítico já resolvido",
				Status:    domain.TicketStatusResolved,
				Priority:  domain.TicketPriorityCritical,
				OpenedAt:  "2026-08-21",
			},
			{
				ID:        "t3",
				AccountID: "acc-1",
				Subject:   "Prioridade média",
				Status:    domain.TicketStatusOpen,
				Priority:  domain.TicketPriorityMedium,
				OpenedAt:  "2026-08-22",
			},
		}

		notifs := svc.Compute(notifying.Input{Accounts: accounts, TicketRecords: tickets, Now: now})

		require.Len(t, notifs, 1)
		assert.Equal(t, "notif-tick-t1", notifs[0].ID)
		assert.Equal(t, domain.NotificationRisk, notifs[0].Type)
		assert.Equal(t, "Ticket Crítico: Acme Corp", notifs[0].Title)
		assert.Equal(t, "Sistema fora do ar", notifs[0].Message)
		assert.Equal(t, "tickets", notifs[0].LinkTo)
		assert.False(t, notifs[0].Read)
	})

	t.Run("conta desconhecida usa rótulo genérico", func(t *testing.T) {
		tickets := []domain.TicketRecord{
			{
				ID:        "t9",
				AccountID: "acc-inexistente",
				Subject:   "Falha grave",
				Status:    domain.TicketStatusPending,
				Priority:  domain.TicketPriorityCritical,
				OpenedAt:  "2026-08-25",
			},
		}

		notifs := svc.Compute(notifying.Input{Accounts: accounts, TicketRecords: tickets, Now: now})

		require.Len(t, notifs, 1)
		assert.Equal(t, "Ticket Crítico: Cliente", notifs[0].Title)
	})

	t.Run("churn e contraction do mês atual geram alerta financeiro", func(t *testing.T) {
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-2", Date: "2026-08-05", Amount: 1500, Type: domain.MovementChurn},
			{ID: "f2", AccountID: "acc-2", Date: "2026-08-12", Amount: 300.5, Type: domain.MovementContraction},
			{ID: "f3", AccountID: "acc-2", Date: "2026-07-30", Amount: 900, Type: domain.MovementChurn},
			{ID: "f4", AccountID: "acc-2", Date: "2026-08-15", Amount: 2000, Type: domain.MovementExpansion},
		}

		notifs := svc.Compute(notifying.Input{Accounts: accounts, FinancialRecords: records, Now: now})

		require.Len(t, notifs, 2)

		ids := []string{notifs[0].ID, notifs[1].ID}
		assert.Contains(t, ids, "notif-fin-f1")
		assert.Contains(t, ids, "notif-fin-f2")

		for _, n := range notifs {
			assert.Equal(t, domain.NotificationRisk, n.Type)
			assert.Equal(t, "Alerta Financeiro: Beta Ltda", n.Title)
			assert.Equal(t, "financials", n.LinkTo)
		}

		for _, n := range notifs {
			if n.ID == "notif-fin-f2" {
				assert.Equal(t, "Registro de Contraction identificado no valor de R$ 300.5.", n.Message)
			}
		}
	})

	t.Run("reuniões de hoje e amanhã geram tarefa", func(t *testing.T) {
		meetings := []domain.Meeting{
			{ID: "m1", AccountName: "Acme Corp", Date: "2026-08-29", Type: "QBR"},
			{ID: "m2", AccountName: "Beta Ltda", Date: "2026-08-30", Type: "Check-in"},
			{ID: "m3", AccountName: "Acme Corp", Date: "2026-08-20", Type: "Call"},
		}

		notifs := svc.Compute(notifying.Input{Accounts: accounts, Meetings: meetings, Now: now})

		require.Len(t, notifs, 1)
		assert.Equal(t, "notif-meet-m1", notifs[0].ID)
		assert.Equal(t, domain.NotificationTask, notifs[0].Type)
		assert.Equal(t, "Reunião Próxima: Acme Corp", notifs[0].Title)
		assert.Equal(t, "QBR agendada para Amanhã. Prepare a pauta.", notifs[0].Message)
		assert.Equal(t, "meetings", notifs[0].LinkTo)
	})

	t.Run("resultado ordenado do mais recente para o mais antigo", func(t *testing.T) {
		tickets := []domain.TicketRecord{
			{ID: "t1", AccountID: "acc-1", Subject: "antigo", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical, OpenedAt: "2026-08-01"},
			{ID: "t2", AccountID: "acc-1", Subject: "recente", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical, OpenedAt: "2026-08-27"},
		}
		records := []domain.FinancialRecord{
			{ID: "f1", AccountID: "acc-2", Date: "2026-08-15", Amount: 100, Type: domain.MovementChurn},
		}

		notifs := svc.Compute(notifying.Input{
			Accounts:         accounts,
			TicketRecords:    tickets,
			FinancialRecords: records,
			Now:              now,
		})

		require.Len(t, notifs, 3)
		assert.Equal(t, "notif-tick-t2", notifs[0].ID)
		assert.Equal(t, "notif-fin-f1", notifs[1].ID)
		assert.Equal(t, "notif-tick-t1", notifs[2].ID)
	})

	t.Run("razões vazios devolvem lista vazia", func(t *testing.T) {
		notifs := svc.Compute(notifying.Input{Accounts: accounts, Now: now})
		assert.NotNil(t, notifs)
		assert.Empty(t, notifs)
	})
}
