package deriving

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
)

type fakeSource struct {
	accounts   []domain.Account
	meetings   []domain.Meeting
	plans      []domain.SuccessPlan
	financials []domain.FinancialRecord
	tickets    []domain.TicketRecord
	err        error
}

func (f *fakeSource) ListAccounts(context.Context) ([]domain.Account, error) {
	return f.accounts, f.err
}
func (f *fakeSource) ListMeetings(context.Context) ([]domain.Meeting, error) {
	return f.meetings, nil
}
func (f *fakeSource) ListSuccessPlans(context.Context) ([]domain.SuccessPlan, error) {
	return f.plans, nil
}
func (f *fakeSource) ListFinancialRecords(context.Context) ([]domain.FinancialRecord, error) {
	return f.financials, nil
}
func (f *fakeSource) ListTicketRecords(context.Context) ([]domain.TicketRecord, error) {
	return f.tickets, nil
}

func newTestService(source *fakeSource) *service {
	svc := NewService(source).(*service)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot carrega as coleções já reconciliadas", func(t *testing.T) {
		source := &fakeSource{
			accounts: []domain.Account{
				{ID: "acc-1", Name: "Acme", Products: []domain.Product{{ID: "prod-1", Name: "Plataforma", MRR: 100}}},
			},
			financials: []domain.FinancialRecord{
				{ID: "f1", AccountID: "acc-1", ProductID: "prod-1", Date: "2026-08-01", Amount: 900, Type: domain.MovementExpansion},
			},
		}
		svc := newTestService(source)

		require.NoError(t, svc.Refresh(ctx, "teste"))

		snapshot := svc.Snapshot()
		require.Len(t, snapshot.Accounts, 1)
		assert.Equal(t, float64(900), snapshot.Accounts[0].Products[0].MRR)
		assert.False(t, snapshot.RefreshedAt.IsZero())
	})

	t.Run("falha de fonte preserva o snapshot anterior", func(t *testing.T) {
		source := &fakeSource{
			accounts: []domain.Account{{ID: "acc-1", Name: "Acme"}},
		}
		svc := newTestService(source)
		require.NoError(t, svc.Refresh(ctx, "teste"))

		source.err = errors.New("banco indisponível")
		err := svc.Refresh(ctx, "teste")

		require.Error(t, err)
		assert.Len(t, svc.Snapshot().Accounts, 1)
	})

	t.Run("invalidate marca sujo até o próximo refresh", func(t *testing.T) {
		svc := newTestService(&fakeSource{})
		require.NoError(t, svc.Refresh(ctx, "teste"))
		assert.False(t, svc.Dirty())

		svc.Invalidate()
		assert.True(t, svc.Dirty())

		require.NoError(t, svc.Refresh(ctx, "teste"))
		assert.False(t, svc.Dirty())
	})
}

func TestTimeline(t *testing.T) {
	ctx := context.Background()

	source := &fakeSource{
		accounts: []domain.Account{
			{ID: "acc-1", Name: "Acme", SuccessPlanID: "sp-1"},
			{ID: "acc-2", Name: "Beta"},
		},
		meetings: []domain.Meeting{
			{ID: "m1", AccountID: "acc-1", Date: "2026-08-10", Type: "QBR", Summary: "revisão"},
			{ID: "m2", AccountID: "acc-2", Date: "2026-08-11", Type: "Call", Summary: "outra conta"},
		},
		plans: []domain.SuccessPlan{
			{ID: "sp-1", AccountID: "acc-1", CreatedAt: "2026-01-01", Objective: "Crescer"},
		},
	}

	svc := newTestService(source)
	require.NoError(t, svc.Refresh(ctx, "teste"))

	t.Run("linha do tempo usa só os dados da conta", func(t *testing.T) {
		events, err := svc.Timeline("acc-1", nil)
		require.NoError(t, err)

		ids := make([]string, 0, len(events))
		for _, evt := range events {
			ids = append(ids, evt.ID)
		}
		assert.Contains(t, ids, "meet-m1")
		assert.Contains(t, ids, "sp-start-sp-1")
		assert.NotContains(t, ids, "meet-m2")
	})

	t.Run("filtros do chamador são respeitados", func(t *testing.T) {
		filters := timelining.NewFilterSet()
		filters.Toggle(domain.EventSuccessPlanStart)

		events, err := svc.Timeline("acc-1", filters)
		require.NoError(t, err)

		for _, evt := range events {
			assert.NotEqual(t, domain.EventSuccessPlanStart, evt.Type)
		}
	})

	t.Run("conta inexistente devolve erro", func(t *testing.T) {
		_, err := svc.Timeline("acc-999", nil)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()

	source := &fakeSource{
		accounts: []domain.Account{{ID: "acc-1", Name: "Acme"}},
		tickets: []domain.TicketRecord{
			{ID: "t1", AccountID: "acc-1", Subject: "Parado", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityCritical, OpenedAt: "2026-08-20"},
		},
	}

	svc := newTestService(source)
	require.NoError(t, svc.Refresh(ctx, "teste"))

	notifs := svc.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, "notif-tick-t1", notifs[0].ID)
	assert.Equal(t, "Ticket Crítico: Acme", notifs[0].Title)
}
