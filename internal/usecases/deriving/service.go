package deriving

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/metrics"
	"github.com/vfg2006/customer-success-api/internal/usecases/notifying"
	"github.com/vfg2006/customer-success-api/internal/usecases/reconciling"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
	"github.com/vfg2006/customer-success-api/pkg/log"
)

// ErrAccountNotFound indica que a conta pedida não existe no snapshot corrente
var ErrAccountNotFound = errors.New("conta não encontrada")

// Source fornece as coleções canônicas que alimentam a derivação
type Source interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListMeetings(ctx context.Context) ([]domain.Meeting, error)
	ListSuccessPlans(ctx context.Context) ([]domain.SuccessPlan, error)
	ListFinancialRecords(ctx context.Context) ([]domain.FinancialRecord, error)
	ListTicketRecords(ctx context.Context) ([]domain.TicketRecord, error)
}

// Snapshot é a visão consistente das coleções após um ciclo de derivação. Os
// leitores sempre recebem um snapshot inteiro, nunca um estado parcial
type Snapshot struct {
	Accounts         []domain.Account
	Meetings         []domain.Meeting
	SuccessPlans     []domain.SuccessPlan
	FinancialRecords []domain.FinancialRecord
	TicketRecords    []domain.TicketRecord
	Revision         uint64
	RefreshedAt      time.Time
}

type Service interface {
	Refresh(ctx context.Context, trigger string) error
	Invalidate()
	Dirty() bool
	Snapshot() Snapshot
	Timeline(accountID string, filters timelining.FilterSet) ([]domain.TimelineEvent, error)
	Notifications() []domain.Notification
}

type service struct {
	source     Source
	reconciler reconciling.Service
	timeline   timelining.Service
	notifier   notifying.Service
	now        func() time.Time

	sourceRevision uint64

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewService(source Source) Service {
	return &service{
		source:     source,
		reconciler: reconciling.NewService(),
		timeline:   timelining.NewService(),
		notifier:   notifying.NewService(),
		now:        time.Now,
	}
}

// Invalidate marca as fontes como sujas. É um gatilho barato: só incrementa a
// revisão, a recomputação acontece no próximo Refresh
func (s *service) Invalidate() {
	atomic.AddUint64(&s.sourceRevision, 1)
}

// Dirty informa se há mutação de fonte ainda não refletida no snapshot
func (s *service) Dirty() bool {
	s.mu.RLock()
	applied := s.snapshot.Revision
	s.mu.RUnlock()
	return atomic.LoadUint64(&s.sourceRevision) != applied
}

// Refresh recarrega as coleções canônicas, roda a reconciliação financeira e
// de tickets e substitui o snapshot por inteiro. Leitores concorrentes nunca
// observam um estado intermediário
func (s *service) Refresh(ctx context.Context, trigger string) error {
	started := s.now()
	revision := atomic.LoadUint64(&s.sourceRevision)

	metrics.DerivationRuns.WithLabelValues(trigger).Inc()

	accounts, err := s.source.ListAccounts(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar contas para derivação")
	}
	meetings, err := s.source.ListMeetings(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar reuniões para derivação")
	}
	plans, err := s.source.ListSuccessPlans(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar planos de sucesso para derivação")
	}
	financials, err := s.source.ListFinancialRecords(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar razão financeiro para derivação")
	}
	tickets, err := s.source.ListTicketRecords(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar razão de tickets para derivação")
	}

	result := s.reconciler.Reconcile(reconciling.Input{
		Accounts:         accounts,
		FinancialRecords: financials,
		TicketRecords:    tickets,
	})
	if result.Changed {
		metrics.DerivationChanges.Inc()
	}

	snapshot := Snapshot{
		Accounts:         result.Accounts,
		Meetings:         meetings,
		SuccessPlans:     plans,
		FinancialRecords: financials,
		TicketRecords:    tickets,
		Revision:         revision,
		RefreshedAt:      s.now(),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	metrics.DerivationDuration.Observe(s.now().Sub(started).Seconds())

	log.ForContext(ctx).WithFields(log.Fields{
		"trigger":  trigger,
		"accounts": len(snapshot.Accounts),
		"changed":  result.Changed,
	}).Debug("ciclo de derivação concluído")

	return nil
}

// Snapshot devolve a visão consistente corrente
func (s *service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Timeline agrega a linha do tempo da conta sobre o snapshot corrente
func (s *service) Timeline(accountID string, filters timelining.FilterSet) ([]domain.TimelineEvent, error) {
	snapshot := s.Snapshot()

	var account *domain.Account
	for i := range snapshot.Accounts {
		if snapshot.Accounts[i].ID == accountID {
			account = &snapshot.Accounts[i]
			break
		}
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	meetings := make([]domain.Meeting, 0)
	for _, m := range snapshot.Meetings {
		if m.AccountID == accountID {
			meetings = append(meetings, m)
		}
	}

	var plan *domain.SuccessPlan
	for i := range snapshot.SuccessPlans {
		if snapshot.SuccessPlans[i].ID == account.SuccessPlanID {
			plan = &snapshot.SuccessPlans[i]
			break
		}
	}

	return s.timeline.Aggregate(timelining.Input{
		Account:     *account,
		Meetings:    meetings,
		SuccessPlan: plan,
		Filters:     filters,
		Reference:   s.now(),
	}), nil
}

// Notifications computa as notificações sobre o snapshot corrente
func (s *service) Notifications() []domain.Notification {
	snapshot := s.Snapshot()

	notifs := s.notifier.Compute(notifying.Input{
		Accounts:         snapshot.Accounts,
		TicketRecords:    snapshot.TicketRecords,
		FinancialRecords: snapshot.FinancialRecords,
		Meetings:         snapshot.Meetings,
		Now:              s.now(),
	})

	metrics.ActiveNotifications.Set(float64(len(notifs)))

	return notifs
}
