package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/infrastructure/integrator/upstream/upstreamclient"
	"github.com/vfg2006/customer-success-api/infrastructure/repository"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/internal/usecases/importing"
)

type TicketSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// TicketSyncService sincroniza o razão de tickets com o helpdesk externo
// (Zendesk, Jira). O upsert é por external_id, então reimportações são
// idempotentes
type TicketSyncService struct {
	scheduler           *gocron.Scheduler
	upstream            upstreamclient.Client
	ticketRepo          repository.TicketRepository
	importer            importing.Service
	derivation          deriving.Service
	config              TicketSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewTicketSyncService(
	upstream upstreamclient.Client,
	ticketRepo repository.TicketRepository,
	importer importing.Service,
	derivation deriving.Service,
	cfg *config.Config,
) *TicketSyncService {
	syncConfig := TicketSyncConfig{
		CronSchedule: cfg.TicketSync.CronSchedule, // Default: a cada 2 horas
		SyncEnabled:  cfg.TicketSync.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
	}).Info("Configuração do agendador de sincronização de tickets carregada")

	return &TicketSyncService{
		scheduler:  scheduler,
		upstream:   upstream,
		ticketRepo: ticketRepo,
		importer:   importer,
		derivation: derivation,
		config:     syncConfig,
	}
}

func (s *TicketSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de sincronização de tickets desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de sincronização de tickets")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncTickets(ctx); err != nil {
			logrus.WithError(err).Error("Erro na sincronização de tickets")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de tickets: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de sincronização de tickets")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncTickets busca os tickets do helpdesk e aplica o upsert por external_id
func (s *TicketSyncService) SyncTickets(ctx context.Context) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Sincronização de tickets já está em execução")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	logrus.Info("Iniciando sincronização de tickets")

	var incoming []domain.TicketRecord
	if err := s.upstream.Get(ctx, "/tickets", &incoming); err != nil {
		logrus.WithError(err).Error("Erro ao buscar tickets do helpdesk")
		return err
	}

	if len(incoming) == 0 {
		logrus.Info("Nenhum ticket retornado pelo helpdesk")
		return nil
	}

	existing, err := s.ticketRepo.ListTicketRecords()
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar razão de tickets")
		return err
	}

	merged := s.importer.UpsertTicketRecords(existing, incoming)

	if err := s.ticketRepo.SaveOrUpdate(merged); err != nil {
		logrus.WithError(err).Error("Erro ao salvar razão de tickets")
		return err
	}

	s.derivation.Invalidate()

	logrus.WithFields(logrus.Fields{
		"incoming": len(incoming),
		"total":    len(merged),
	}).Info("Sincronização de tickets concluída")

	return nil
}

// TriggerManualSync inicia manualmente uma sincronização de tickets
func (s *TicketSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de tickets já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de tickets")
	go func() {
		if err := s.SyncTickets(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na sincronização manual de tickets")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *TicketSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
