// Package scheduler contém os serviços de agendamento para sincronização de dados
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
)

type DerivationSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// DerivationSyncService mantém o cache derivado atualizado. O ciclo agendado
// só recomputa quando alguma mutação marcou as fontes como sujas
type DerivationSyncService struct {
	scheduler           *gocron.Scheduler
	derivation          deriving.Service
	config              DerivationSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewDerivationSyncService(
	derivation deriving.Service,
	cfg *config.Config,
) *DerivationSyncService {
	syncConfig := DerivationSyncConfig{
		CronSchedule: cfg.DerivationSync.CronSchedule, // Default: a cada 10 minutos
		SyncEnabled:  cfg.DerivationSync.Enabled,      // Default: habilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
	}).Info("Configuração do agendador de derivação carregada")

	return &DerivationSyncService{
		scheduler:  scheduler,
		derivation: derivation,
		config:     syncConfig,
	}
}

func (s *DerivationSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de derivação desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de derivação")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunDerivation(ctx); err != nil {
			logrus.WithError(err).Error("Erro no ciclo de derivação agendado")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar ciclo de derivação: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de derivação")
		s.scheduler.Stop()
	}()

	return nil
}

// RunDerivation executa um ciclo de derivação se houver mutação pendente
func (s *DerivationSyncService) RunDerivation(ctx context.Context) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Ciclo de derivação já está em execução")
		return nil
	}

	if !s.derivation.Dirty() {
		logrus.Debug("Cache derivado limpo, ciclo de derivação ignorado")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	logrus.Info("Iniciando ciclo de derivação agendado")

	if err := s.derivation.Refresh(ctx, "cron"); err != nil {
		logrus.WithError(err).Error("Erro ao recomputar cache derivado")
		return err
	}

	logrus.Info("Ciclo de derivação agendado concluído")

	return nil
}

// TriggerManualSync inicia manualmente um ciclo de derivação
func (s *DerivationSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ciclo de derivação já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando ciclo de derivação manual")
	go func() {
		s.derivation.Invalidate()
		if err := s.RunDerivation(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro no ciclo de derivação manual")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *DerivationSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
