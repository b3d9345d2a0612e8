package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
	"github.com/vfg2006/customer-success-api/infrastructure/integrator/upstream/upstreamclient"
	"github.com/vfg2006/customer-success-api/infrastructure/repository"
	"github.com/vfg2006/customer-success-api/internal/api"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/internal/scheduler"
	"github.com/vfg2006/customer-success-api/internal/usecases/authenticating"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/internal/usecases/importing"
	"github.com/vfg2006/customer-success-api/internal/usecases/managing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	meetingRepo := repository.NewMeetingRepository(pgConn)
	planRepo := repository.NewSuccessPlanRepository(pgConn)
	segmentRepo := repository.NewSegmentRepository(pgConn)
	playbookRepo := repository.NewPlaybookRepository(pgConn)
	financialRepo := repository.NewFinancialRepository(pgConn)
	ticketRepo := repository.NewTicketRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	// Motor de derivação sobre as coleções canônicas
	derivationSource := &repository.DerivationSource{
		Accounts:     accountRepo,
		Meetings:     meetingRepo,
		SuccessPlans: planRepo,
		Financials:   financialRepo,
		Tickets:      ticketRepo,
	}
	derivationService := deriving.NewService(derivationSource)

	// Carga inicial do snapshot derivado
	if err := derivationService.Refresh(ctx, "startup"); err != nil {
		logrus.WithError(err).Error("Erro na carga inicial do cache derivado")
	}

	managementService := managing.NewService(
		accountRepo,
		meetingRepo,
		planRepo,
		segmentRepo,
		playbookRepo,
		financialRepo,
		ticketRepo,
		derivationService,
	)

	// Cliente resiliente do serviço externo (helpdesk), com refresh de sessão
	renderClient := config.NewRenderClient(cfg)
	sessionManager := upstreamclient.NewSessionManager(cfg, renderClient)
	upstreamClient := upstreamclient.NewClient(cfg, sessionManager)

	derivationSyncService := scheduler.NewDerivationSyncService(derivationService, cfg)
	ticketSyncService := scheduler.NewTicketSyncService(
		upstreamClient,
		ticketRepo,
		importing.NewService(),
		derivationService,
		cfg,
	)

	if err := derivationSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de derivação")
	} else {
		logrus.Info("Agendador de derivação iniciado com sucesso")
	}

	if err := ticketSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de tickets")
	} else {
		logrus.Info("Agendador de sincronização de tickets iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		pgConn,
		managementService,
		derivationService,
		authenticator,
		derivationSyncService,
		ticketSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
