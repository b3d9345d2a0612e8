package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App             App             `mapstructure:",squash"`
	Server          Server          `mapstructure:",squash"`
	Database        Database        `mapstructure:",squash"`
	Upstream        Upstream        `mapstructure:",squash"`
	Render          Render          `mapstructure:",squash"`
	Auth            Auth            `mapstructure:",squash"`
	DerivationSync  DerivationSync  `mapstructure:",squash"`
	TicketSync      TicketSync      `mapstructure:",squash"`
	SecretKey       string          `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Upstream descreve o serviço de identidade e dados que o cliente resiliente
// consome (sessões, refresh de token e fetch em lote)
type Upstream struct {
	BaseURL        string `mapstructure:"upstream_base_url"`
	AuthURL        string `mapstructure:"upstream_auth_url"`
	APIKey         string `mapstructure:"upstream_api_key"`
	AccessToken    string `mapstructure:"upstream_access_token"`
	RefreshToken   string `mapstructure:"upstream_refresh_token"`
	TimeoutSeconds int    `mapstructure:"upstream_timeout_seconds"`
	MaxRetries     int    `mapstructure:"upstream_max_retries"`
	BackoffMillis  int    `mapstructure:"upstream_backoff_millis"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// DerivationSync controla a recomputação periódica das visões derivadas
// (timeline, notificações e reconciliação financeira)
type DerivationSync struct {
	CronSchedule string `mapstructure:"derivation_sync_cron"`
	Enabled      bool   `mapstructure:"derivation_sync_enabled"`
}

// TicketSync controla a importação periódica de tickets do sistema externo
type TicketSync struct {
	CronSchedule string `mapstructure:"ticket_sync_cron"`
	Enabled      bool   `mapstructure:"ticket_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/customer_success")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3001/api")
	viper.SetDefault("UPSTREAM_AUTH_URL", "http://localhost:3001/auth/v1")
	viper.SetDefault("UPSTREAM_API_KEY", "")
	viper.SetDefault("UPSTREAM_ACCESS_TOKEN", "") // ONLY LOCAL
	viper.SetDefault("UPSTREAM_REFRESH_TOKEN", "")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	viper.SetDefault("UPSTREAM_MAX_RETRIES", 3)
	viper.SetDefault("UPSTREAM_BACKOFF_MILLIS", 1000)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")

	// Defaults para recomputação das visões derivadas
	viper.SetDefault("DERIVATION_SYNC_CRON", "*/10 * * * *") // A cada 10 minutos
	viper.SetDefault("DERIVATION_SYNC_ENABLED", true)

	// Defaults para importação de tickets
	viper.SetDefault("TICKET_SYNC_CRON", "0 */2 * * *") // A cada 2 horas
	viper.SetDefault("TICKET_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
