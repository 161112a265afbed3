package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"campus"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type ImportQueueOptions struct {
	PollInterval    time.Duration `env:"IMPORT_QUEUE_POLL_INTERVAL" envDefault:"1s"`
	MaxAttempts     int           `env:"IMPORT_QUEUE_MAX_ATTEMPTS" envDefault:"25"`
	MaxBackoff      time.Duration `env:"IMPORT_QUEUE_MAX_BACKOFF" envDefault:"5m"`
	ConsumerEnabled bool          `env:"IMPORT_CONSUMER_ENABLED" envDefault:"true"`
}

type TaskJanitorOptions struct {
	Enabled   bool          `env:"TASK_JANITOR_ENABLED" envDefault:"true"`
	Interval  time.Duration `env:"TASK_JANITOR_INTERVAL" envDefault:"10m"`
	Retention time.Duration `env:"TASK_JANITOR_RETENTION" envDefault:"24h"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/metrics"`
}

// ScheduleServiceOptions configures the outbound schedule-generation client.
// The schedule module stays unregistered until a base URL is set.
type ScheduleServiceOptions struct {
	BaseURL string        `env:"SCHEDULE_SERVICE_URL"`
	Timeout time.Duration `env:"SCHEDULE_SERVICE_TIMEOUT" envDefault:"30s"`
}

type Configuration struct {
	Database    DatabaseOptions
	ImportQueue ImportQueueOptions
	TaskJanitor TaskJanitorOptions
	Prometheus  PrometheusOptions
	Schedule    ScheduleServiceOptions

	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogFile          string `env:"LOG_FILE" envDefault:""`

	logger *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if c.LogFile != "" {
		c.logger = logging.FileLogger(c.LogrusLogLevel(), c.LogFile)
	} else {
		logger := logrus.New()
		logger.SetLevel(c.LogrusLogLevel())
		logger.SetFormatter(&logrus.JSONFormatter{})
		c.logger = logger
	}

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	return nil
}
