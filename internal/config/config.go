package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read once at startup and passed by value into constructors.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DB         DBConfig
	Auth       AuthConfig
	SuperAdmin SuperAdminConfig
	Kafka      KafkaConfig
	Search     SearchConfig

	DomainURL      string `env:"DOMAIN_URL"      env-default:"http://localhost:8080"`
	DictionaryPath string `env:"DICTIONARY_PATH"`
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER"    env-default:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"  env-default:"legalpadi.db"`
}

func (d DBConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return d.DatabaseURL
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  env-default:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"48h"`
	VerifyLinkTTL   time.Duration `env:"VERIFY_LINK_TTL"   env-default:"72h"`
	BcryptCost      int           `env:"BCRYPT_COST"       env-default:"10"`
	SweepInterval   time.Duration `env:"REVOCATION_SWEEP_INTERVAL" env-default:"1h"`
}

type SuperAdminConfig struct {
	Email       string `env:"SUPER_ADMIN_EMAIL"`
	Password    string `env:"SUPER_ADMIN_PASSWORD"`
	FirstName   string `env:"SUPER_ADMIN_FIRST_NAME" env-default:"Super"`
	LastName    string `env:"SUPER_ADMIN_LAST_NAME"  env-default:"Admin"`
	PhoneNumber string `env:"SUPER_ADMIN_PHONE_NUMBER"`
}

type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS" env-separator:","`
	MailTopic   string   `env:"MAIL_TOPIC"    env-default:"mail_outbox"`
	EventsTopic string   `env:"EVENTS_TOPIC"  env-default:"user_events"`
}

type SearchConfig struct {
	URL      string `env:"ES_URL"`
	User     string `env:"ES_USER"`
	Password string `env:"ES_PASSWORD"`
	Index    string `env:"ES_INDEX" env-default:"courses"`
}

func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}
	if c.Auth.VerifyLinkTTL <= 0 {
		errs = append(errs, errors.New("VERIFY_LINK_TTL must be positive"))
	}
	if c.Auth.SweepInterval < 0 {
		errs = append(errs, errors.New("REVOCATION_SWEEP_INTERVAL must not be negative"))
	}
	switch c.DB.Driver {
	case "postgres":
		if c.DB.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	return errors.Join(errs...)
}

func (c Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

func (c Config) SearchEnabled() bool { return c.Search.URL != "" }
