package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432

	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"

	PasswordSHA256 = "sha256"
	PasswordBcrypt = "bcrypt"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	CoversPath string `yaml:"covers_path" env:"COVERS_PATH" env-default:"./covers"`
	AppSecret  string `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
	Session    Session  `yaml:"session"`
	Password   Password `yaml:"password"`
}

type Database struct {
	Driver       string        `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	Host         string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"DB_PORT"`
	UsernameDB   string        `yaml:"username-db" env:"DB_USER" env-required:"true"`
	Password     string        `yaml:"password" env:"DB_PASSWORD"`
	DBName       string        `yaml:"dbname" env:"DB_NAME" env-default:"games"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"2"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"30m"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Session struct {
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"cookie"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"games_session"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
	Redis      Redis         `yaml:"redis"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Password struct {
	Algorithm  string `yaml:"algorithm" env:"PASSWORD_ALGORITHM" env-default:"sha256"`
	BcryptCost int    `yaml:"bcrypt_cost" env:"PASSWORD_BCRYPT_COST" env-default:"10"`
}

// MustLoad reads the config file named by -config or CONFIG_PATH. Without
// either, the config is taken from the environment alone.
func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s - %s", path, err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Database.Driver {
	case DriverMySQL:
		if cfg.Database.Port == 0 {
			cfg.Database.Port = defaultMySQLPort
		}
	case DriverPostgres:
		if cfg.Database.Port == 0 {
			cfg.Database.Port = defaultPostgresPort
		}
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	switch cfg.Session.Store {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	switch cfg.Password.Algorithm {
	case PasswordSHA256, PasswordBcrypt:
	default:
		return fmt.Errorf("unknown password algorithm %q", cfg.Password.Algorithm)
	}

	return nil
}

// GetDSN renders the connection string for the configured driver. Postgres
// gets a URL so that credentials with spaces or quotes survive intact.
func (cfg *Database) GetDSN() string {
	if cfg.Driver == DriverPostgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.UsernameDB, cfg.Password),
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.UsernameDB,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}
