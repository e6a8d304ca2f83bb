package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type App struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	HTTP  HTTP   `mapstructure:"http"`
	Admin HTTP   `mapstructure:"admin"`
}

func (a App) Production() bool { return a.Env == "prod" || a.Env == "production" }

type Rotate struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level     string `mapstructure:"level"`
	JSON      bool   `mapstructure:"json"`
	AddCaller bool   `mapstructure:"add_caller"`
	Rotate    Rotate `mapstructure:"rotate"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Password struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type Redis struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	TTLSec   int    `mapstructure:"ttl_sec"`
}

func (r Redis) TTL() time.Duration { return time.Duration(r.TTLSec) * time.Second }

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
	SlowThresholdMs    int    `mapstructure:"slow_threshold_ms"`
}

type Limits struct {
	RatePerSec    float64 `mapstructure:"rate_per_sec"`
	Burst         int     `mapstructure:"burst"`
	MaxConcurrent int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes  int64   `mapstructure:"max_body_bytes"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
}

type CORS struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type Seed struct {
	Enabled  bool   `mapstructure:"enabled"`
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	JWT      JWT      `mapstructure:"jwt"`
	Password Password `mapstructure:"password"`
	DB       DB       `mapstructure:"db"`
	Redis    Redis    `mapstructure:"redis"`
	Limits   Limits   `mapstructure:"limits"`
	CORS     CORS     `mapstructure:"cors"`
	Seed     Seed     `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "taskhub")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.read_timeout_sec", 5)
	v.SetDefault("app.admin.write_timeout_sec", 10)
	v.SetDefault("app.admin.idle_timeout_sec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.add_caller", true)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "./logs/taskhub.log")
	v.SetDefault("log.rotate.max_size_mb", 100)
	v.SetDefault("log.rotate.max_backups", 7)
	v.SetDefault("log.rotate.max_age_days", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "taskhub")
	v.SetDefault("jwt.access_token_ttl_min", 120)
	v.SetDefault("password.bcrypt_cost", 10)

	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("db.slow_threshold_ms", 200)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "taskhub:")
	v.SetDefault("redis.ttl_sec", 60)

	v.SetDefault("limits.rate_per_sec", 20.0)
	v.SetDefault("limits.burst", 40)
	v.SetDefault("limits.max_concurrent", 256)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.timeout_sec", 15)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.name", "Admin")
	v.SetDefault("seed.email", "admin@example.com")
	v.SetDefault("seed.password", "")
}

// Load reads path (or CONFIG_PATH, or DefaultPath) and applies APP_* env overrides.
// A missing file is not an error; defaults and env still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = DefaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		errs = append(errs, errors.New("jwt.access_token_ttl_min must be positive"))
	}
	switch c.DB.Driver {
	case "memory":
	case "postgres", "mysql":
		if c.DB.DSN == "" {
			errs = append(errs, fmt.Errorf("db.dsn is required for driver %q", c.DB.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("db.driver %q is not one of memory, postgres, mysql", c.DB.Driver))
	}
	if c.Seed.Enabled && c.Seed.Password == "" {
		errs = append(errs, errors.New("seed.password is required when seeding is enabled"))
	}
	return errors.Join(errs...)
}
