package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
		// Domain se pasa al script get_certificate para armar el remote del
		// perfil .ovpn.
		Domain string `yaml:"domain"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Scripts struct {
		Dir     string        `yaml:"dir"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"scripts"`

	Lifecycle struct {
		TokenLifespan     time.Duration `yaml:"token_lifespan"`
		InviteTTL         time.Duration `yaml:"invite_ttl"`
		GuestGracePeriod  time.Duration `yaml:"guest_grace_period"`
		ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	} `yaml:"lifecycle"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Rate struct {
		Login struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Log struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Scripts.Dir == "" {
		c.Scripts.Dir = "./scripts"
	}
	if c.Scripts.Timeout == 0 {
		c.Scripts.Timeout = 2 * time.Minute
	}
	if c.Lifecycle.TokenLifespan == 0 {
		c.Lifecycle.TokenLifespan = 72 * time.Hour
	}
	if c.Lifecycle.InviteTTL == 0 {
		c.Lifecycle.InviteTTL = 5 * time.Minute
	}
	if c.Lifecycle.GuestGracePeriod == 0 {
		c.Lifecycle.GuestGracePeriod = 10 * time.Minute
	}
	if c.Lifecycle.ReconcileInterval == 0 {
		c.Lifecycle.ReconcileInterval = 3 * time.Minute
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Log.Env == "" {
		c.Log.Env = c.App.Env
	}

	c.applyEnvOverrides()

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnvOverrides pisa valores del YAML con variables VSM_*.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("VSM_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("VSM_DOMAIN"); ok {
		c.Server.Domain = v
	}
	if v, ok := getEnvStr("VSM_STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("VSM_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("VSM_SCRIPTS_DIR"); ok {
		c.Scripts.Dir = v
	}
	if v, ok := getEnvDuration("VSM_TOKEN_LIFESPAN"); ok {
		c.Lifecycle.TokenLifespan = v
	}
	if v, ok := getEnvDuration("VSM_INVITE_TTL"); ok {
		c.Lifecycle.InviteTTL = v
	}
	if v, ok := getEnvDuration("VSM_GUEST_GRACE_PERIOD"); ok {
		c.Lifecycle.GuestGracePeriod = v
	}
	if v, ok := getEnvDuration("VSM_RECONCILE_INTERVAL"); ok {
		c.Lifecycle.ReconcileInterval = v
	}
	if v, ok := getEnvStr("VSM_REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvStr("VSM_REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := getEnvInt("VSM_REDIS_DB"); ok {
		c.Redis.DB = v
	}
	if v, ok := getEnvStr("VSM_LOG_ENV"); ok {
		c.Log.Env = v
	}
	if v, ok := getEnvStr("VSM_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("config: storage.dsn is required with the postgres driver")
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("config: conn_max_lifetime: %w", err)
		}
	}
	return nil
}

// PGConnMaxLifetime devuelve el lifetime ya parseado (0 si no está seteado).
func (c *Config) PGConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime)
	return d
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvDuration(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
