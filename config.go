package main

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration: an optional config.yaml overlaid
// with LANDBANK_* environment variables, falling back to development
// defaults.
type Config struct {
	Port         string `yaml:"port"`
	Debug        bool   `yaml:"debug"`
	DBURL        string `yaml:"db_url"`
	DBDriver     string `yaml:"db_driver"`
	SQLitePath   string `yaml:"sqlite_path"`
	RedisURL     string `yaml:"redis_url"`
	Secret       string `yaml:"secret"`
	BootstrapSQL string `yaml:"bootstrap_sql"`
	AuditLogPath string `yaml:"audit_log"`
	ViewsDir     string `yaml:"views_dir"`

	LogSamplingTickMs  int `yaml:"log_sampling_tick_ms"`
	LogSamplingAfterMs int `yaml:"log_sampling_after_ms"`
}

// The legacy session secret. Startup warns loudly when it is still in
// use.
const insecureDefaultSecret = "landbank_secret_key"

func loadConfig(logger *logrus.Logger) Config {
	cfg := Config{
		Port:     "5000",
		Secret:   insecureDefaultSecret,
		ViewsDir: "./views",
	}

	for _, path := range []string{"./config.yaml", "../config.yaml"} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.WithError(err).WithField("path", path).Fatal("invalid config file")
		}
		logger.WithField("path", path).Info("loaded config file")
		break
	}

	overlayEnv(&cfg)

	if cfg.Secret == insecureDefaultSecret {
		logger.Warn("using the built-in session secret; set LANDBANK_SECRET before any real deployment")
	}
	return cfg
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("LANDBANK_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LANDBANK_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LANDBANK_DB_URL"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("LANDBANK_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("LANDBANK_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("LANDBANK_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LANDBANK_SECRET"); v != "" {
		cfg.Secret = v
	}
	if v := os.Getenv("LANDBANK_BOOTSTRAP_SQL"); v != "" {
		cfg.BootstrapSQL = v
	}
	if v := os.Getenv("LANDBANK_AUDIT_LOG"); v != "" {
		cfg.AuditLogPath = v
	}
}
