package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"BuyBio/pkg/logger"
	"BuyBio/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"oneof=development staging production"`

	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8000" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"5s"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`

	Log logger.Config `yaml:"log"`

	Data struct {
		CompanyWorkbook string `yaml:"company_workbook" default:"data/biolist.xlsx" validate:"required"`
		CodeWorkbook    string `yaml:"code_workbook" default:"data/biolist_with_code.xlsx" validate:"required"`
	} `yaml:"data"`

	Analysis struct {
		MinHistory        int           `yaml:"min_history" default:"120" validate:"gte=120"`
		IndicatorLibrary  string        `yaml:"indicator_library" default:"adjusted" validate:"oneof=adjusted seeded"`
		Concurrency       int           `yaml:"concurrency" default:"8" validate:"gte=1,lte=64"`
		InstrumentTimeout time.Duration `yaml:"instrument_timeout" default:"15s"`
	} `yaml:"analysis"`

	Market struct {
		Source string `yaml:"source" default:"yahoo" validate:"oneof=yahoo clickhouse"`
		Yahoo  struct {
			BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
			Range     string        `yaml:"range" default:"1y"`
			Suffixes  []string      `yaml:"suffixes" default:"[\".KS\",\".KQ\"]"`
			Timezone  string        `yaml:"timezone" default:"Asia/Seoul"`
			Timeout   time.Duration `yaml:"timeout" default:"10s"`
			UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0"`
		} `yaml:"yahoo"`
		RateLimit struct {
			RPS   float64 `yaml:"rps" default:"4"`
			Burst int     `yaml:"burst" default:"4"`
		} `yaml:"rate_limit"`
		Breaker struct {
			ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"5"`
			Interval            time.Duration `yaml:"interval" default:"1m"`
			Timeout             time.Duration `yaml:"timeout" default:"30s"`
		} `yaml:"breaker"`
	} `yaml:"market"`

	ClickHouse struct {
		Addr             []string      `yaml:"addr" default:"[\"localhost:9000\"]"`
		Database         string        `yaml:"database" default:"market"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		Table            string        `yaml:"table" default:"daily_bars"`
		Limit            int           `yaml:"limit" default:"400" validate:"gte=1"`
		InitSchema       bool          `yaml:"init_schema"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`

	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=none memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"1h"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"buybio:"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"buybio.rankings"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		RequiredAcks int      `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
		MaxAttempts  int      `yaml:"max_attempts" default:"3"`
	} `yaml:"kafka"`

	Scheduler struct {
		Enabled bool `yaml:"enabled"`
		// Spec is a six-field cron expression with seconds.
		Spec  string `yaml:"spec" default:"0 40 15 * * 1-5"`
		Limit int    `yaml:"limit" default:"20" validate:"gte=1,lte=500"`
	} `yaml:"scheduler"`
}

var validate = validator.New()

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in that order. A missing file is not an error.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("EXCEL_PATH"); v != "" {
		c.Data.CompanyWorkbook = v
	}
	if v := getenv("CODE_EXCEL_PATH"); v != "" {
		c.Data.CodeWorkbook = v
	}
	if v := getenv("MARKET_SOURCE"); v != "" {
		c.Market.Source = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitList(v)
		c.Kafka.Enabled = true
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = "redis"
	}
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Market.Source == "clickhouse" && len(c.ClickHouse.Addr) == 0 {
		return fmt.Errorf("clickhouse.addr is required for the clickhouse market source")
	}
	if c.Scheduler.Enabled && c.Scheduler.Spec == "" {
		return fmt.Errorf("scheduler.spec is required when the scheduler is enabled")
	}
	return nil
}
