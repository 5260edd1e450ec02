package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string        `mapstructure:"secret_key"`
		TTL       time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`
	Session struct {
		Timeout      time.Duration `mapstructure:"timeout"`
		TickInterval time.Duration `mapstructure:"tick_interval"`
	} `mapstructure:"session"`
	Loan struct {
		ApprovalDelay    time.Duration `mapstructure:"approval_delay"`
		EligibilityRatio float64       `mapstructure:"eligibility_ratio"`
	} `mapstructure:"loan"`
	Security struct {
		PinHashCost int `mapstructure:"pin_hash_cost"`
	} `mapstructure:"security"`
	Accounts []AccountSeed `mapstructure:"accounts"`
}

// AccountSeed describes an account registered at startup when no
// database is configured.
type AccountSeed struct {
	Owner        string    `mapstructure:"owner"`
	Pin          string    `mapstructure:"pin"`
	InterestRate float64   `mapstructure:"interest_rate"`
	Currency     string    `mapstructure:"currency"`
	Locale       string    `mapstructure:"locale"`
	Movements    []float64 `mapstructure:"movements"`
	Dates        []string  `mapstructure:"dates"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "bankist")
	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.ttl", "1m")
	viper.SetDefault("jwt.secret_key", "")
	viper.SetDefault("jwt.ttl", "12h")
	viper.SetDefault("session.timeout", "5m")
	viper.SetDefault("session.tick_interval", "1s")
	viper.SetDefault("loan.approval_delay", "2500ms")
	viper.SetDefault("loan.eligibility_ratio", 0.1)
	viper.SetDefault("security.pin_hash_cost", 10)
}

// LoadConfig reads config.yml from path, an optional .env file and the
// environment (server.port is overridden by SERVER_PORT, and so on).
// A missing config file is not an error; defaults apply.
func LoadConfig(path string) error {
	_ = godotenv.Load()

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}
	if len(cfg.Accounts) == 0 {
		cfg.Accounts = DefaultAccounts()
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

func (c *Config) validate() error {
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("session.timeout must be positive, got %s", c.Session.Timeout)
	}
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("session.tick_interval must be positive, got %s", c.Session.TickInterval)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive, got %s", c.JWT.TTL)
	}
	if c.Loan.ApprovalDelay < 0 {
		return fmt.Errorf("loan.approval_delay must not be negative, got %s", c.Loan.ApprovalDelay)
	}
	if c.Loan.EligibilityRatio <= 0 {
		return fmt.Errorf("loan.eligibility_ratio must be positive, got %v", c.Loan.EligibilityRatio)
	}
	for _, a := range c.Accounts {
		if len(a.Dates) != 0 && len(a.Dates) != len(a.Movements) {
			return fmt.Errorf("account %q: %d movements but %d dates", a.Owner, len(a.Movements), len(a.Dates))
		}
	}
	return nil
}

// DefaultAccounts are the demo accounts the app ships with.
func DefaultAccounts() []AccountSeed {
	return []AccountSeed{
		{
			Owner:        "Jonas Schmedtmann",
			Pin:          "1111",
			InterestRate: 1.2,
			Currency:     "EUR",
			Locale:       "pt-PT",
			Movements:    []float64{200, 455.23, -306.5, 25000, -642.21, -133.9, 79.97, 1300},
			Dates: []string{
				"2019-11-18T21:31:17.178Z",
				"2019-12-23T07:42:02.383Z",
				"2020-01-28T09:15:04.904Z",
				"2020-04-01T10:17:24.185Z",
				"2020-05-08T14:11:59.604Z",
				"2020-05-27T17:01:17.194Z",
				"2020-07-11T23:36:17.929Z",
				"2020-07-12T10:51:36.790Z",
			},
		},
		{
			Owner:        "Jessica Davis",
			Pin:          "2222",
			InterestRate: 1.5,
			Currency:     "USD",
			Locale:       "en-US",
			Movements:    []float64{5000, 3400, -150, -790, -3210, -1000, 8500, -30},
			Dates: []string{
				"2019-11-01T13:15:33.035Z",
				"2019-11-30T09:48:16.867Z",
				"2019-12-25T06:04:23.907Z",
				"2020-01-25T14:18:46.235Z",
				"2020-02-05T16:33:06.386Z",
				"2020-04-10T14:43:26.374Z",
				"2020-06-25T18:49:59.371Z",
				"2020-07-26T12:01:20.894Z",
			},
		},
		{
			Owner:        "Steven Thomas Williams",
			Pin:          "3333",
			InterestRate: 0.7,
			Currency:     "GBP",
			Locale:       "en-GB",
			Movements:    []float64{200, -200, 340, -300, -20, 50, 400, -460},
		},
		{
			Owner:        "Sarah Smith",
			Pin:          "4444",
			InterestRate: 1,
			Currency:     "EUR",
			Locale:       "de-DE",
			Movements:    []float64{430, 1000, 700, 50, 90},
		},
	}
}
