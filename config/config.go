package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server struct {
		Port        string   `env:"PORT" envDefault:"5250"`
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	Database struct {
		// Path of the sqlite database file, relative to the working directory
		Path string `env:"DB_PATH" envDefault:"database/rentnest.db"`
		Seed bool   `env:"DB_SEED" envDefault:"false"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		// Listing query cache lifetime (in seconds)
		TTL int `env:"REDIS_TTL" envDefault:"60"`
	}

	Display struct {
		CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"₱"`
		Locale         string `env:"DISPLAY_LOCALE" envDefault:"en-US"`
		// Go time layout for each end of a reservation date range
		DateLayout string `env:"DATE_LAYOUT" envDefault:"Jan 2, 2006"`
	}

	// Optional JSON file overriding the embedded country reference data
	CountriesFile string `env:"COUNTRIES_FILE"`

	// BatchProcessing configuration for listing imports
	BatchProcessing struct {
		// Maximum number of listings accepted in one import batch
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of batches the import queue can hold
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"16"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}
}

// LoadConfig reads an optional .env file and then parses the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
