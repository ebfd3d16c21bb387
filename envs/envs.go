package envs

import (
	"fmt"
	"net"
	"time"

	"redikv/pkg/utils"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

// StoreShards of 1 uses a single lock, a zero DataExpirationInterval keeps
// expiration lazy, a zero IdleTimeout disables the read deadline and an
// empty MetricsAddr disables the metrics endpoint
type Envs struct {
	RedikvHost             string        `env:"REDIKV_HOST" envDefault:"127.0.0.1"`
	RedikvPort             string        `env:"REDIKV_PORT" envDefault:"6379"`
	StoreShards            int           `env:"STORE_SHARDS" envDefault:"1"`
	DataExpirationInterval time.Duration `env:"DATA_EXPIRATION_INTERVAL" envDefault:"0s"`
	ReadBufferSize         int           `env:"READ_BUFFER_SIZE" envDefault:"1024"`
	IdleTimeout            time.Duration `env:"IDLE_TIMEOUT" envDefault:"5m"`
	CloseOnError           bool          `env:"CLOSE_ON_ERROR" envDefault:"true"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON                bool          `env:"LOG_JSON" envDefault:"false"`
	MetricsAddr            string        `env:"METRICS_ADDR" envDefault:""`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Loads the given .env files into the process environment
// Missing files are skipped, variables already set are never overridden
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}

	for _, path := range paths {
		if !utils.FileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func Gets() (Envs, error) {
	var envs Envs

	if err := env.Parse(&envs); err != nil {
		return Envs{}, fmt.Errorf("error parsing env variables: %w", err)
	}

	return envs, nil
}

func (envs Envs) Address() string {
	return net.JoinHostPort(envs.RedikvHost, envs.RedikvPort)
}
