// internal/workers/plan/calculate-working-loads/config.go
package calculateworkingloads

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
