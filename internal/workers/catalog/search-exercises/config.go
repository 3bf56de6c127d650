// internal/workers/catalog/search-exercises/config.go
package searchexercises

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		DefaultIndex: "exercises",
	}
}
