package bulkacceptpending

import "time"

type Config struct {
	Timeout       time.Duration
	AlertTopicARN string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
