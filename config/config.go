package config

import "time"

// Game constants shared by the reactor and handlers.
const (
	// Room / matchmaking
	DefaultBatchSize        = 5
	DefaultCountdownSeconds = 5

	// DefaultQueueTimeout is zero: the "create room with whoever is
	// present" branch is opt-in (see the Open Questions resolution).
	DefaultQueueTimeout = 0 * time.Second

	// Map generation
	DefaultMapSize = 15

	// Network
	DefaultPort   = 12345
	MaxBodyLength = 10 * 1024 * 1024

	// Stats logging
	StatsLogInterval = 5 * time.Minute
)

// Config is the plain value every reactor/handler component receives.
// Viper and Cobra stop at cmd/mazeserver/main.go — nothing under
// internal/ imports either.
type Config struct {
	Port             int
	BatchSize        int
	CountdownSeconds int
	QueueTimeout     time.Duration
}

// Default returns the server's default configuration.
func Default() *Config {
	return &Config{
		Port:             DefaultPort,
		BatchSize:        DefaultBatchSize,
		CountdownSeconds: DefaultCountdownSeconds,
		QueueTimeout:     DefaultQueueTimeout,
	}
}
