package logger

import "github.com/google/wire"

// ProviderSet builds the bootstrap logger for config loading and the
// configured logger everything after it uses.
var ProviderSet = wire.NewSet(
	NewBootstrapLogger,
	NewConfiguredLogger,
	wire.Bind(new(Logger), new(*SlogAdapter)),
)

type Config struct {
	Environment string
	LogLevel    string
}

func NewConfiguredLogger(config Config) *SlogAdapter {
	return NewSlogAdapter(config.Environment, config.LogLevel)
}
