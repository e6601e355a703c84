package logger

import (
	"os"

	"brawl-tracker/internal/config"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger at the level named by LOG_LEVEL. Unknown or
// empty level strings fall back to info.
func New(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("instance", gonanoid.Must()).
		Logger()

	return logger.Level(level)
}

var Module = fx.Provide(New)
