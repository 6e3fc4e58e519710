package storage

import "github.com/rs/zerolog"

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the storage Logger interface.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

func (l zerologLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}
