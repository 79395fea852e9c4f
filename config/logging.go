package config

import (
	"io"

	"github.com/igknighters/stemsolver/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the logger described by the config. The returned closer releases the log file,
// if there is one.
func (l *Logging) NewLogger(name string) (logging.Logger, io.Closer, error) {
	level, err := logging.LevelFromString(l.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger(name)
	logger.SetLevel(level)
	if l.File == "" {
		return logger, nopCloser{}, nil
	}
	appender, closer := logging.NewFileAppender(l.File, l.MaxSizeMB)
	logger.AddAppender(appender)
	return logger, closer, nil
}

// Apply moves an existing logger to the configured level.
func (l *Logging) Apply(logger logging.Logger) error {
	level, err := logging.LevelFromString(l.Level)
	if err != nil {
		return err
	}
	if logger.GetLevel() != level {
		logger.Infow("changing log level", "from", logger.GetLevel(), "to", level)
		logger.SetLevel(level)
	}
	return nil
}
