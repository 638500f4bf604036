package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/bigfive/internal/config"
)

// New builds the root log entry for a binary. Unknown levels fall back to info.
func New(cfg config.LogConfig, service string) *logrus.Entry {
	return NewWithOutput(cfg, service, os.Stderr)
}

func NewWithOutput(cfg config.LogConfig, service string, out io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger.WithField("service", service)
}
