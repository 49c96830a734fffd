// Package logging builds the application's logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"blogapi/config"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout configured from cfg.
func New(cfg *config.Logger) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(cfg *config.Logger, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
