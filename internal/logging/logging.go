package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/coderefine/internal/config"
)

// New builds a logger from the logging section. An unknown level falls back
// to info with a warning rather than failing startup.
func New(cfg config.Logging, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}

	log := logrus.New()
	log.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("invalid log level %q, using info: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
