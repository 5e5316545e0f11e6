// Package audit keeps a separate, append-only record of run results.
package audit

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

var Log = logrus.New()

type Config struct {
	// Filename enables a rotating audit file when set.
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

func Configure(cfg Config) error {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if cfg.Debug {
		Log.SetLevel(logrus.DebugLevel)
	}
	if cfg.Filename == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Level:      logrus.InfoLevel,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		},
	})
	if err != nil {
		return err
	}
	Log.AddHook(hook)
	return nil
}
