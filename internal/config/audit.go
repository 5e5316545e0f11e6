package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vancomm/roguesweeper/internal/audit"
)

func NewAudit() (*audit.Config, error) {
	cfg := &audit.Config{
		Filename:   os.Getenv("AUDIT_LOG_FILE"),
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Debug:      Development(),
	}
	for name, dst := range map[string]*int{
		"AUDIT_LOG_MAX_SIZE_MB": &cfg.MaxSizeMB,
		"AUDIT_LOG_MAX_BACKUPS": &cfg.MaxBackups,
		"AUDIT_LOG_MAX_AGE":     &cfg.MaxAgeDays,
	} {
		s, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s %q", name, s)
		}
		*dst = n
	}
	return cfg, nil
}
