package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/roguesweeper/internal/levels"
)

type Game struct {
	Progression levels.Progression
	TimeSlack   time.Duration
}

// NewGame starts from the default progression and applies any LEVEL_*
// overrides.
func NewGame() (*Game, error) {
	cfg := &Game{
		Progression: levels.Default,
		TimeSlack:   2 * time.Second,
	}
	p := &cfg.Progression

	for name, dst := range map[string]*int{
		"LEVEL_BASE_SIDE":  &p.BaseSide,
		"LEVEL_MAX_SIDE":   &p.MaxSide,
		"LEVEL_GROW_EVERY": &p.GrowEvery,
	} {
		if s, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = n
		}
	}
	for name, dst := range map[string]*float64{
		"LEVEL_BASE_DENSITY": &p.BaseDensity,
		"LEVEL_DENSITY_STEP": &p.DensityStep,
		"LEVEL_MAX_DENSITY":  &p.DensityCap,
	} {
		if s, ok := os.LookupEnv(name); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = f
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level progression: %w", err)
	}

	if s, ok := os.LookupEnv("TIME_SYNC_SLACK"); ok {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid TIME_SYNC_SLACK %q", s)
		}
		cfg.TimeSlack = d
	}
	return cfg, nil
}
