// Package levels derives the board for any level of a run.
package levels

import (
	"fmt"
	"math"
)

// Density band every generated level must stay in.
const (
	MinDensity = 0.12
	MaxDensity = 0.20
)

// Progression describes how boards grow. Side length starts at BaseSide and
// grows by one every GrowEvery levels up to MaxSide; mine density starts at
// BaseDensity and climbs by DensityStep per level up to DensityCap.
type Progression struct {
	BaseSide    int
	MaxSide     int
	GrowEvery   int
	BaseDensity float64
	DensityStep float64
	DensityCap  float64
}

var Default = Progression{
	BaseSide:    8,
	MaxSide:     30,
	GrowEvery:   1,
	BaseDensity: 0.15,
	DensityStep: 0.0025,
	DensityCap:  MaxDensity,
}

type Config struct {
	Level int `json:"level"`
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`
	Clues int `json:"clues"`
}

func (p Progression) Validate() error {
	if p.BaseSide < 4 {
		return fmt.Errorf("base side %d is too small to keep a safe first move", p.BaseSide)
	}
	if p.MaxSide < p.BaseSide {
		return fmt.Errorf("max side %d is below base side %d", p.MaxSide, p.BaseSide)
	}
	if p.GrowEvery < 1 {
		return fmt.Errorf("grow interval must be at least 1, got %d", p.GrowEvery)
	}
	if p.BaseDensity < MinDensity || p.BaseDensity > MaxDensity {
		return fmt.Errorf("base density %.3f outside [%.2f, %.2f]", p.BaseDensity, MinDensity, MaxDensity)
	}
	if p.DensityCap < p.BaseDensity || p.DensityCap > MaxDensity {
		return fmt.Errorf("density cap %.3f outside [%.3f, %.2f]", p.DensityCap, p.BaseDensity, MaxDensity)
	}
	if p.DensityStep < 0 {
		return fmt.Errorf("density step must not be negative, got %f", p.DensityStep)
	}
	return nil
}

func (p Progression) side(level int) int {
	return min(p.BaseSide+(level-1)/p.GrowEvery, p.MaxSide)
}

func (p Progression) density(level int) float64 {
	return min(p.BaseDensity+float64(level-1)*p.DensityStep, p.DensityCap)
}

// Config returns the board for level. Levels below 1 are treated as 1.
func (p Progression) Config(level int) Config {
	level = max(level, 1)
	side := p.side(level)
	cells := side * side
	mines := int(math.Round(float64(cells) * p.density(level)))
	// rounding must not push the density out of the band
	mines = max(mines, int(math.Ceil(float64(cells)*MinDensity)))
	mines = min(mines, int(math.Floor(float64(cells)*MaxDensity)))
	return Config{
		Level: level,
		Rows:  side,
		Cols:  side,
		Mines: mines,
		Clues: CluesForLevel(level),
	}
}

// CluesForLevel is the clue grant for a level: one more clue every five
// levels, capped at five.
func CluesForLevel(level int) int {
	level = max(level, 1)
	return min((level-1)/5+1, 5)
}
