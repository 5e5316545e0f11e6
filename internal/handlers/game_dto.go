package handlers

import (
	"github.com/vancomm/roguesweeper/internal/game"
)

type StartDTO struct {
	ForceNew bool `schema:"force_new"`
}

type ActionDTO struct {
	Row    int    `schema:"row,required"`
	Col    int    `schema:"col,required"`
	Action string `schema:"action,required"`
}

func (dto ActionDTO) Kind() (game.Kind, error) {
	return game.ParseKind(dto.Action)
}

type NextLevelDTO struct {
	Confirm bool `schema:"confirm"`
}

type UpdateTimeDTO struct {
	TimeElapsed int `schema:"time_elapsed,required"`
}

type LeaderboardDTO struct {
	Limit int `schema:"limit"`
}
