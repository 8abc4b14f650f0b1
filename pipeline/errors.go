package pipeline

import "errors"

var (
	ErrFilmNotPrepared     = errors.New("pipeline: film has not been prepared")
	ErrFilmAlreadyPrepared = errors.New("pipeline: film is already prepared")
)
