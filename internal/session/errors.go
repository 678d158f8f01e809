package session

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("game already finished")
	ErrGameNotFinished = errors.New("game still in progress")
	ErrGameNotReady    = errors.New("waiting for an opponent")
	ErrGameFull        = errors.New("game already has two players")
	ErrNotParticipant  = errors.New("not a participant in this game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrMalformed       = errors.New("malformed move")
	ErrConflict        = errors.New("concurrent update conflict")
)
