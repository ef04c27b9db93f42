package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrGameStarted    = errors.New("game has started or starts too soon")
	ErrDuplicateGame  = errors.New("slip already has a leg from this game")
	ErrDuplicateLeg   = errors.New("selection already on slip")
	ErrSlipFull       = errors.New("slip is full")
	ErrSlipEmpty      = errors.New("slip is empty")
	ErrSubmitInFlight = errors.New("submission already in progress")
	ErrRateLimited    = errors.New("rate limited")
	ErrLockHeld       = errors.New("lock already held")
)
