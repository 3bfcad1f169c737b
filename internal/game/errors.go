package game

import "errors"

// Typed rejection reasons for game actions. These are user-correctable:
// none of them mutates game state, so the actor may retry before the
// window deadline.
var (
	ErrNotEnoughPlayers = errors.New("at least 4 players are required")
	ErrWrongPhase       = errors.New("that action is not allowed in the current phase")
	ErrWrongRole        = errors.New("your role cannot do that")
	ErrNotPlaying       = errors.New("you are not part of this game")
	ErrDeadPlayer       = errors.New("dead players cannot act")
	ErrAlreadyVoted     = errors.New("you already voted this phase")
	ErrNoSuchPlayer     = errors.New("no player with that id")
	ErrTargetDead       = errors.New("that player is already dead")
)
