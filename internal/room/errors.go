package room

import "errors"

// Typed rejection reasons for room operations, reported back to the
// issuing session by the dispatcher. None of them mutates room state.
var (
	ErrNotFound        = errors.New("no room with that id")
	ErrRoomFull        = errors.New("the room is full")
	ErrGameInProgress  = errors.New("a game is in progress")
	ErrNoGame          = errors.New("no game is running")
	ErrNotAdmin        = errors.New("only the room admin can do that")
	ErrInvalidCapacity = errors.New("capacity may only be raised, and never below 4 or the member count")
)
