package game

import "errors"

var (
	ErrEmptyCode    = errors.New("empty-room-code")
	ErrRoomNotFound = errors.New("room-not-found")
	ErrRoomFull     = errors.New("room-full")
)

var (
	ErrPlayerNotFound    = errors.New("player-not-found")
	ErrNoActiveRound     = errors.New("no-active-round")
	ErrMalformedDuration = errors.New("malformed-duration")
	ErrNotAdmin          = errors.New("not-admin")
	ErrNotDrawer         = errors.New("not-drawer")
	ErrWrongPhase        = errors.New("wrong-phase")
	ErrInvalidPayload    = errors.New("invalid-payload")
	ErrInvalidWord       = errors.New("invalid-word")
	ErrNoWordsAvailable  = errors.New("no-words-available")
)

// joinErrorMessage is the text shown to a player whose join attempt failed.
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCode):
		return "Please enter a game code"
	case errors.Is(err, ErrRoomNotFound):
		return "Room code is invalid!"
	case errors.Is(err, ErrRoomFull):
		return "Room is full!"
	default:
		return "Unable to join room"
	}
}
