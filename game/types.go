package game

import "encoding/json"

type RoomPhase int

const (
	PHASE_LOBBY RoomPhase = iota
	PHASE_CHOOSING_WORD
	PHASE_DRAWING
	PHASE_ROUND_OVER
	PHASE_GAME_OVER
)

func (p RoomPhase) String() string {
	switch p {
	case PHASE_LOBBY:
		return "lobby"
	case PHASE_CHOOSING_WORD:
		return "choosing-word"
	case PHASE_DRAWING:
		return "drawing"
	case PHASE_ROUND_OVER:
		return "round-over"
	case PHASE_GAME_OVER:
		return "game-over"
	default:
		return "unknown"
	}
}

// active reports whether a drawer is assigned in this phase.
func (p RoomPhase) active() bool {
	return p == PHASE_CHOOSING_WORD || p == PHASE_DRAWING
}

// Player is a roster entry. Values handed out of a Room are copies.
type Player struct {
	ConnId           string `json:"playerId"`
	Username         string `json:"username"`
	AvatarRef        string `json:"avatarUrl"`
	IsAdmin          bool   `json:"admin"`
	IsReady          bool   `json:"ready"`
	Score            int    `json:"score"`
	GuessedCorrectly bool   `json:"guessedCorrectly"`
	IsCurrentPlayer  bool   `json:"isCurrentPlayer"`
	HasDrawn         bool   `json:"hasDrawn"`
	IsWinner         bool   `json:"isWinner"`
}

type Room struct {
	// Identity
	code  string
	phase RoomPhase

	// Configuration
	capacity        int
	drawingDuration int // seconds, 0 until the first start

	// Runtime state
	roundsPlayed int
	currentWord  string

	// Round-scoped
	wordChoices []string
	strokes     []json.RawMessage

	// Timers
	wordTimer    countdown
	drawingTimer countdown

	// Players in join order
	players []*Player
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) Phase() RoomPhase {
	return r.phase
}

func (r *Room) CurrentWord() string {
	return r.currentWord
}

func (r *Room) RoundsPlayed() int {
	return r.roundsPlayed
}

func (r *Room) DrawingDuration() int {
	return r.drawingDuration
}

func (r *Room) PlayerCount() int {
	return len(r.players)
}
