package game

import "encoding/json"

// Inbound event names.
const (
	EventCreateGame   = "createGame"
	EventValidateCode = "validateCode"
	EventJoinGame     = "joinGame"
	EventPlayerReady  = "playerReady"
	EventStartGame    = "startGame"
	EventDrawing      = "drawing"
	EventClearCanvas  = "clearCanvas"
	EventUndo         = "undo"
	EventUpdatePaths  = "updatePaths"
	EventGetWords     = "getWords"
	EventWordChosen   = "wordChosen"
	EventNewGuess     = "newGuess"
)

// Outbound event names.
const (
	EventCreateGameResponse   = "createGameResponse"
	EventIsAdmin              = "isAdmin"
	EventValidateCodeResponse = "validateCodeResponse"
	EventJoinGameResponse     = "joinGameResponse"
	EventPlayerReadyResponse  = "playerReadyResponse"
	EventStartGameResponse    = "startGameResponse"
	EventCurrentPlayer        = "currentPlayer"
	EventDrawingResponse      = "drawingResponse"
	EventClearCanvasResponse  = "clearCanvasResponse"
	EventUndoResponse         = "undoResponse"
	EventGetWordsResponse     = "getWordsResponse"
	EventWordChosenResponse   = "wordChosenResponse"
	EventNewGuessResponse     = "newGuessResponse"
	EventUpdateGamePlayers    = "updateGamePlayers"
	EventGuessedCorrectly     = "guessedCorrectly"
	EventRoundOver            = "roundOver"
	EventGameOver             = "gameOver"
	EventPlayerDisconnected   = "playerDisconnected"
	EventCloseGuess           = "closeGuess"
)

// ClientEnvelope is one inbound event tagged with the sending connection.
type ClientEnvelope struct {
	From  string
	Event string
	Data  json.RawMessage

	disconnect bool
}

type CreateGamePayload struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

type JoinGamePayload struct {
	Code      string `json:"code"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

type CreateGameResponse struct {
	RoomCode string   `json:"roomCode"`
	Players  []Player `json:"players"`
}

type ValidateCodeResponse struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type StartGameResponse struct {
	Player      Player `json:"player"`
	PlayerCount int    `json:"playerCount"`
}

type NewGuessResponse struct {
	Content          string `json:"content"`
	Author           string `json:"author"`
	GuessedCorrectly bool   `json:"guessedCorrectly"`
}

type CloseGuessResponse struct {
	Content string `json:"content"`
}

type RoundOverResponse struct {
	Players            []Player `json:"players"`
	GameOver           bool     `json:"gameOver"`
	WinningPlayer      *Player  `json:"winningPlayer"`
	PlayerDisconnected bool     `json:"playerDisconnected"`
}
