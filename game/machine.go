package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

func (c *Coordinator) lookup(connId string) (*Room, *Player, error) {
	room, ok := c.registry.RoomOf(connId)
	if !ok {
		return nil, nil, ErrPlayerNotFound
	}
	player := room.player(connId)
	if player == nil {
		return nil, nil, ErrPlayerNotFound
	}
	return room, player, nil
}

func (c *Coordinator) validate(code string) ValidateCodeResponse {
	if err := c.registry.ValidateJoin(code); err != nil {
		return ValidateCodeResponse{IsValid: false, Message: joinErrorMessage(err)}
	}
	return ValidateCodeResponse{IsValid: true, Code: normalizeCode(code)}
}

// --- Lobby ---

func (c *Coordinator) handleCreateGame(connId string, p CreateGamePayload) error {
	if _, ok := c.registry.RoomOf(connId); ok {
		c.handleDisconnect(connId)
	}

	room := c.registry.CreateRoom(Player{
		ConnId:    connId,
		Username:  strings.TrimSpace(p.Username),
		AvatarRef: p.AvatarURL,
	})
	c.broker.Join(connId, room.code)
	c.broker.ToConnection(connId, EventCreateGameResponse, CreateGameResponse{RoomCode: room.code, Players: room.Roster()})
	c.broker.ToConnection(connId, EventIsAdmin, nil)

	log.Info().Str("room", room.code).Str("conn", connId).Msg("room created")
	return nil
}

func (c *Coordinator) handleValidateCode(connId, code string) error {
	c.broker.ToConnection(connId, EventValidateCodeResponse, c.validate(code))
	return nil
}

func (c *Coordinator) handleJoinGame(connId string, p JoinGamePayload) error {
	if err := c.registry.ValidateJoin(p.Code); err != nil {
		c.broker.ToConnection(connId, EventValidateCodeResponse, ValidateCodeResponse{Message: joinErrorMessage(err)})
		return err
	}

	code := normalizeCode(p.Code)
	if current, ok := c.registry.RoomOf(connId); ok {
		if current.code == code {
			return nil
		}
		c.handleDisconnect(connId)
	}

	roster, err := c.registry.JoinRoom(code, Player{
		ConnId:    connId,
		Username:  strings.TrimSpace(p.Username),
		AvatarRef: p.AvatarURL,
	})
	if err != nil {
		c.broker.ToConnection(connId, EventValidateCodeResponse, ValidateCodeResponse{Message: joinErrorMessage(err)})
		return err
	}

	c.broker.Join(connId, code)
	c.broker.ToRoom(code, EventJoinGameResponse, roster)

	log.Info().Str("room", code).Str("conn", connId).Int("players", len(roster)).Msg("player joined")
	return nil
}

func (c *Coordinator) handlePlayerReady(connId string) error {
	room, _, err := c.lookup(connId)
	if err != nil {
		return err
	}
	if err := room.SetReady(connId); err != nil {
		return err
	}
	c.broker.ToRoom(room.code, EventPlayerReadyResponse, room.Roster())
	return nil
}

func (c *Coordinator) handleStartGame(connId, durationLabel string) error {
	room, player, err := c.lookup(connId)
	if err != nil {
		return err
	}
	if !player.IsAdmin {
		return ErrNotAdmin
	}
	if room.phase != PHASE_LOBBY {
		return fmt.Errorf("%w: room is %s", ErrWrongPhase, room.phase)
	}
	seconds, err := ParseDurationLabel(durationLabel)
	if err != nil {
		return fmt.Errorf("%w: %q", err, durationLabel)
	}

	room.drawingDuration = seconds
	room.roundsPlayed = 0
	room.currentWord = ""
	for _, p := range room.players {
		p.IsCurrentPlayer = false
		p.IsWinner = false
		p.HasDrawn = false
		p.GuessedCorrectly = false
	}

	log.Info().Str("room", room.code).Int("drawingDuration", seconds).Int("players", len(room.players)).Msg("game started")
	c.beginTurn(room, player)
	return nil
}

// beginTurn hands the pen to drawer and opens word selection.
func (c *Coordinator) beginTurn(room *Room, drawer *Player) {
	room.phase = PHASE_CHOOSING_WORD
	room.currentWord = ""
	room.wordChoices = nil
	room.strokes = nil
	drawer.IsCurrentPlayer = true

	code := room.code
	room.wordTimer.arm(c.settings.WordChoiceTicks+armSlack, func() { c.onWordChoiceExpired(code) })

	c.broker.ToRoom(code, EventStartGameResponse, StartGameResponse{Player: *drawer, PlayerCount: len(room.players)})
	c.broker.ToConnection(drawer.ConnId, EventCurrentPlayer, *drawer)
}

// --- Word selection ---

func (c *Coordinator) handleGetWords(connId string) error {
	room, player, err := c.lookup(connId)
	if err != nil {
		return err
	}
	if room.phase != PHASE_CHOOSING_WORD {
		return ErrNoActiveRound
	}
	if !player.IsCurrentPlayer {
		return ErrNotDrawer
	}

	if len(room.wordChoices) == 0 {
		room.wordChoices = sampleWordChoices(c.words, c.settings.WordChoices)
	}
	if len(room.wordChoices) == 0 {
		return ErrNoWordsAvailable
	}

	choices := make([]string, len(room.wordChoices))
	copy(choices, room.wordChoices)
	c.broker.ToConnection(connId, EventGetWordsResponse, choices)
	return nil
}

func (c *Coordinator) handleWordChosen(connId, word string) error {
	room, player, err := c.lookup(connId)
	if err != nil {
		return err
	}
	if room.phase != PHASE_CHOOSING_WORD {
		return ErrNoActiveRound
	}
	if !player.IsCurrentPlayer {
		return ErrNotDrawer
	}

	word = strings.TrimSpace(word)
	if word == "" {
		return ErrInvalidWord
	}
	if len(room.wordChoices) > 0 && !containsWord(room.wordChoices, word) {
		return fmt.Errorf("%w: %q was not offered", ErrInvalidWord, word)
	}

	c.chooseWord(room, word)
	return nil
}

func containsWord(choices []string, word string) bool {
	normalized := NormalizeGuess(word)
	for _, w := range choices {
		if NormalizeGuess(w) == normalized {
			return true
		}
	}
	return false
}

// chooseWord is the single ChoosingWord -> Drawing transition, shared by the
// drawer's choice and the word timer.
func (c *Coordinator) chooseWord(room *Room, word string) {
	room.wordTimer.cancel()
	room.currentWord = NormalizeGuess(word)
	room.wordChoices = nil
	room.strokes = nil
	room.phase = PHASE_DRAWING

	code := room.code
	room.drawingTimer.arm(room.drawingDuration+armSlack, func() { c.onDrawingExpired(code) })

	c.broker.ToRoom(code, EventWordChosenResponse, word)
	log.Info().Str("room", code).Msg("word chosen, drawing started")
}

func (c *Coordinator) onWordChoiceExpired(code string) {
	room, ok := c.registry.Room(code)
	if !ok || room.phase != PHASE_CHOOSING_WORD {
		return
	}

	if len(room.wordChoices) == 0 {
		room.wordChoices = sampleWordChoices(c.words, c.settings.WordChoices)
	}
	if len(room.wordChoices) == 0 {
		log.Error().Str("room", code).Msg("no words available, skipping turn")
		c.roundOver(room, "")
		return
	}

	word := room.wordChoices[c.pick(len(room.wordChoices))]
	log.Info().Str("room", code).Msg("word choice timed out, picking at random")
	c.chooseWord(room, word)
}

func (c *Coordinator) onDrawingExpired(code string) {
	room, ok := c.registry.Room(code)
	if !ok || room.phase != PHASE_DRAWING {
		return
	}
	log.Info().Str("room", code).Msg("drawing time is up")
	c.roundOver(room, "")
}

// --- Canvas ---

func (c *Coordinator) drawerRoom(connId string) (*Room, error) {
	room, player, err := c.lookup(connId)
	if err != nil {
		return nil, err
	}
	if room.phase != PHASE_DRAWING {
		return nil, ErrNoActiveRound
	}
	if !player.IsCurrentPlayer {
		return nil, ErrNotDrawer
	}
	return room, nil
}

func (r *Room) strokeLog() []json.RawMessage {
	strokes := make([]json.RawMessage, len(r.strokes))
	copy(strokes, r.strokes)
	return strokes
}

func (c *Coordinator) handleDrawing(connId string, stroke json.RawMessage) error {
	room, err := c.drawerRoom(connId)
	if err != nil {
		return err
	}
	room.strokes = append(room.strokes, stroke)
	c.broker.ToRoomExcept(room.code, connId, EventDrawingResponse, stroke)
	return nil
}

func (c *Coordinator) handleUndo(connId string) error {
	room, err := c.drawerRoom(connId)
	if err != nil {
		return err
	}
	if n := len(room.strokes); n > 0 {
		room.strokes = room.strokes[:n-1]
	}
	c.broker.ToRoomExcept(room.code, connId, EventUndoResponse, room.strokeLog())
	return nil
}

func (c *Coordinator) handleUpdatePaths(connId string, paths []json.RawMessage) error {
	room, err := c.drawerRoom(connId)
	if err != nil {
		return err
	}
	room.strokes = paths
	c.broker.ToRoomExcept(room.code, connId, EventUndoResponse, room.strokeLog())
	return nil
}

func (c *Coordinator) handleClearCanvas(connId string) error {
	room, err := c.drawerRoom(connId)
	if err != nil {
		return err
	}
	room.strokes = nil
	c.broker.ToRoom(room.code, EventClearCanvasResponse, nil)
	return nil
}

// --- Guesses ---

func (c *Coordinator) handleNewGuess(connId, text string) error {
	room, player, err := c.lookup(connId)
	if err != nil {
		return err
	}
	if room.phase != PHASE_DRAWING {
		return ErrNoActiveRound
	}

	outcome := evaluateGuess(room, player, text)
	if outcome.scored {
		c.broker.ToConnection(connId, EventGuessedCorrectly, nil)
		log.Info().Str("room", room.code).Str("conn", connId).Int("awarded", outcome.awarded).Msg("correct guess")
	}
	if outcome.close {
		c.broker.ToConnection(connId, EventCloseGuess, CloseGuessResponse{Content: text})
	}

	c.broker.ToRoom(room.code, EventNewGuessResponse, NewGuessResponse{
		Content:          text,
		Author:           player.Username,
		GuessedCorrectly: outcome.correct,
	})
	c.broker.ToRoom(room.code, EventUpdateGamePlayers, room.Roster())

	if outcome.roundComplete {
		c.roundOver(room, "")
	}
	return nil
}

// --- Round and game end ---

// roundOver closes the active turn. departing is the connection of a drawer
// who is disconnecting; it is still in the roster but no longer counts as a
// remaining player.
func (c *Coordinator) roundOver(room *Room, departing string) {
	if !room.phase.active() {
		log.Warn().Str("room", room.code).Stringer("phase", room.phase).Msg("round over outside an active round")
		return
	}
	drawer := room.currentPlayer()
	if drawer == nil {
		log.Error().Str("room", room.code).Msg("round over without a current player")
		return
	}

	room.wordTimer.cancel()
	room.drawingTimer.cancel()

	drawer.HasDrawn = true
	drawer.IsCurrentPlayer = false
	room.roundsPlayed++
	room.currentWord = ""
	room.wordChoices = nil
	room.strokes = nil
	for _, p := range room.players {
		p.GuessedCorrectly = false
	}

	remaining := len(room.players)
	if departing != "" && room.player(departing) != nil {
		remaining--
	}
	_, hasNext := room.RotateNextDrawer()

	log.Info().Str("room", room.code).Int("roundsPlayed", room.roundsPlayed).Bool("playerDisconnected", departing != "").Msg("round over")

	if !hasNext || remaining < 2 {
		c.endGame(room, departing)
		return
	}

	standings := room.standings(departing)
	room.phase = PHASE_ROUND_OVER
	c.broker.ToRoom(room.code, EventRoundOver, RoundOverResponse{
		Players:            standings,
		GameOver:           false,
		WinningPlayer:      leader(standings),
		PlayerDisconnected: departing != "",
	})
	c.schedule(room, c.settings.RoundOverDelayTicks, c.startNextTurn)
}

func leader(standings []Player) *Player {
	if len(standings) == 0 {
		return nil
	}
	return &standings[0]
}

func (c *Coordinator) endGame(room *Room, departing string) {
	room.phase = PHASE_GAME_OVER

	standings := room.standings(departing)
	winner := leader(standings)
	if winner != nil {
		winner.IsWinner = true
		if p := room.player(winner.ConnId); p != nil {
			p.IsWinner = true
		}
	}

	c.broker.ToRoom(room.code, EventRoundOver, RoundOverResponse{
		Players:            standings,
		GameOver:           true,
		WinningPlayer:      winner,
		PlayerDisconnected: departing != "",
	})
	c.broker.ToRoom(room.code, EventClearCanvasResponse, nil)

	log.Info().Str("room", room.code).Msg("game over")
	c.schedule(room, c.settings.RoundOverDelayTicks, c.resetGame)
}

func (c *Coordinator) startNextTurn(room *Room) {
	next, ok := room.RotateNextDrawer()
	if !ok || len(room.players) < 2 {
		c.endGame(room, "")
		return
	}
	c.beginTurn(room, next)
}

func (c *Coordinator) resetGame(room *Room) {
	room.phase = PHASE_LOBBY
	room.currentWord = ""
	room.roundsPlayed = 0
	room.wordChoices = nil
	room.strokes = nil
	for _, p := range room.players {
		p.Score = 0
		p.IsReady = false
		p.HasDrawn = false
		p.GuessedCorrectly = false
		p.IsCurrentPlayer = false
	}
	c.broker.ToRoom(room.code, EventGameOver, room.Roster())
	log.Info().Str("room", room.code).Msg("back to lobby")
}

// --- Disconnect ---

func (c *Coordinator) handleDisconnect(connId string) {
	room, ok := c.registry.RoomOf(connId)
	if !ok {
		log.Debug().Str("conn", connId).Msg("disconnect from a connection without a room")
		return
	}
	code := room.code

	if p := room.player(connId); p != nil && p.IsCurrentPlayer && room.phase.active() {
		c.roundOver(room, connId)
	}

	removed, _, ok := c.registry.LeaveRoom(connId)
	c.broker.Leave(connId, code)
	if !ok {
		log.Warn().Str("room", code).Str("conn", connId).Msg("disconnecting player was not in the roster")
		return
	}

	if len(room.players) == 0 {
		c.destroyRoom(code)
		return
	}

	if removed.IsAdmin {
		if admin, ok := room.PromoteNewAdmin(); ok {
			c.broker.ToConnection(admin.ConnId, EventIsAdmin, nil)
			log.Info().Str("room", code).Str("conn", admin.ConnId).Msg("admin promoted")
		}
	}

	c.broker.ToRoom(code, EventPlayerDisconnected, room.Roster())
	log.Info().Str("room", code).Str("conn", connId).Int("players", len(room.players)).Msg("player left")

	switch {
	case room.phase.active() && len(room.players) < 2:
		c.roundOver(room, "")
	case room.phase == PHASE_DRAWING && roundComplete(room):
		c.roundOver(room, "")
	}
}
