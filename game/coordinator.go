package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

type Settings struct {
	Capacity            int
	WordChoices         int
	WordChoiceTicks     int
	RoundOverDelayTicks int
	TickInterval        time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Capacity:            MAX_PLAYERS,
		WordChoices:         DefaultWordChoices,
		WordChoiceTicks:     WordChoiceTicks,
		RoundOverDelayTicks: RoundOverDelayTicks,
		TickInterval:        time.Second,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Capacity <= 0 {
		s.Capacity = d.Capacity
	}
	if s.WordChoices <= 0 {
		s.WordChoices = d.WordChoices
	}
	if s.WordChoiceTicks <= 0 {
		s.WordChoiceTicks = d.WordChoiceTicks
	}
	if s.RoundOverDelayTicks <= 0 {
		s.RoundOverDelayTicks = d.RoundOverDelayTicks
	}
	if s.TickInterval <= 0 {
		s.TickInterval = d.TickInterval
	}
	return s
}

type validateRequest struct {
	code string
	resp chan ValidateCodeResponse
}

// Coordinator runs every room on a single goroutine. Inbound events,
// disconnects and timer ticks are handled one at a time, so room state needs
// no locking.
type Coordinator struct {
	registry      *Registry
	broker        Broker
	words         RandomWordsGenerator
	tickerCreator PeriodicTickerChannelCreator
	settings      Settings
	deferred      map[string]*deferredTask
	pick          func(n int) int

	inbox        chan ClientEnvelope
	validateReqs chan validateRequest
}

func NewCoordinator(broker Broker, words RandomWordsGenerator, idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, settings Settings) *Coordinator {
	settings = settings.withDefaults()
	return &Coordinator{
		registry:      NewRegistry(idgen, settings.Capacity),
		broker:        broker,
		words:         words,
		tickerCreator: tickerCreator,
		settings:      settings,
		deferred:      make(map[string]*deferredTask),
		pick:          rand.IntN,
		inbox:         make(chan ClientEnvelope, 1024),
		validateReqs:  make(chan validateRequest, 256),
	}
}

// Dispatch queues an inbound event for the coordinator goroutine.
func (c *Coordinator) Dispatch(ctx context.Context, env ClientEnvelope) {
	select {
	case c.inbox <- env:
	case <-ctx.Done():
	}
}

// Disconnect queues the connection's departure behind every event it sent
// before.
func (c *Coordinator) Disconnect(ctx context.Context, connId string) {
	c.Dispatch(ctx, ClientEnvelope{From: connId, disconnect: true})
}

// ValidateCode answers a join pre-check from outside the coordinator goroutine.
func (c *Coordinator) ValidateCode(ctx context.Context, code string) (ValidateCodeResponse, error) {
	req := validateRequest{code: code, resp: make(chan ValidateCodeResponse, 1)}
	select {
	case c.validateReqs <- req:
		select {
		case resp := <-req.resp:
			return resp, nil
		case <-ctx.Done():
			return ValidateCodeResponse{}, ctx.Err()
		}
	case <-ctx.Done():
		return ValidateCodeResponse{}, ctx.Err()
	}
}

func (c *Coordinator) Run(ctx context.Context, started chan struct{}) {
	ticker := c.tickerCreator.Create(c.settings.TickInterval)

	close(started)

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return

		case <-ticker:
			c.safely("tick", c.tick)

		case env := <-c.inbox:
			if env.disconnect {
				c.safely("disconnect", func() { c.handleDisconnect(env.From) })
				continue
			}
			c.safely(env.Event, func() { c.handleEnvelope(env) })

		case req := <-c.validateReqs:
			req.resp <- c.validate(req.code)
		}
	}
}

func (c *Coordinator) safely(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("event", name).Msg("handler panicked")
		}
	}()
	fn()
}

func (c *Coordinator) shutdown() {
	codes := make([]string, 0, len(c.registry.rooms))
	for code := range c.registry.rooms {
		codes = append(codes, code)
	}
	for _, code := range codes {
		c.destroyRoom(code)
	}
	log.Info().Int("rooms", len(codes)).Msg("coordinator stopped")
}

// tick advances every countdown and deferred task that was running when the
// tick started. Timers armed while handling this tick wait for the next one.
func (c *Coordinator) tick() {
	var timers []*countdown
	for _, room := range c.registry.rooms {
		if room.wordTimer.running() {
			timers = append(timers, &room.wordTimer)
		}
		if room.drawingTimer.running() {
			timers = append(timers, &room.drawingTimer)
		}
	}
	tasks := make([]*deferredTask, 0, len(c.deferred))
	for _, task := range c.deferred {
		tasks = append(tasks, task)
	}

	for _, t := range timers {
		t.tick()
	}

	for _, task := range tasks {
		if c.deferred[task.roomCode] != task {
			continue
		}
		task.remaining--
		if task.remaining > 0 {
			continue
		}
		delete(c.deferred, task.roomCode)
		c.runDeferred(task)
	}
}

func (c *Coordinator) schedule(room *Room, ticks int, run func(r *Room)) {
	c.deferred[room.code] = &deferredTask{
		roomCode:  room.code,
		phase:     room.phase,
		round:     room.roundsPlayed,
		remaining: ticks + armSlack,
		run:       run,
	}
}

func (c *Coordinator) runDeferred(task *deferredTask) {
	room, ok := c.registry.Room(task.roomCode)
	if !ok {
		log.Debug().Str("room", task.roomCode).Msg("deferred task dropped, room is gone")
		return
	}
	if room.phase != task.phase || room.roundsPlayed != task.round {
		log.Debug().Str("room", task.roomCode).Stringer("phase", room.phase).Msg("deferred task dropped, room moved on")
		return
	}
	task.run(room)
}

func (c *Coordinator) destroyRoom(code string) {
	c.registry.DestroyRoom(code)
	delete(c.deferred, code)
	log.Info().Str("room", code).Msg("room destroyed")
}

func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

func (c *Coordinator) handleEnvelope(env ClientEnvelope) {
	var err error

	switch env.Event {
	case EventCreateGame:
		var p CreateGamePayload
		if err = decode(env.Data, &p); err == nil {
			err = c.handleCreateGame(env.From, p)
		}
	case EventValidateCode:
		var code string
		if err = decode(env.Data, &code); err == nil {
			err = c.handleValidateCode(env.From, code)
		}
	case EventJoinGame:
		var p JoinGamePayload
		if err = decode(env.Data, &p); err == nil {
			err = c.handleJoinGame(env.From, p)
		}
	case EventPlayerReady:
		err = c.handlePlayerReady(env.From)
	case EventStartGame:
		var label string
		if err = decode(env.Data, &label); err == nil {
			err = c.handleStartGame(env.From, label)
		}
	case EventDrawing:
		err = c.handleDrawing(env.From, env.Data)
	case EventClearCanvas:
		err = c.handleClearCanvas(env.From)
	case EventUndo:
		err = c.handleUndo(env.From)
	case EventUpdatePaths:
		var paths []json.RawMessage
		if err = decode(env.Data, &paths); err == nil {
			err = c.handleUpdatePaths(env.From, paths)
		}
	case EventGetWords:
		err = c.handleGetWords(env.From)
	case EventWordChosen:
		var word string
		if err = decode(env.Data, &word); err == nil {
			err = c.handleWordChosen(env.From, word)
		}
	case EventNewGuess:
		var text string
		if err = decode(env.Data, &text); err == nil {
			err = c.handleNewGuess(env.From, text)
		}
	default:
		err = fmt.Errorf("%w: unknown event %q", ErrInvalidPayload, env.Event)
	}

	if err != nil {
		log.Warn().Err(err).Str("conn", env.From).Str("event", env.Event).Msg("event rejected")
	}
}
