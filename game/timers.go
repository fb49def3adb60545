package game

import "time"

const (
	WordChoiceTicks     = 20
	RoundOverDelayTicks = 10

	// armSlack is added to every wait armed against the shared ticker. The
	// next tick can land anywhere inside its interval, so a wait of n ticks
	// alone could end up to one interval early.
	armSlack = 1
)

// countdown is an interruptible timer owned by a single room. It is advanced
// one tick at a time by the coordinator and never runs on its own goroutine.
type countdown struct {
	remaining int
	armed     bool
	onExpire  func()
}

// arm (re)starts the countdown, discarding any previous arming.
func (c *countdown) arm(ticks int, onExpire func()) {
	c.remaining = ticks
	c.armed = true
	c.onExpire = onExpire
}

// cancel stops the countdown. It reports whether it was running.
func (c *countdown) cancel() bool {
	wasArmed := c.armed
	c.armed = false
	c.remaining = 0
	c.onExpire = nil
	return wasArmed
}

func (c *countdown) running() bool {
	return c.armed
}

func (c *countdown) tick() {
	if !c.armed {
		return
	}
	c.remaining--
	if c.remaining > 0 {
		return
	}
	expire := c.onExpire
	c.cancel()
	if expire != nil {
		expire()
	}
}

// deferredTask is a one-shot action scheduled against a room code. The room
// is looked up again when the task fires and the task is dropped if the room
// is gone or has moved past the phase/round it was scheduled for.
type deferredTask struct {
	roomCode  string
	phase     RoomPhase
	round     int
	remaining int
	run       func(r *Room)
}

type ticker struct{}

func (t *ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() ticker {
	return ticker{}
}
