package game

import "time"

// Broker delivers named events to connections. Sends are fire-and-forget.
type Broker interface {
	Join(connId, roomCode string)
	Leave(connId, roomCode string)
	ToConnection(connId, event string, payload any)
	ToRoom(roomCode, event string, payload any)
	ToRoomExcept(roomCode, exceptConnId, event string, payload any)
}

type RandomWordsGenerator interface {
	Generate(count int) []string
}

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
