package game

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(count int) []string {
	args := m.Called(count)
	return args.Get(0).([]string)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Broker ---

type sentMessage struct {
	kind    string // "conn", "room" or "except"
	target  string
	except  string
	event   string
	payload any
}

// recordingBroker keeps every message instead of delivering it.
type recordingBroker struct {
	mu      sync.Mutex
	sent    []sentMessage
	members map[string]map[string]struct{}
}

func newRecordingBroker() *recordingBroker {
	return &recordingBroker{members: make(map[string]map[string]struct{})}
}

func (b *recordingBroker) Join(connId, roomCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.members[roomCode] == nil {
		b.members[roomCode] = make(map[string]struct{})
	}
	b.members[roomCode][connId] = struct{}{}
}

func (b *recordingBroker) Leave(connId, roomCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.members[roomCode], connId)
}

func (b *recordingBroker) ToConnection(connId, event string, payload any) {
	b.record(sentMessage{kind: "conn", target: connId, event: event, payload: payload})
}

func (b *recordingBroker) ToRoom(roomCode, event string, payload any) {
	b.record(sentMessage{kind: "room", target: roomCode, event: event, payload: payload})
}

func (b *recordingBroker) ToRoomExcept(roomCode, exceptConnId, event string, payload any) {
	b.record(sentMessage{kind: "except", target: roomCode, except: exceptConnId, event: event, payload: payload})
}

func (b *recordingBroker) record(m sentMessage) {
	b.mu.Lock()
	b.sent = append(b.sent, m)
	b.mu.Unlock()
}

// events returns every message with the given event name, oldest first.
func (b *recordingBroker) events(event string) []sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentMessage
	for _, m := range b.sent {
		if m.event == event {
			out = append(out, m)
		}
	}
	return out
}

func (b *recordingBroker) last(event string) (sentMessage, bool) {
	msgs := b.events(event)
	if len(msgs) == 0 {
		return sentMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

func (b *recordingBroker) count(event string) int {
	return len(b.events(event))
}

func (b *recordingBroker) reset() {
	b.mu.Lock()
	b.sent = nil
	b.mu.Unlock()
}

func (b *recordingBroker) isMember(connId, roomCode string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.members[roomCode][connId]
	return ok
}
