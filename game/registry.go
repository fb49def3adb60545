package game

import "strings"

const MAX_PLAYERS = 8

// Registry owns every live room and the connection to room index. It is only
// touched from the coordinator goroutine.
type Registry struct {
	rooms       map[string]*Room
	roomOfConn  map[string]string
	idGenerator UniqueIdGenerator
	capacity    int
}

func NewRegistry(idgen UniqueIdGenerator, capacity int) *Registry {
	if capacity <= 0 || capacity > MAX_PLAYERS {
		capacity = MAX_PLAYERS
	}
	return &Registry{
		rooms:       make(map[string]*Room),
		roomOfConn:  make(map[string]string),
		idGenerator: idgen,
		capacity:    capacity,
	}
}

// CreateRoom registers a new room with the creator as admin and presumptive
// first drawer.
func (reg *Registry) CreateRoom(creator Player) *Room {
	code := reg.idGenerator.Generate()
	for {
		if _, taken := reg.rooms[code]; !taken {
			break
		}
		code = reg.idGenerator.Generate()
	}

	creator.IsAdmin = true
	creator.IsCurrentPlayer = true
	creator.IsReady = false
	creator.Score = 0
	creator.GuessedCorrectly = false
	creator.HasDrawn = false
	creator.IsWinner = false

	room := &Room{
		code:     code,
		phase:    PHASE_LOBBY,
		capacity: reg.capacity,
		players:  make([]*Player, 0, reg.capacity),
	}
	room.addPlayer(&creator)

	reg.rooms[code] = room
	reg.roomOfConn[creator.ConnId] = code
	return room
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (reg *Registry) ValidateJoin(code string) error {
	code = normalizeCode(code)
	if code == "" {
		return ErrEmptyCode
	}
	room, ok := reg.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if len(room.players) >= room.capacity {
		return ErrRoomFull
	}
	return nil
}

// JoinRoom appends a plain player. Callers validate with ValidateJoin first.
func (reg *Registry) JoinRoom(code string, player Player) ([]Player, error) {
	room, ok := reg.rooms[normalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if len(room.players) >= room.capacity {
		return nil, ErrRoomFull
	}

	player.IsAdmin = false
	player.IsReady = false
	player.IsCurrentPlayer = false
	player.Score = 0
	player.GuessedCorrectly = false
	player.HasDrawn = false
	player.IsWinner = false

	room.addPlayer(&player)
	reg.roomOfConn[player.ConnId] = room.code
	return room.Roster(), nil
}

// LeaveRoom removes the connection from its room and the index.
func (reg *Registry) LeaveRoom(connId string) (Player, *Room, bool) {
	code, ok := reg.roomOfConn[connId]
	if !ok {
		return Player{}, nil, false
	}
	delete(reg.roomOfConn, connId)

	room, ok := reg.rooms[code]
	if !ok {
		return Player{}, nil, false
	}
	removed, ok := room.removePlayer(connId)
	if !ok {
		return Player{}, room, false
	}
	return *removed, room, true
}

func (reg *Registry) DestroyRoom(code string) {
	room, ok := reg.rooms[code]
	if !ok {
		return
	}
	room.wordTimer.cancel()
	room.drawingTimer.cancel()
	for _, p := range room.players {
		delete(reg.roomOfConn, p.ConnId)
	}
	delete(reg.rooms, code)
	reg.idGenerator.Dispose(code)
}

func (reg *Registry) Room(code string) (*Room, bool) {
	room, ok := reg.rooms[normalizeCode(code)]
	return room, ok
}

func (reg *Registry) RoomOf(connId string) (*Room, bool) {
	code, ok := reg.roomOfConn[connId]
	if !ok {
		return nil, false
	}
	room, ok := reg.rooms[code]
	return room, ok
}

func (reg *Registry) RoomsCount() int {
	return len(reg.rooms)
}
