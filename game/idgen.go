package game

import (
	"crypto/rand"
	"math/big"
	"sync"
)

const (
	RoomCodeLength   = 5
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Idgen hands out short room codes and remembers them until disposed.
type Idgen struct {
	ids    map[string]struct{}
	size   int
	locker sync.Mutex
}

func NewIdGen() Idgen {
	return Idgen{ids: make(map[string]struct{}), size: RoomCodeLength}
}

func (idgen *Idgen) Generate() string {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()

	for {
		id := randomCode(idgen.size)
		if _, taken := idgen.ids[id]; taken {
			continue
		}
		idgen.ids[id] = struct{}{}
		return id
	}
}

func (idgen *Idgen) Dispose(id string) {
	idgen.locker.Lock()
	delete(idgen.ids, id)
	idgen.locker.Unlock()
}

func randomCode(size int) string {
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	b := make([]byte, size)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(b)
}
