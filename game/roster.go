package game

import "sort"

func (r *Room) player(connId string) *Player {
	for _, p := range r.players {
		if p.ConnId == connId {
			return p
		}
	}
	return nil
}

// currentPlayer returns the drawer, or nil.
func (r *Room) currentPlayer() *Player {
	for _, p := range r.players {
		if p.IsCurrentPlayer {
			return p
		}
	}
	return nil
}

func (r *Room) admin() *Player {
	for _, p := range r.players {
		if p.IsAdmin {
			return p
		}
	}
	return nil
}

func (r *Room) addPlayer(p *Player) {
	r.players = append(r.players, p)
}

// removePlayer drops the player with the given connection id and returns it.
func (r *Room) removePlayer(connId string) (*Player, bool) {
	for i, p := range r.players {
		if p.ConnId == connId {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// SetReady marks the player ready. It is idempotent.
func (r *Room) SetReady(connId string) error {
	p := r.player(connId)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.IsReady = true
	return nil
}

// PromoteNewAdmin makes the earliest-joined non-admin player the admin.
func (r *Room) PromoteNewAdmin() (Player, bool) {
	for _, p := range r.players {
		if !p.IsAdmin {
			p.IsAdmin = true
			return *p, true
		}
	}
	return Player{}, false
}

// RotateNextDrawer returns the first player that has not drawn this game.
func (r *Room) RotateNextDrawer() (*Player, bool) {
	for _, p := range r.players {
		if !p.HasDrawn {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) correctGuessers() int {
	n := 0
	for _, p := range r.players {
		if p.GuessedCorrectly {
			n++
		}
	}
	return n
}

// Roster returns a copy of the players in join order.
func (r *Room) Roster() []Player {
	roster := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		roster = append(roster, *p)
	}
	return roster
}

// standings returns copies sorted by score, highest first. Ties keep join order.
func (r *Room) standings(exclude string) []Player {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		if p.ConnId == exclude {
			continue
		}
		players = append(players, *p)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players
}
