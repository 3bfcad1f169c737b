package room

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go-mafia/internal/broadcast"
	"go-mafia/internal/game"
	"go-mafia/internal/session"
)

// Room is a named group of sessions with a capacity, an admin and at
// most one active game. Every field behind mu, including the game, is
// only observed and mutated while holding it.
type Room struct {
	ID    int64
	Title string

	dir  *Directory
	opts Options
	log  *slog.Logger

	mu        sync.Mutex
	adminID   int64
	members   []*session.Session // join order
	capacity  int
	game      *game.Game // nil while no game is running
	abort     chan struct{}
	destroyed bool // set when the last member leaves
}

// Join appends the session to the member list. Rejected while the room
// is full or a game is running.
func (r *Room) Join(s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A Get/Join pair is not atomic: the last member may have left in
	// between, in which case this room is already gone from the
	// directory and must not accept anyone.
	if r.destroyed {
		return ErrNotFound
	}
	if r.game != nil {
		return ErrGameInProgress
	}
	if len(r.members) >= r.capacity {
		return ErrRoomFull
	}

	r.notifyAllLocked(fmt.Sprintf("* %s joined the room", s.Nickname))
	r.members = append(r.members, s)
	r.log.Info("member joined", "room", r.ID, "session", s.ID, "conn", s.ConnID)
	return nil
}

// Leave removes the session from the room. An active game is force
// stopped first; the admin role passes to the next member in join
// order, and an emptied room is destroyed.
func (r *Room) Leave(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, m := range r.members {
		if m.ID == s.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if r.game != nil {
		r.stopGameLocked()
	}

	r.members = append(r.members[:idx], r.members[idx+1:]...)
	r.log.Info("member left", "room", r.ID, "session", s.ID)

	if len(r.members) == 0 {
		r.destroyed = true
		r.dir.remove(r.ID)
		return
	}

	r.notifyAllLocked(fmt.Sprintf("* %s left the room", s.Nickname))
	if r.adminID == s.ID {
		r.adminID = r.members[0].ID
		r.notifyAllLocked(fmt.Sprintf("* %s is the new admin", r.members[0].Nickname))
	}
}

// SetCapacity raises the room capacity. Admin only; capacity may never
// drop below its current value, the member count, or 4.
func (r *Room) SetCapacity(s *session.Session, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.adminID != s.ID {
		return ErrNotAdmin
	}
	if r.game != nil {
		return ErrGameInProgress
	}
	if n < game.MinCapacity || n < len(r.members) || n < r.capacity {
		return ErrInvalidCapacity
	}

	r.capacity = n
	r.notifyAllLocked(fmt.Sprintf("* room capacity is now %d", n))
	return nil
}

// StartGame deals roles to the current members and launches the engine
// loop for this room's game.
func (r *Room) StartGame(s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.adminID != s.ID {
		return ErrNotAdmin
	}
	if r.game != nil {
		return ErrGameInProgress
	}
	if r.capacity < len(r.members) || r.capacity < game.MinCapacity {
		return ErrInvalidCapacity
	}

	ms := make([]game.Member, len(r.members))
	for i, m := range r.members {
		ms[i] = game.Member{ID: m.ID, Nickname: m.Nickname}
	}
	g, err := game.New(ms)
	if err != nil {
		return err
	}

	r.game = g
	r.abort = make(chan struct{})
	r.notifyAllLocked("* the game begins! check your role with /me")
	r.dealNoticesLocked(g)
	r.log.Info("game started", "room", r.ID, "players", len(ms))

	go r.run(g, r.abort)
	return nil
}

// dealNoticesLocked privately tells each player their role. Mafiosi
// also learn their teammates so they can coordinate at night.
func (r *Room) dealNoticesLocked(g *game.Game) {
	var mafia []string
	for _, m := range r.members {
		if p, ok := g.Player(m.ID); ok && p.Role == game.RoleMafia {
			mafia = append(mafia, fmt.Sprintf("%s (%d)", p.Nickname, p.ID))
		}
	}
	team := strings.Join(mafia, ", ")

	for _, m := range r.members {
		p, ok := g.Player(m.ID)
		if !ok {
			continue
		}
		m.Sendf("Your role: %s", p.Role)
		if p.Role == game.RoleMafia {
			m.Sendf("The mafia: %s", team)
		}
	}
}

// Say routes an ordinary chat line through the visibility rules. Lines
// the sender may not speak in the current context are dropped.
func (r *Room) Say(s *session.Session, text string) {
	r.mu.Lock()
	recipients := broadcast.Recipients(s, r.members, r.game)
	r.mu.Unlock()

	broadcast.Deliver(fmt.Sprintf("%s: %s", s.Nickname, text), recipients)
}

// CastKill records a mafia night ballot.
func (r *Room) CastKill(s *session.Session, target int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return ErrNoGame
	}
	return r.game.CastKill(s.ID, target)
}

// Verify resolves the detective's night check and returns the target's
// role for the caller's eyes only.
func (r *Room) Verify(s *session.Session, target int64) (game.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return "", ErrNoGame
	}
	return r.game.Verify(s.ID, target)
}

// CastExecution records a day ballot; target game.AbstainTarget skips.
func (r *Room) CastExecution(s *session.Session, target int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return ErrNoGame
	}
	return r.game.CastExecution(s.ID, target)
}

// stopGameLocked is the forced abort path: the phase loop is told to
// unwind without resolving, and the game state is discarded.
func (r *Room) stopGameLocked() {
	if r.abort != nil {
		close(r.abort)
		r.abort = nil
	}
	r.game = nil
	r.notifyAllLocked("* the game was stopped because a player left")
	r.log.Info("game aborted", "room", r.ID)
}

// Session.Send never blocks, so notifying under the room lock is safe.
func (r *Room) notifyAllLocked(line string) {
	for _, m := range r.members {
		m.Send(line)
	}
}

func (r *Room) notifyRoleLocked(g *game.Game, role game.Role, line string) {
	for _, m := range r.members {
		if p, ok := g.Player(m.ID); ok && p.Alive && p.Role == role {
			m.Send(line)
		}
	}
}
