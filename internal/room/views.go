package room

import (
	"fmt"
	"strings"

	"go-mafia/internal/game"
	"go-mafia/internal/session"
)

// Describe summarizes the room for the /rooms listing.
func (r *Room) Describe() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := "open"
	if r.game != nil {
		status = "in game"
	}
	return fmt.Sprintf("%d\t%s\t%d/%d\t%s", r.ID, r.Title, len(r.members), r.capacity, status)
}

// MembersView lists the room members in join order for /members.
func (r *Room) MembersView() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	b.WriteString("ID\tNAME")
	for _, m := range r.members {
		b.WriteString(fmt.Sprintf("\n%d\t%s", m.ID, m.Nickname))
		if m.ID == r.adminID {
			b.WriteString("\t(admin)")
		}
	}
	return b.String()
}

// PlayersView lists the players of the active game for /players. Roles
// stay masked while the viewer is alive; dead viewers see everything.
func (r *Room) PlayersView(viewer *session.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.game
	if g == nil {
		return "", ErrNoGame
	}

	reveal := false
	if p, ok := g.Player(viewer.ID); ok && !p.Alive {
		reveal = true
	}

	var b strings.Builder
	b.WriteString("ID\tNAME\tSTATUS")
	for _, m := range r.members {
		p, ok := g.Player(m.ID)
		if !ok {
			continue
		}
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		b.WriteString(fmt.Sprintf("\n%d\t%s\t%s", p.ID, p.Nickname, status))
		if reveal {
			b.WriteString("\t" + string(p.Role))
		}
	}
	return b.String(), nil
}

// SelfView shows the viewer their own role and status for /me.
func (r *Room) SelfView(viewer *session.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game == nil {
		return "", ErrNoGame
	}
	p, ok := r.game.Player(viewer.ID)
	if !ok {
		return "", game.ErrNotPlaying
	}

	status := "alive"
	if !p.Alive {
		status = "dead"
	}
	return fmt.Sprintf("you are %s (%s)", p.Role, status), nil
}

// Admin returns the current admin's session id.
func (r *Room) Admin() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adminID
}

// Capacity returns the current member limit.
func (r *Room) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacity
}

// MemberCount returns the number of members.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// InGame reports whether a game is currently running.
func (r *Room) InGame() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game != nil
}
