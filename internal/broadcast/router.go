// Package broadcast decides who may hear whom. Visibility depends on
// room membership, game phase, the sender's role and whether the
// sender is alive, so the recipient set is recomputed at send time
// from live state rather than cached.
package broadcast

import (
	"go-mafia/internal/game"
	"go-mafia/internal/session"
)

// Recipients returns the sessions that may see a chat line from
// sender, given the room's members in join order and its active game
// (nil when no game is running). A nil result means the sender cannot
// speak in this context and the line is dropped.
//
// Rules, first match wins:
//   - no active game: everyone in the room except the sender
//   - dead sender: the other dead players, in any phase
//   - Night, sender's role is awake: living players sharing that role
//   - Day, living sender: every living player
//   - anything else: nobody
func Recipients(sender *session.Session, members []*session.Session, g *game.Game) []*session.Session {
	if g == nil || g.Phase == game.PhaseEnded {
		return allExcept(sender, members)
	}

	p, ok := g.Player(sender.ID)
	if !ok {
		return nil
	}

	var visible func(*game.Player) bool
	switch {
	case !p.Alive:
		visible = func(q *game.Player) bool { return !q.Alive }
	case g.Phase == game.PhaseNight && p.Role == g.ActiveRole:
		visible = func(q *game.Player) bool { return q.Alive && q.Role == p.Role }
	case g.Phase == game.PhaseDay:
		visible = func(q *game.Player) bool { return q.Alive }
	default:
		return nil
	}

	var out []*session.Session
	for _, m := range members {
		if m.ID == sender.ID {
			continue
		}
		if q, ok := g.Player(m.ID); ok && visible(q) {
			out = append(out, m)
		}
	}
	return out
}

// Deliver queues the line on every recipient. Per-recipient ordering
// follows from each session's single write pump.
func Deliver(line string, recipients []*session.Session) {
	for _, s := range recipients {
		s.Send(line)
	}
}

func allExcept(sender *session.Session, members []*session.Session) []*session.Session {
	var out []*session.Session
	for _, m := range members {
		if m.ID != sender.ID {
			out = append(out, m)
		}
	}
	return out
}
