package room

import (
	"fmt"
	"time"

	"go-mafia/internal/game"
)

// run drives one game through its Night/Day cycle until a verdict or a
// forced abort. Each voting window is a race between "all expected
// voters have voted" and the phase deadline; the abort channel wins
// over both and unwinds without resolving.
//
// State is only touched under the room lock, and never after another
// goroutine has replaced r.game.
func (r *Room) run(g *game.Game, abort <-chan struct{}) {
	// A fault in one room's engine must not take the other rooms down.
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("game engine panic", "room", r.ID, "panic", v)
		}
	}()

	for {
		// Night, mafia sub-phase.
		r.mu.Lock()
		if r.game != g {
			r.mu.Unlock()
			return
		}
		mafiaVoted := g.BeginNight()
		r.notifyAllLocked(fmt.Sprintf("--- night %d falls ---", g.Round))
		r.notifyRoleLocked(g, game.RoleMafia, "mafia, pick a victim with /kill <id>")
		r.mu.Unlock()

		if !r.wait(mafiaVoted, r.opts.NightTimeout, abort) {
			return
		}

		// Night, detective sub-phase. The kill is tallied now but only
		// applied at dawn, after the detective has acted.
		r.mu.Lock()
		if r.game != g {
			r.mu.Unlock()
			return
		}
		killTarget, hasKill := game.Tally(g.Ballots)
		var detectiveVoted <-chan struct{}
		if det := g.Detective(); det != nil && det.Alive {
			detectiveVoted = g.BeginDetective(det.ID)
			r.notifyRoleLocked(g, game.RoleDetective, "detective, check a role with /verify <id>")
		}
		r.mu.Unlock()

		if detectiveVoted != nil && !r.wait(detectiveVoted, r.opts.NightTimeout, abort) {
			return
		}

		// Dawn resolution.
		r.mu.Lock()
		if r.game != g {
			r.mu.Unlock()
			return
		}
		var casualty *game.Player
		if hasKill {
			casualty = g.Eliminate(killTarget)
		}
		if casualty != nil {
			r.notifyAllLocked(fmt.Sprintf("* dawn breaks: %s (%d) was killed during the night", casualty.Nickname, casualty.ID))
		} else {
			r.notifyAllLocked("* dawn breaks: everyone survived the night")
		}
		if verdict := g.CheckWin(); verdict != game.VerdictNone {
			r.finishLocked(g, verdict)
			r.mu.Unlock()
			return
		}

		// Day: open deliberation plus the execution vote.
		dayVoted := g.BeginDay()
		r.notifyAllLocked(fmt.Sprintf("--- day %d --- discuss, then vote with /execute <id> or /skip", g.Round))
		r.mu.Unlock()

		if !r.wait(dayVoted, r.opts.DayTimeout, abort) {
			return
		}

		r.mu.Lock()
		if r.game != g {
			r.mu.Unlock()
			return
		}
		if target, ok := game.ResolveExecution(g.Ballots); ok {
			if executed := g.Eliminate(target); executed != nil {
				r.notifyAllLocked(fmt.Sprintf("* the town executed %s (%d)", executed.Nickname, executed.ID))
			}
		} else {
			r.notifyAllLocked("* the town could not agree on anyone; nobody was executed")
		}
		if verdict := g.CheckWin(); verdict != game.VerdictNone {
			r.finishLocked(g, verdict)
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

// wait blocks until the window's quorum is reached, its deadline
// elapses, or the game is aborted. Returns false only on abort.
func (r *Room) wait(voted <-chan struct{}, deadline time.Duration, abort <-chan struct{}) bool {
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-voted:
		return true
	case <-timer.C:
		return true
	case <-abort:
		return false
	}
}

// finishLocked announces the verdict, reveals every role and resets the
// room so a new game may start immediately.
func (r *Room) finishLocked(g *game.Game, verdict game.Verdict) {
	g.Phase = game.PhaseEnded
	switch verdict {
	case game.VerdictMafiaWin:
		r.notifyAllLocked("*** the mafia wins! ***")
	case game.VerdictTownWin:
		r.notifyAllLocked("*** the town wins! ***")
	}
	for _, m := range r.members {
		if p, ok := g.Player(m.ID); ok {
			r.notifyAllLocked(fmt.Sprintf("* %s (%d) was %s", p.Nickname, p.ID, p.Role))
		}
	}

	r.game = nil
	r.abort = nil
	r.log.Info("game finished", "room", r.ID, "verdict", string(verdict))
}
