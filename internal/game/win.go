package game

// Verdict is the outcome of a win-condition check.
type Verdict string

const (
	VerdictNone     Verdict = ""
	VerdictMafiaWin Verdict = "mafia"
	VerdictTownWin  Verdict = "town"
)

// AliveCounts returns the number of living mafia and living non-mafia.
func (g *Game) AliveCounts() (mafia, town int) {
	for _, p := range g.Players {
		if !p.Alive {
			continue
		}
		if p.Role == RoleMafia {
			mafia++
		} else {
			town++
		}
	}
	return mafia, town
}

// CheckWin evaluates the win conditions after an elimination step.
// Mafia wins once it is no longer outnumbered by the living town;
// the town wins once every mafioso is dead.
func (g *Game) CheckWin() Verdict {
	mafia, town := g.AliveCounts()
	if mafia == 0 {
		return VerdictTownWin
	}
	if mafia >= town {
		return VerdictMafiaWin
	}
	return VerdictNone
}
