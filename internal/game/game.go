// Package game holds the pure core of a Mafia game: roles, phases,
// ballots, tally and win detection. It does no locking and spawns no
// goroutines; callers serialize access per room.
package game

// Phase represents the current state of the game
type Phase string

const (
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
	PhaseEnded Phase = "ended"
)

// Role is a player's hidden role
type Role string

const (
	RoleMafia     Role = "mafia"
	RoleDetective Role = "detective"
	RoleCitizen   Role = "citizen"
)

// Player is one room member's in-game state. Role never changes after
// Start; only Alive does.
type Player struct {
	ID       int64
	Nickname string
	Role     Role
	Alive    bool
}

// Ballot is one (voter, target) vote cast during a voting window.
// Target == AbstainTarget denotes a skip vote.
type Ballot struct {
	Voter  int64
	Target int64
}

// Member is the identity a room hands to Start for each player.
type Member struct {
	ID       int64
	Nickname string
}

// Game is the state machine for one room's active game.
type Game struct {
	Phase      Phase
	ActiveRole Role // role awake during Night sub-phases, empty during Day
	Players    map[int64]*Player
	Ballots    []Ballot
	Round      int

	voted    map[int64]bool
	expected map[int64]bool
	allVoted chan struct{}
	closed   bool
}

// New deals roles to the given members and opens the first Night.
func New(members []Member) (*Game, error) {
	if len(members) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	roles := AssignRoles(ids)

	g := &Game{Players: make(map[int64]*Player, len(members))}
	for _, m := range members {
		g.Players[m.ID] = &Player{
			ID:       m.ID,
			Nickname: m.Nickname,
			Role:     roles[m.ID],
			Alive:    true,
		}
	}
	return g, nil
}

// BeginNight opens the Mafia kill window and returns the channel that
// closes once every alive mafioso has voted.
func (g *Game) BeginNight() <-chan struct{} {
	g.Round++
	g.Phase = PhaseNight
	g.ActiveRole = RoleMafia
	return g.openWindow(g.aliveWithRole(RoleMafia))
}

// BeginDetective opens the Detective verify window. The caller must
// ensure the detective is alive.
func (g *Game) BeginDetective(detectiveID int64) <-chan struct{} {
	g.ActiveRole = RoleDetective
	return g.openWindow([]int64{detectiveID})
}

// BeginDay opens the execution vote window for every alive player.
func (g *Game) BeginDay() <-chan struct{} {
	g.Phase = PhaseDay
	g.ActiveRole = ""
	return g.openWindow(g.aliveIDs())
}

func (g *Game) openWindow(voters []int64) <-chan struct{} {
	g.Ballots = nil
	g.voted = make(map[int64]bool, len(voters))
	g.expected = make(map[int64]bool, len(voters))
	for _, id := range voters {
		g.expected[id] = true
	}
	g.allVoted = make(chan struct{})
	g.closed = false
	if len(voters) == 0 {
		close(g.allVoted)
		g.closed = true
	}
	return g.allVoted
}

// CastKill records a mafia kill ballot during Night.
func (g *Game) CastKill(voter, target int64) error {
	if g.Phase != PhaseNight || g.ActiveRole != RoleMafia {
		return ErrWrongPhase
	}
	if err := g.checkVoter(voter, RoleMafia); err != nil {
		return err
	}
	if err := g.checkTarget(target); err != nil {
		return err
	}
	g.record(voter, target)
	return nil
}

// Verify resolves the Detective's once-per-night role check and
// returns the target's role. Only the caller learns the result.
func (g *Game) Verify(voter, target int64) (Role, error) {
	if g.Phase != PhaseNight || g.ActiveRole != RoleDetective {
		return "", ErrWrongPhase
	}
	if err := g.checkVoter(voter, RoleDetective); err != nil {
		return "", err
	}
	if err := g.checkTarget(target); err != nil {
		return "", err
	}
	g.record(voter, target)
	return g.Players[target].Role, nil
}

// CastExecution records a Day execution ballot. target may be
// AbstainTarget for a skip vote.
func (g *Game) CastExecution(voter, target int64) error {
	if g.Phase != PhaseDay {
		return ErrWrongPhase
	}
	if err := g.checkVoter(voter, ""); err != nil {
		return err
	}
	if target != AbstainTarget {
		if err := g.checkTarget(target); err != nil {
			return err
		}
	}
	g.record(voter, target)
	return nil
}

// checkVoter validates the actor without consuming their ballot
// allowance, so a rejected vote may be retried before the deadline.
func (g *Game) checkVoter(voter int64, role Role) error {
	p, ok := g.Players[voter]
	if !ok {
		return ErrNotPlaying
	}
	if !p.Alive {
		return ErrDeadPlayer
	}
	if role != "" && p.Role != role {
		return ErrWrongRole
	}
	if g.voted[voter] {
		return ErrAlreadyVoted
	}
	return nil
}

func (g *Game) checkTarget(target int64) error {
	p, ok := g.Players[target]
	if !ok {
		return ErrNoSuchPlayer
	}
	if !p.Alive {
		return ErrTargetDead
	}
	return nil
}

func (g *Game) record(voter, target int64) {
	g.Ballots = append(g.Ballots, Ballot{Voter: voter, Target: target})
	g.voted[voter] = true
	if g.closed {
		return
	}
	for id := range g.expected {
		if !g.voted[id] {
			return
		}
	}
	close(g.allVoted)
	g.closed = true
}

// Eliminate marks a player dead and returns it. A missing or already
// dead target returns nil and changes nothing.
func (g *Game) Eliminate(id int64) *Player {
	p, ok := g.Players[id]
	if !ok || !p.Alive {
		return nil
	}
	p.Alive = false
	return p
}

// Detective returns the detective player, dead or alive.
func (g *Game) Detective() *Player {
	for _, p := range g.Players {
		if p.Role == RoleDetective {
			return p
		}
	}
	return nil
}

// Player returns the in-game state for a session id, if it is playing.
func (g *Game) Player(id int64) (*Player, bool) {
	p, ok := g.Players[id]
	return p, ok
}

func (g *Game) aliveWithRole(role Role) []int64 {
	var ids []int64
	for id, p := range g.Players {
		if p.Alive && p.Role == role {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Game) aliveIDs() []int64 {
	var ids []int64
	for id, p := range g.Players {
		if p.Alive {
			ids = append(ids, id)
		}
	}
	return ids
}
