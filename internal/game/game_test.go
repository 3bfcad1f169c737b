package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGame builds a five-player game with known roles, bypassing the
// shuffle, so window mechanics can be tested deterministically.
func fixedGame() *Game {
	return &Game{Players: map[int64]*Player{
		1: {ID: 1, Nickname: "mallory", Role: RoleMafia, Alive: true},
		2: {ID: 2, Nickname: "dana", Role: RoleDetective, Alive: true},
		3: {ID: 3, Nickname: "carol", Role: RoleCitizen, Alive: true},
		4: {ID: 4, Nickname: "chuck", Role: RoleCitizen, Alive: true},
		5: {ID: 5, Nickname: "craig", Role: RoleCitizen, Alive: true},
	}}
}

func TestNewRequiresFourPlayers(t *testing.T) {
	_, err := New([]Member{{ID: 1}, {ID: 2}, {ID: 3}})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	g, err := New([]Member{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
	require.NoError(t, err)
	for _, p := range g.Players {
		assert.True(t, p.Alive)
	}
}

func TestNightKillWindow(t *testing.T) {
	g := fixedGame()
	voted := g.BeginNight()

	assert.Equal(t, PhaseNight, g.Phase)
	assert.Equal(t, RoleMafia, g.ActiveRole)

	// Only alive mafia may cast a kill ballot.
	assert.ErrorIs(t, g.CastKill(3, 4), ErrWrongRole)
	assert.ErrorIs(t, g.CastKill(99, 4), ErrNotPlaying)

	// A rejected target does not consume the ballot allowance.
	assert.ErrorIs(t, g.CastKill(1, 99), ErrNoSuchPlayer)
	assert.Empty(t, g.Ballots)

	require.NoError(t, g.CastKill(1, 3))
	assert.ErrorIs(t, g.CastKill(1, 4), ErrAlreadyVoted)
	assert.Len(t, g.Ballots, 1, "a second ballot must not alter the list")

	// The only mafioso has voted, so the window is complete.
	select {
	case <-voted:
	default:
		t.Fatal("quorum channel not closed after the last expected vote")
	}
}

func TestDetectiveVerify(t *testing.T) {
	g := fixedGame()
	g.BeginNight()

	_, err := g.Verify(2, 1)
	assert.ErrorIs(t, err, ErrWrongPhase, "verify is only open in the detective sub-phase")

	voted := g.BeginDetective(2)
	_, err = g.Verify(3, 1)
	assert.ErrorIs(t, err, ErrWrongRole)

	role, err := g.Verify(2, 1)
	require.NoError(t, err)
	assert.Equal(t, RoleMafia, role)

	_, err = g.Verify(2, 4)
	assert.ErrorIs(t, err, ErrAlreadyVoted, "one check per night")

	select {
	case <-voted:
	default:
		t.Fatal("quorum channel not closed after the detective acted")
	}
}

func TestDayExecutionWindow(t *testing.T) {
	g := fixedGame()
	g.BeginNight()
	g.Eliminate(5)

	voted := g.BeginDay()
	assert.Equal(t, PhaseDay, g.Phase)

	assert.ErrorIs(t, g.CastExecution(5, 1), ErrDeadPlayer)
	assert.ErrorIs(t, g.CastExecution(1, 5), ErrTargetDead)

	require.NoError(t, g.CastExecution(1, 3))
	require.NoError(t, g.CastExecution(2, 1))
	require.NoError(t, g.CastExecution(3, AbstainTarget))

	select {
	case <-voted:
		t.Fatal("window closed before every living player voted")
	default:
	}

	require.NoError(t, g.CastExecution(4, 1))
	select {
	case <-voted:
	default:
		t.Fatal("quorum channel not closed after the last living voter")
	}
}

func TestEliminate(t *testing.T) {
	g := fixedGame()

	p := g.Eliminate(3)
	require.NotNil(t, p)
	assert.False(t, p.Alive)

	assert.Nil(t, g.Eliminate(3), "already dead")
	assert.Nil(t, g.Eliminate(99), "unknown id")
}

func TestCheckWin(t *testing.T) {
	g := fixedGame()
	assert.Equal(t, VerdictNone, g.CheckWin())

	// One mafia against four town: kill town down to one.
	g.Eliminate(3)
	g.Eliminate(4)
	assert.Equal(t, VerdictNone, g.CheckWin())

	g.Eliminate(5)
	assert.Equal(t, VerdictMafiaWin, g.CheckWin(), "mafia ties the town headcount")

	g = fixedGame()
	g.Eliminate(1)
	assert.Equal(t, VerdictTownWin, g.CheckWin())
}

func TestEmptyWindowClosesImmediately(t *testing.T) {
	g := fixedGame()
	g.Eliminate(1)

	// A window with nobody expected to vote must not leave the engine
	// waiting out the full deadline.
	voted := g.BeginNight()
	select {
	case <-voted:
	default:
		t.Fatal("window with no expected voters stayed open")
	}
}
