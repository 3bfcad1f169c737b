package broadcast

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mafia/internal/game"
	"go-mafia/internal/session"
)

// fakeTransport records written lines for assertions.
type fakeTransport struct {
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{out: make(chan string, 64), closed: make(chan struct{})}
}

func (t *fakeTransport) ReadLine() (string, error) {
	<-t.closed
	return "", errors.New("closed")
}

func (t *fakeTransport) WriteLine(line string) error {
	select {
	case t.out <- line:
		return nil
	case <-t.closed:
		return errors.New("closed")
	}
}

func (t *fakeTransport) Close() error {
	t.once.Do(func() { close(t.closed) })
	return nil
}

func newMembers(t *testing.T, n int) ([]*session.Session, []*fakeTransport) {
	t.Helper()
	sessions := make([]*session.Session, n)
	transports := make([]*fakeTransport, n)
	for i := 0; i < n; i++ {
		transports[i] = newFakeTransport()
		sessions[i] = session.New(int64(i+1), "p", transports[i])
		t.Cleanup(sessions[i].Close)
	}
	return sessions, transports
}

func ids(recipients []*session.Session) []int64 {
	out := make([]int64, 0, len(recipients))
	for _, s := range recipients {
		out = append(out, s.ID)
	}
	return out
}

// nightGame: 1 and 2 mafia, 3 detective, 4..6 citizens, 5 dead, 6 dead.
func testGame(phase game.Phase, active game.Role) *game.Game {
	return &game.Game{
		Phase:      phase,
		ActiveRole: active,
		Players: map[int64]*game.Player{
			1: {ID: 1, Role: game.RoleMafia, Alive: true},
			2: {ID: 2, Role: game.RoleMafia, Alive: true},
			3: {ID: 3, Role: game.RoleDetective, Alive: true},
			4: {ID: 4, Role: game.RoleCitizen, Alive: true},
			5: {ID: 5, Role: game.RoleCitizen, Alive: false},
			6: {ID: 6, Role: game.RoleCitizen, Alive: false},
		},
	}
}

func TestRecipientsNoGameIsRoomChat(t *testing.T) {
	members, _ := newMembers(t, 3)

	got := Recipients(members[0], members, nil)
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestRecipientsNightMafiaChannel(t *testing.T) {
	members, _ := newMembers(t, 6)
	g := testGame(game.PhaseNight, game.RoleMafia)

	got := Recipients(members[0], members, g)
	assert.Equal(t, []int64{2}, ids(got), "only the other living mafioso may hear")
}

func TestRecipientsNightNonActiveRoleIsDropped(t *testing.T) {
	members, _ := newMembers(t, 6)
	g := testGame(game.PhaseNight, game.RoleMafia)

	assert.Empty(t, Recipients(members[3], members, g), "a living citizen cannot speak at night")
	assert.Empty(t, Recipients(members[2], members, g), "the detective cannot speak during the mafia sub-phase")
}

func TestRecipientsDeadGhostChannel(t *testing.T) {
	members, _ := newMembers(t, 6)

	for _, phase := range []game.Phase{game.PhaseNight, game.PhaseDay} {
		g := testGame(phase, game.RoleMafia)
		got := Recipients(members[4], members, g)
		assert.Equal(t, []int64{6}, ids(got), "dead talk only to dead, phase=%s", phase)
	}
}

func TestRecipientsDayAliveChannel(t *testing.T) {
	members, _ := newMembers(t, 6)
	g := testGame(game.PhaseDay, "")

	got := Recipients(members[0], members, g)
	assert.Equal(t, []int64{2, 3, 4}, ids(got), "day chat reaches every living player but the sender")
}

func TestDeliverPerRecipientOrder(t *testing.T) {
	members, transports := newMembers(t, 2)

	Deliver("first", members[1:])
	Deliver("second", members[1:])

	require.Equal(t, "first", recv(t, transports[1]))
	require.Equal(t, "second", recv(t, transports[1]))
}

func recv(t *testing.T, ft *fakeTransport) string {
	t.Helper()
	select {
	case line := <-ft.out:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no line delivered")
		return ""
	}
}
