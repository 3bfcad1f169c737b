package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func recv(t *testing.T, ft *fakeTransport) string {
	t.Helper()
	select {
	case line := <-ft.out:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no line written")
		return ""
	}
}

func TestSendPreservesOrder(t *testing.T) {
	ft := newFakeTransport()
	s := New(1, "ann", ft)
	defer s.Close()

	s.Send("one")
	s.Sendf("%s and %d", "two", 2)
	s.Send("three")

	assert.Equal(t, "one", recv(t, ft))
	assert.Equal(t, "two and 2", recv(t, ft))
	assert.Equal(t, "three", recv(t, ft))
}

func TestCloseDrainsQueuedLines(t *testing.T) {
	ft := newFakeTransport()
	s := New(1, "ann", ft)

	s.Send("bye")
	s.Close()

	assert.Equal(t, "bye", recv(t, ft))
	select {
	case <-ft.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("transport not closed after drain")
	}
}

func TestRegistryAllocatesUniqueIDs(t *testing.T) {
	reg := NewRegistry()

	a := reg.Add("ann", newFakeTransport())
	b := reg.Add("bob", newFakeTransport())
	defer a.Close()
	defer b.Close()

	require.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ConnID)
	assert.Equal(t, 2, reg.Len())

	reg.Remove(a)
	assert.Equal(t, 1, reg.Len())

	reg.CloseAll()
	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatal("CloseAll did not shut the session down")
	}
}
