// Package room manages the named groups sessions play in: the
// directory of all rooms, per-room membership and admin rules, and the
// engine loop that drives an active game through its phases.
//
// All state of one room is serialized behind its mutex; the directory
// has its own lock scoped to lookup and creation only.
package room

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go-mafia/internal/game"
	"go-mafia/internal/session"
)

// Options carries the tunables a room inherits at creation.
type Options struct {
	DefaultCapacity int
	NightTimeout    time.Duration
	DayTimeout      time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultCapacity < game.MinCapacity {
		o.DefaultCapacity = game.MinCapacity
	}
	if o.NightTimeout <= 0 {
		o.NightTimeout = time.Minute
	}
	if o.DayTimeout <= 0 {
		o.DayTimeout = 2 * time.Minute
	}
	return o
}

// Directory is the registry of all rooms. It owns the room id
// allocator; ids are monotonic and process-lifetime unique.
type Directory struct {
	opts   Options
	log    *slog.Logger
	nextID atomic.Int64

	mu    sync.RWMutex
	rooms map[int64]*Room
}

// NewDirectory constructs an empty Directory.
func NewDirectory(opts Options, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{
		opts:  opts.withDefaults(),
		log:   log,
		rooms: make(map[int64]*Room),
	}
}

// Create allocates a room with the creator as sole member and admin.
func (d *Directory) Create(title string, creator *session.Session) *Room {
	r := &Room{
		ID:       d.nextID.Add(1),
		Title:    title,
		dir:      d,
		opts:     d.opts,
		log:      d.log,
		adminID:  creator.ID,
		members:  []*session.Session{creator},
		capacity: d.opts.DefaultCapacity,
	}

	d.mu.Lock()
	d.rooms[r.ID] = r
	d.mu.Unlock()

	d.log.Info("room created", "room", r.ID, "title", title, "admin", creator.ID)
	return r
}

// Get returns the room with the given id.
func (d *Directory) Get(id int64) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[id]
	return r, ok
}

// List returns every room ordered by id.
func (d *Directory) List() []*Room {
	d.mu.RLock()
	out := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		out = append(out, r)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Directory) remove(id int64) {
	d.mu.Lock()
	delete(d.rooms, id)
	d.mu.Unlock()
	d.log.Info("room destroyed", "room", id)
}
