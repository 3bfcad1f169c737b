// Package command parses inbound lines into commands and invokes the
// matching room, game or session operation. It owns no state of its
// own: every rejection is a typed error from the layer below, mapped
// here to a user-visible message.
package command

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"go-mafia/internal/game"
	"go-mafia/internal/room"
	"go-mafia/internal/session"
)

// Abstaining goes through /skip, never through an execution ballot
// naming player 0.
var errAbstainViaSkip = errors.New("use /skip to abstain")

const helpText = `commands:
/create_room <title>  create a room and become its admin
/connect <room_id>    join an open room
/leave                leave the room and disconnect
/members              list room members
/rooms                list open rooms
/set_size <n>         raise the room capacity (admin)
/start_game           start a game (admin)
/players              list players of the running game
/me                   show your own role and status
/kill <player_id>     night: mafia kill ballot
/verify <player_id>   night: detective role check
/execute <player_id>  day: execution ballot
/skip                 day: abstain
/help                 this text
anything else is chat, routed by phase, role and status`

// Dispatcher resolves one inbound line per call.
type Dispatcher struct {
	dir *room.Directory
	log *slog.Logger
}

// NewDispatcher wires the dispatcher to the room directory.
func NewDispatcher(dir *room.Directory, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{dir: dir, log: log}
}

// Handle processes a single line from the session. It returns false
// once the session asked to leave and the connection should close.
func (d *Dispatcher) Handle(s *session.Session, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if !strings.HasPrefix(line, "/") {
		d.chat(s, line)
		return true
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/create_room":
		d.createRoom(s, arg)
	case "/connect":
		d.connect(s, arg)
	case "/leave":
		d.Leave(s)
		return false
	case "/members":
		d.members(s)
	case "/rooms":
		d.rooms(s)
	case "/set_size":
		d.setSize(s, arg)
	case "/start_game":
		d.startGame(s)
	case "/players":
		d.players(s)
	case "/me":
		d.me(s)
	case "/kill":
		d.ballot(s, arg, "your kill ballot is in", func(r *room.Room, id int64) error {
			return r.CastKill(s, id)
		})
	case "/verify":
		d.verify(s, arg)
	case "/execute":
		d.ballot(s, arg, "your execution ballot is in", func(r *room.Room, id int64) error {
			if id == game.AbstainTarget {
				return errAbstainViaSkip
			}
			return r.CastExecution(s, id)
		})
	case "/skip":
		d.skip(s)
	case "/help":
		s.Send(helpText)
	default:
		s.Send("unknown command, try /help")
	}
	return true
}

// Disconnect performs the cleanup an explicit /leave would, for
// sessions whose transport dropped mid-stream.
func (d *Dispatcher) Disconnect(s *session.Session) {
	if r, ok := d.current(s); ok {
		r.Leave(s)
		s.RoomID = 0
	}
	d.log.Info("session disconnected", "session", s.ID, "conn", s.ConnID)
}

// Leave removes the session from its room, reassigning or destroying
// as needed. The caller closes the transport afterwards.
func (d *Dispatcher) Leave(s *session.Session) {
	if r, ok := d.current(s); ok {
		r.Leave(s)
		s.RoomID = 0
	}
	s.Send("bye")
}

func (d *Dispatcher) chat(s *session.Session, text string) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room; /rooms lists open rooms")
		return
	}
	r.Say(s, text)
}

func (d *Dispatcher) createRoom(s *session.Session, title string) {
	if s.RoomID != 0 {
		s.Send("you are already in a room")
		return
	}
	if title == "" {
		s.Send("usage: /create_room <title>")
		return
	}

	r := d.dir.Create(title, s)
	s.RoomID = r.ID
	s.Sendf("room %d %q created, you are the admin", r.ID, r.Title)
}

func (d *Dispatcher) connect(s *session.Session, arg string) {
	if s.RoomID != 0 {
		s.Send("you are already in a room")
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		s.Send("usage: /connect <room_id>")
		return
	}

	r, ok := d.dir.Get(id)
	if !ok {
		s.Send(room.ErrNotFound.Error())
		return
	}
	if err := r.Join(s); err != nil {
		s.Send(err.Error())
		return
	}
	s.RoomID = r.ID
	s.Sendf("joined room %d %q", r.ID, r.Title)
}

func (d *Dispatcher) members(s *session.Session) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	s.Send(r.MembersView())
}

func (d *Dispatcher) rooms(s *session.Session) {
	if s.RoomID != 0 {
		s.Send("you are already in a room")
		return
	}

	rooms := d.dir.List()
	if len(rooms) == 0 {
		s.Send("no rooms yet; /create_room <title> opens one")
		return
	}
	lines := make([]string, 0, len(rooms)+1)
	lines = append(lines, "ID\tTITLE\tMEMBERS\tSTATUS")
	for _, r := range rooms {
		lines = append(lines, r.Describe())
	}
	s.Send(strings.Join(lines, "\n"))
}

func (d *Dispatcher) setSize(s *session.Session, arg string) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		s.Send("usage: /set_size <n>")
		return
	}
	if err := r.SetCapacity(s, n); err != nil {
		s.Send(err.Error())
	}
}

func (d *Dispatcher) startGame(s *session.Session) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	if err := r.StartGame(s); err != nil {
		s.Send(err.Error())
	}
}

func (d *Dispatcher) players(s *session.Session) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	view, err := r.PlayersView(s)
	if err != nil {
		s.Send(err.Error())
		return
	}
	s.Send(view)
}

func (d *Dispatcher) me(s *session.Session) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	view, err := r.SelfView(s)
	if err != nil {
		s.Send(err.Error())
		return
	}
	s.Send(view)
}

func (d *Dispatcher) ballot(s *session.Session, arg, ack string, cast func(*room.Room, int64) error) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		s.Send("that is not a valid player id")
		return
	}
	if err := cast(r, id); err != nil {
		s.Send(err.Error())
		return
	}
	s.Send(ack)
}

func (d *Dispatcher) verify(s *session.Session, arg string) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		s.Send("that is not a valid player id")
		return
	}
	role, err := r.Verify(s, id)
	if err != nil {
		s.Send(err.Error())
		return
	}
	s.Sendf("player %d is %s", id, role)
}

func (d *Dispatcher) skip(s *session.Session) {
	r, ok := d.current(s)
	if !ok {
		s.Send("you are not in a room")
		return
	}
	if err := r.CastExecution(s, game.AbstainTarget); err != nil {
		s.Send(err.Error())
		return
	}
	s.Send("you chose to skip")
}

func (d *Dispatcher) current(s *session.Session) (*room.Room, bool) {
	if s.RoomID == 0 {
		return nil, false
	}
	return d.dir.Get(s.RoomID)
}
