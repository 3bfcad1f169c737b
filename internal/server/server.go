// Package server owns the connection lifecycle: listeners, the
// nickname handshake, the per-session read loop and cleanup. One
// goroutine reads each session; everything a line triggers goes
// through the dispatcher.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"go-mafia/internal/command"
	"go-mafia/internal/config"
	"go-mafia/internal/room"
	"go-mafia/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the server has no browser origin to pin
	},
}

// Server accepts clients over TCP and websocket and runs their
// sessions against one shared room directory.
type Server struct {
	cfg        config.Config
	log        *slog.Logger
	registry   *session.Registry
	dispatcher *command.Dispatcher
}

// New wires a Server from configuration.
func New(cfg config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	dir := room.NewDirectory(room.Options{
		DefaultCapacity: cfg.DefaultCapacity,
		NightTimeout:    cfg.NightTimeout,
		DayTimeout:      cfg.DayTimeout,
	}, log)

	return &Server{
		cfg:        cfg,
		log:        log,
		registry:   session.NewRegistry(),
		dispatcher: command.NewDispatcher(dir, log),
	}
}

// Run serves until ctx is cancelled, then closes the listeners and
// every live session.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.TCPAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	httpSrv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() { errCh <- s.acceptLoop(ln) }()
	go func() { errCh <- httpSrv.ListenAndServe() }()

	s.log.Info("mafia server listening", "tcp", s.cfg.TCPAddr, "http", s.cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errCh:
	}

	ln.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpSrv.Shutdown(shutdownCtx)
	s.registry.CloseAll()
	return err
}

func (s *Server) acceptLoop(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serveSession(newTCPTransport(conn))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.serveSession(newWSTransport(conn))
}

// serveSession runs one client from handshake to cleanup. Transport
// errors are treated as an implicit /leave.
func (s *Server) serveSession(t session.Transport) {
	defer func() {
		if v := recover(); v != nil {
			s.log.Error("session handler panic", "panic", v)
			t.Close()
		}
	}()

	nick, err := handshake(t)
	if err != nil {
		t.Close()
		return
	}

	sess := s.registry.Add(nick, t)
	s.log.Info("session connected", "session", sess.ID, "conn", sess.ConnID, "nickname", nick)
	sess.Sendf("welcome, %s! /help lists commands", nick)

	for {
		line, err := sess.ReadLine()
		if err != nil {
			s.dispatcher.Disconnect(sess)
			break
		}
		if !s.dispatcher.Handle(sess, line) {
			break
		}
	}

	sess.Close()
	s.registry.Remove(sess)
}

// handshake asks for a nickname until a non-blank one arrives.
func handshake(t session.Transport) (string, error) {
	for {
		if err := t.WriteLine("enter your nickname:"); err != nil {
			return "", err
		}
		line, err := t.ReadLine()
		if err != nil {
			return "", err
		}
		if nick := strings.TrimSpace(line); nick != "" {
			return nick, nil
		}
	}
}
