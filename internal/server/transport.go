package server

import (
	"bufio"
	"net"
	"strings"

	"github.com/gorilla/websocket"
)

// tcpTransport frames the raw TCP stream into newline-delimited lines,
// the protocol the original text clients speak.
type tcpTransport struct {
	conn net.Conn
	r    *bufio.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, r: bufio.NewReader(conn)}
}

func (t *tcpTransport) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// wsTransport carries the same line protocol over websocket text
// frames, one line per frame. Writes come from a single goroutine (the
// session's write pump, after the handshake), as gorilla requires.
type wsTransport struct {
	conn *websocket.Conn
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadLine() (string, error) {
	for {
		mt, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if mt == websocket.TextMessage {
			return string(data), nil
		}
	}
}

func (t *wsTransport) WriteLine(line string) error {
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
