package main

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 75 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 64
	maxMessageSize = 256 << 10
)

// PlayerWebsocket reads client messages and serializes every frame written
// to the connection, including the replies to control frames.
type PlayerWebsocket struct {
	conn      net.Conn
	writeLock sync.Mutex
}

func NewPlayerWebsocket(conn net.Conn) *PlayerWebsocket {
	return &PlayerWebsocket{conn: conn}
}

// ReadMessage returns one of the structs accepted by ParseMessage. Errors
// wrapping ErrUndefinedType or ErrInvalidPayload leave the connection usable;
// an oversized message ends it.
func (p *PlayerWebsocket) ReadMessage() (any, error) {
	msg, err := p.readText()
	if err != nil {
		return nil, err
	}
	return ParseMessage(msg)
}

func (p *PlayerWebsocket) readText() ([]byte, error) {
	control := wsutil.ControlFrameHandler(p.conn, ws.StateServerSide)
	onControl := func(h ws.Header, r io.Reader) error {
		p.writeLock.Lock()
		defer p.writeLock.Unlock()
		return control(h, r)
	}
	rd := wsutil.Reader{
		Source:         p.conn,
		State:          ws.StateServerSide,
		CheckUTF8:      true,
		MaxFrameSize:   maxMessageSize,
		OnIntermediate: onControl,
	}
	for {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := onControl(hdr, &rd); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode != ws.OpText {
			if err := rd.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		// continuation frames are checked one by one, so cap the whole message too
		msg, err := io.ReadAll(io.LimitReader(&rd, maxMessageSize+1))
		if err != nil {
			return nil, err
		}
		if len(msg) > maxMessageSize {
			return nil, ErrMessageTooLarge
		}
		return msg, nil
	}
}

func (p *PlayerWebsocket) write(op ws.OpCode, msg []byte) error {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsutil.WriteServerMessage(p.conn, op, msg)
}

func (p *PlayerWebsocket) Send(msg []byte) error {
	return p.write(ws.OpText, msg)
}

// WriteLoop drains out until it is closed, pinging in between. A failed
// write closes the connection so the read side ends too.
func (p *PlayerWebsocket) WriteLoop(out <-chan []byte, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case msg, more := <-out:
			if !more {
				return
			}
			if err := p.Send(msg); err != nil {
				p.conn.Close()
				return
			}
		case <-ticker.C:
			if err := p.write(ws.OpPing, nil); err != nil {
				p.conn.Close()
				return
			}
		}
	}
}

func (p *PlayerWebsocket) Close() error {
	return p.conn.Close()
}
