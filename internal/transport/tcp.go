package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// writeTimeout bounds each per-peer broadcast write. A peer that accepts
// but never reads fills its receive window; the deadline turns the
// resulting blocked write into an error so the peer is dropped instead of
// stalling every future tick.
const writeTimeout = 500 * time.Millisecond

// Peer is one connected TCP fan-out listener.
type Peer struct {
	Addr        string
	ConnectedAt time.Time
	conn        net.Conn
}

// TCPFanout accepts listeners non-blockingly and broadcasts each tick's
// packet to all of them, dropping any peer whose write fails. The peer
// list has its own lock so broadcasts can run outside the simulator's
// state mutex while Peers() is queried concurrently.
type TCPFanout struct {
	listener net.Listener

	mu    sync.Mutex
	peers []*Peer
}

// NewTCPFanout binds a listening socket at (host, port) with address reuse
// enabled.
func NewTCPFanout(host string, port int) (*TCPFanout, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	listener, err := lc.Listen(context.Background(), "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, err
	}

	if tl, ok := listener.(*net.TCPListener); ok {
		if err := tl.SetDeadline(time.Time{}); err != nil {
			listener.Close()
			return nil, err
		}
	}

	return &TCPFanout{listener: listener}, nil
}

// AcceptPending drains any connections waiting to be accepted, adding each
// to the peer list. Each Accept carries a one-millisecond deadline, so a
// call with nothing pending returns after about a millisecond.
func (f *TCPFanout) AcceptPending() {
	tl, ok := f.listener.(*net.TCPListener)
	if !ok {
		return
	}
	for {
		if err := tl.SetDeadline(time.Now().Add(time.Millisecond)); err != nil {
			return
		}
		conn, err := tl.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.peers = append(f.peers, &Peer{
			Addr:        conn.RemoteAddr().String(),
			ConnectedAt: time.Now(),
			conn:        conn,
		})
		f.mu.Unlock()
	}
}

// Broadcast writes packet to every connected peer, dropping and closing any
// peer whose write fails.
func (f *TCPFanout) Broadcast(packet []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	live := f.peers[:0]
	for _, p := range f.peers {
		if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			p.conn.Close()
			continue
		}
		if _, err := p.conn.Write(packet); err != nil {
			p.conn.Close()
			continue
		}
		live = append(live, p)
	}
	f.peers = live
}

// Peers returns a snapshot of the currently connected peers.
func (f *TCPFanout) Peers() []Peer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Peer, len(f.peers))
	for i, p := range f.peers {
		out[i] = *p
	}
	return out
}

// Close closes the listener and every connected peer, clearing the peer
// list, matching the stop-and-drain shutdown contract.
func (f *TCPFanout) Close() error {
	f.mu.Lock()
	for _, p := range f.peers {
		p.conn.Close()
	}
	f.peers = nil
	f.mu.Unlock()
	return f.listener.Close()
}
