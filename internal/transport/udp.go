// Package transport implements the two broadcast substrates the tick
// engine publishes to: a UDP fire-and-forget emitter and a TCP fan-out
// server, plus optional DNS-SD discovery of the TCP endpoint.
package transport

import (
	"fmt"
	"net"
)

// UDPEmitter sends each tick's packet to a single fixed destination over an
// unconnected datagram socket.
type UDPEmitter struct {
	conn net.PacketConn
	dst  *net.UDPAddr
}

// rewriteAnyHost rejects the "any address" spellings, rewriting them to
// loopback before the socket is used.
func rewriteAnyHost(host string) string {
	switch host {
	case "0.0.0.0", "", "any", "all":
		return "127.0.0.1"
	default:
		return host
	}
}

// NewUDPEmitter opens an unconnected UDP socket bound to no specific local
// port and resolves the fixed destination.
func NewUDPEmitter(host string, port int) (*UDPEmitter, error) {
	host = rewriteAnyHost(host)

	dst, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, err
	}

	return &UDPEmitter{conn: conn, dst: dst}, nil
}

// Send writes packet to the fixed destination as one datagram.
func (e *UDPEmitter) Send(packet []byte) error {
	_, err := e.conn.WriteTo(packet, e.dst)
	return err
}

// Close releases the underlying socket.
func (e *UDPEmitter) Close() error {
	return e.conn.Close()
}
