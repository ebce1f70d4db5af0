package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"time"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	ports    PortRange
	lis      net.Listener
	incoming chan *tcpConn
	port     int
}

func newTcpServer(ports PortRange) Server {
	return &tcpServer{ports: ports, incoming: make(chan *tcpConn, 8)}
}

// Start binds ONLY the start port of the configured range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	start := s.ports.Start
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(3 * time.Second))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)
		if line == pingRequest {
			log.Printf("singleinstance: PING from %s -> PONG", remote)
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
			continue
		}
		req, err := parseRequest(line)
		if err != nil {
			log.Printf("singleinstance: rejecting request from %s: %v", remote, err)
			_, _ = bw.WriteString(errorStatus + err.Error())
			_ = bw.Flush()
			_ = c.Close()
			continue
		}
		// The capture itself may take a while; the client owns the deadline.
		_ = c.SetDeadline(time.Time{})
		log.Printf("singleinstance: request from %s mode=%s", remote, req.Mode)
		select {
		case s.incoming <- &tcpConn{c: c, r: req, w: bw, br: br}:
		case <-ctx.Done():
			_ = c.Close()
			return
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
	}
	return nil
}

type tcpConn struct {
	c  net.Conn
	r  Request
	w  *bufio.Writer
	br *bufio.Reader
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess(path string) error {
	if _, err := tc.w.WriteString(successStatus + path); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorStatus + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
