package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"screen-frame-capture/src/frame"
)

// probeTimeout bounds each PING during a scan.
const probeTimeout = 300 * time.Millisecond

type tcpClient struct {
	ports PortRange
}

func newTcpClient(ports PortRange) Client { return &tcpClient{ports: ports} }

func (c *tcpClient) Detect(ctx context.Context) (int, bool) {
	addr, err := c.find(ctx)
	if err != nil || addr == "" {
		return 0, false
	}
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return 0, false
	}
	return tcpAddr.Port, true
}

func (c *tcpClient) TryCapture(ctx context.Context, mode frame.Mode) (bool, string, error) {
	addr, err := c.find(ctx)
	if err != nil || addr == "" {
		return false, "", err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		// The resident answered PING a moment ago; treat a failed dial as gone.
		return false, "", nil
	}
	defer conn.Close()
	path, err := exchange(ctx, conn, Request{Mode: mode})
	return true, path, err
}

// find returns the address of the first port in range that answers PING,
// or "" when none does.
func (c *tcpClient) find(ctx context.Context) (string, error) {
	timeout := probeTimeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < timeout {
			timeout = d
		}
	}
	for _, addr := range c.ports.addrs() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if ping(addr, timeout) {
			return addr, nil
		}
	}
	return "", nil
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := io.WriteString(conn, pingRequest); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}

// exchange sends one request and reads the status line and body.
func exchange(ctx context.Context, conn net.Conn, req Request) (string, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(formatRequest(req)); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	body, _ := io.ReadAll(br)
	switch status {
	case successStatus:
		return string(body), nil
	case errorStatus:
		return "", errors.New(string(body))
	default:
		return "", errors.New("unexpected response from resident: " + status)
	}
}
