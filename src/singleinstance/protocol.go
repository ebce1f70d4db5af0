package singleinstance

import (
	"fmt"
	"strings"

	"screen-frame-capture/src/frame"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"

	captureVerb   = "CAPTURE"
	successStatus = "SUCCESS\n"
	errorStatus   = "ERROR\n"
)

func formatRequest(r Request) string {
	return fmt.Sprintf("%s %s\n", captureVerb, r.Mode)
}

// parseRequest reads a request line. A bare CAPTURE means ModeBoth.
func parseRequest(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != captureVerb || len(fields) > 2 {
		return Request{}, fmt.Errorf("malformed request %q", strings.TrimSpace(line))
	}
	if len(fields) == 1 {
		return Request{Mode: frame.ModeBoth}, nil
	}
	m, err := frame.ParseMode(fields[1])
	if err != nil {
		return Request{}, err
	}
	return Request{Mode: m}, nil
}
