package singleinstance

import "fmt"

// PortRange is the inclusive set of loopback ports a resident may listen on.
// The resident binds Start; clients scan the whole range.
type PortRange struct {
	Start int
	End   int
}

func (r PortRange) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// addrs lists the loopback addresses of the range in scan order.
func (r PortRange) addrs() []string {
	if r.End < r.Start {
		return nil
	}
	out := make([]string, 0, r.End-r.Start+1)
	for port := r.Start; port <= r.End; port++ {
		out = append(out, fmt.Sprintf("%s:%d", residentHost, port))
	}
	return out
}
