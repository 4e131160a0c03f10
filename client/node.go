package client

import (
	"strconv"
	"strings"
)

// Node is a handle on a locally running service. Only the HTTP port it
// listens on is needed to address it.
type Node interface {
	HTTPPort() int
}

// Port is a Node listening on a fixed port.
type Port int

func (p Port) HTTPPort() int { return int(p) }

// NodeFunc adapts a function to the Node interface, for handles whose
// port is only known once the service is running.
type NodeFunc func() int

func (f NodeFunc) HTTPPort() int { return f() }

// nodeURL builds http://localhost:<port> followed by path, inserting a
// separating slash when path lacks one.
func nodeURL(node Node, path string) string {
	var b strings.Builder
	b.Grow(len("http://localhost:") + 6 + len(path) + 1)

	b.WriteString("http://localhost:")
	b.WriteString(strconv.Itoa(node.HTTPPort()))
	if !strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(path)

	return b.String()
}
