// Package curl drives HTTP exchanges against a locally running node.
//
// The helpers here create requests on the default client; use NewClient
// for one with its own transport, logger or pool. See package client for
// the request builder and the response types.
package curl

import (
	"net/http"

	"github.com/adamwoolhether/curl/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a clone of http.DefaultTransport is used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Get creates a GET request for url.
func Get(url string) *client.Request { return client.NewRequest(http.MethodGet, url) }

// Post creates a POST request for url.
func Post(url string) *client.Request { return client.NewRequest(http.MethodPost, url) }

// Put creates a PUT request for url.
func Put(url string) *client.Request { return client.NewRequest(http.MethodPut, url) }

// Delete creates a DELETE request for url.
func Delete(url string) *client.Request { return client.NewRequest(http.MethodDelete, url) }

// Head creates a HEAD request for url.
func Head(url string) *client.Request { return client.NewRequest(http.MethodHead, url) }

// GetNode creates a GET request for path on node.
func GetNode(node client.Node, path string) *client.Request {
	return client.NewNodeRequest(http.MethodGet, node, path)
}

// PostNode creates a POST request for path on node.
func PostNode(node client.Node, path string) *client.Request {
	return client.NewNodeRequest(http.MethodPost, node, path)
}

// PutNode creates a PUT request for path on node.
func PutNode(node client.Node, path string) *client.Request {
	return client.NewNodeRequest(http.MethodPut, node, path)
}

// DeleteNode creates a DELETE request for path on node.
func DeleteNode(node client.Node, path string) *client.Request {
	return client.NewNodeRequest(http.MethodDelete, node, path)
}

// HeadNode creates a HEAD request for path on node.
func HeadNode(node client.Node, path string) *client.Request {
	return client.NewNodeRequest(http.MethodHead, node, path)
}
