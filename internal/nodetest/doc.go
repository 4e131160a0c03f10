// Package nodetest runs a fake node on an httptest server for exercising
// the client end to end. Routes are registered with error-returning
// handlers; every request is recorded with its trace ID.
package nodetest
