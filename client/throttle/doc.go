// Package throttle provides an [http.RoundTripper] that rate-limits
// dispatches using a token-bucket algorithm from [golang.org/x/time/rate].
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// Most callers enable it through client.WithThrottle. When the rate is
// exceeded a dispatch blocks until a token becomes available or its
// context ends.
package throttle
