// Package pool provides a bounded worker pool for running dispatches
// off the calling goroutine.
//
// A [Pool] satisfies the client.Executor interface, so it can be handed
// to a request directly:
//
//	p := pool.New(4)
//	err := client.NewRequest(http.MethodGet, u).
//		Pool(p).
//		ExecuteAsync(ctx, onResponse, onError)
//	// ...
//	p.Wait()
//
// Work that returns an error can be tracked individually with [Pool.Go],
// which hands back a [Result]. The pool never shuts itself down; callers
// that own it decide when to call [Pool.Shutdown].
package pool
