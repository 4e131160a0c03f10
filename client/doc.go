// Package client drives single HTTP exchanges against a node, typically
// a search engine listening on localhost, built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithEncoding("UTF-8"),
//	)
//
// The package-level [NewRequest] and [NewNodeRequest] use a default client.
//
// # Describing a Request
//
// A [Request] is configured with chained calls. Parameters are encoded
// with the request charset and appended when the final URL is computed:
//
//	req := c.NodeRequest(http.MethodPost, client.Port(9200), "/idx/_search").
//		Param("pretty", "true").
//		Header("Content-Type", "application/json").
//		Body(`{"query":{"match_all":{}}}`)
//
// Builder misuse is sticky: it is reported by [Request.Err] and by the
// dispatch methods, which then dispatch nothing.
//
// # Dispatching
//
// [Request.Execute] runs inline and returns a [Response] whose content
// was spooled to a temp file:
//
//	resp, err := req.Execute(ctx)
//	if err != nil { ... }
//	defer resp.Close()
//	status, _ := resp.JSON("status")
//
// [Request.ExecuteAsync] and [Request.Connect] deliver results through
// continuations, and run on an [Executor] when one is set with
// [Request.Pool] or [WithPool]. [Request.Connect] hands over the live
// [Conn] instead of materializing it.
//
// When the body of a response cannot be read, for instance because the
// server answered with an error status, the error body is captured
// instead and the original error is kept: see [Response.Outcome].
//
// For lower-level control see the
// [github.com/adamwoolhether/curl/client/materialize] and
// [github.com/adamwoolhether/curl/client/pool] packages.
package client
