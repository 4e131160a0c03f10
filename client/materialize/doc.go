// Package materialize spools HTTP response bodies to temporary files
// instead of holding them in memory.
//
// [Handle] drains a live connection into a [Sink]: it records the
// encoding and status code, copies the body in fixed-size chunks into
// a fresh temp file and records the file's path. When the body cannot
// be read it falls back to the connection's error stream, keeping the
// original error on the sink next to the fallback content:
//
//	err := materialize.Handle(conn, resp, "UTF-8", logger,
//		materialize.WithTempDir(dir),
//	)
//
// Temp files are never removed on success; whoever holds the sink owns
// them. Most callers use the higher-level
// [github.com/adamwoolhether/curl/client] package, which invokes Handle
// for every executed request.
package materialize
