package materialize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// progressWriter counts the bytes spooled into a temp file and reports
// them at most once per second, plus once when a known length is reached.
type progressWriter struct {
	w       io.Writer
	logger  *slog.Logger
	total   int64 // -1 when the server sent no length
	written int64
	started time.Time
	last    time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)

	switch {
	case pw.total >= 0 && pw.written == pw.total:
		pw.report("response spooled")
	case time.Since(pw.last) >= time.Second:
		pw.last = time.Now()
		pw.report("spooling response")
	}

	return n, err
}

func (pw *progressWriter) report(msg string) {
	elapsed := time.Since(pw.started)

	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed.Round(time.Millisecond)),
		slog.Int64("written", pw.written),
		slog.String("mbps", fmt.Sprintf("%.2f", float64(pw.written)/elapsed.Seconds()/(1<<20))),
	}
	if pw.total > 0 {
		attrs = append(attrs,
			slog.Int64("total", pw.total),
			slog.String("percent", fmt.Sprintf("%.1f%%", float64(pw.written)/float64(pw.total)*100)),
		)
	}

	pw.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, slog.Attr{Key: "progress", Value: slog.GroupValue(attrs...)})
}
