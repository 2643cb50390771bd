package devlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one captured API exchange.
type Entry struct {
	Timestamp    time.Time
	Method       string
	Path         string
	URL          string
	Status       int
	Duration     time.Duration
	RequestBody  string
	ResponseBody string
}

// Logger appends API traffic to a flat local file during development. The
// file is truncated once with a banner header when the logger is constructed
// and is strictly append-only afterwards. There is no rotation and no size
// bound: the artifact lives for one dev session and must never be enabled in
// production.
type Logger struct {
	diag     *zap.SugaredLogger
	prefixes []string

	mu sync.Mutex
	f  *os.File
}

// New truncates the log file at path, writes the session banner, and returns
// a logger that records requests whose path starts with one of prefixes.
func New(path string, prefixes []string, diag *zap.SugaredLogger) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open api log file: %w", err)
	}

	banner := fmt.Sprintf("=== Backend API Logs ===\nStarted: %s\n%s\n\n",
		time.Now().Format(time.RFC3339), strings.Repeat("=", 50))
	if _, err := f.WriteString(banner); err != nil {
		f.Close()
		return nil, fmt.Errorf("write api log banner: %w", err)
	}

	return &Logger{diag: diag, prefixes: prefixes, f: f}, nil
}

// ShouldLog reports whether the request path is on the allowlist.
func (l *Logger) ShouldLog(path string) bool {
	for _, p := range l.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Append writes one entry in arrival order. Failures are reported on the
// diagnostic logger and never propagate to the request that produced the
// entry.
func (l *Logger) Append(e Entry) {
	parts := []string{
		fmt.Sprintf("%s %s", e.Method, e.Path),
		fmt.Sprintf("Full URL: %s", e.URL),
		fmt.Sprintf("Status: %d", e.Status),
		fmt.Sprintf("Duration: %.2fms", float64(e.Duration.Microseconds())/1000),
	}
	if e.RequestBody != "" {
		parts = append(parts, "Request Body:\n"+prettyJSON(e.RequestBody))
	}
	parts = append(parts, "Response:\n"+prettyJSON(e.ResponseBody))

	record := fmt.Sprintf("[%s]\n%s\n%s\n\n",
		e.Timestamp.Format(time.RFC3339Nano),
		strings.Join(parts, "\n"),
		strings.Repeat("-", 50))

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	if _, err := l.f.WriteString(record); err != nil {
		l.diag.Errorw("failed to append api log entry",
			"method", e.Method,
			"path", e.Path,
			"error", err,
		)
	}
}

// Close releases the file handle. Entries appended afterwards are dropped
// silently.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// prettyJSON indents content that parses as JSON; anything else is returned
// verbatim.
func prettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
