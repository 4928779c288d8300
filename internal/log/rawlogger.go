package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// RawLogger dumps rendered source units verbatim.
type RawLogger interface {
	Log(name string, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a timestamped header followed by data, each line prefixed with
// its line number.
func (r *rawLogger) Log(name string, data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s: %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		name,
		len(data))
	for i, line := range bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n")) {
		fmt.Fprintf(&buf, "%4d | %s\n", i+1, line)
	}

	r.mu.Lock()
	_, _ = r.w.Write(buf.Bytes())
	r.mu.Unlock()
}

// SetupRaw picks the raw unit dump target: rawFile when set, stderr at trace
// level, otherwise nowhere. The returned closer is nil unless a file was
// opened. On error a no-op logger is returned alongside it.
func SetupRaw(logLevel, rawFile string) (RawLogger, io.Closer, error) {
	switch {
	case rawFile != "":
		f, err := os.OpenFile(rawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return NewRaw(nil), nil, err
		}
		return NewRaw(f), f, nil
	case ParseLevel(logLevel) <= LevelTrace:
		return NewRaw(os.Stderr), nil, nil
	default:
		return NewRaw(nil), nil, nil
	}
}
