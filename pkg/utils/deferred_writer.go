package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter buffers all writes in memory until Flush is called. It holds
// notices produced while a full-screen program owns the terminal.
// Safe for concurrent use.
type DeferredWriter struct {
	// Limit caps the buffered bytes. Zero means unlimited. Bytes past the
	// limit are dropped and counted.
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write stores data in the internal buffer. It never fails; data over the
// limit is discarded.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	keep := p
	if d.Limit > 0 {
		room := max(d.Limit-d.buf.Len(), 0)
		if len(keep) > room {
			d.dropped += len(keep) - room
			keep = keep[:room]
		}
	}
	d.buf.Write(keep)
	return len(p), nil
}

// Len returns the number of buffered bytes.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Flush writes all buffered data to w and clears the buffer. When data was
// dropped a trailing note says how much.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := d.dropped
	d.dropped = 0

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if dropped > 0 {
		if _, err := fmt.Fprintf(w, "(%d bytes of output dropped)\n", dropped); err != nil {
			return err
		}
	}
	return nil
}
