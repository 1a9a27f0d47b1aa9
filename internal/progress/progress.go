package progress

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/scrub-sh/scrub/system"
)

// Progress tracks how much of the planned overwrite work for one file has been
// completed, cumulatively across every pass.
type Progress struct {
	// written is the total number of bytes forwarded to the writer so far.
	written uint64
	// total is the planned amount of work in bytes, typically the file size
	// multiplied by the pass count.
	total uint64

	// Writer is the destination writes are forwarded to, normally the open
	// handle of the file being overwritten.
	Writer io.Writer
}

// NewProgress returns a tracker for the given total amount of work in bytes.
func NewProgress(total uint64) *Progress {
	return &Progress{total: total}
}

// Written returns the total number of bytes written so far.
func (p *Progress) Written() uint64 {
	return atomic.LoadUint64(&p.written)
}

// Total returns the planned amount of work in bytes.
func (p *Progress) Total() uint64 {
	return atomic.LoadUint64(&p.total)
}

// Write forwards to the underlying writer and totals the bytes that were
// actually written.
func (p *Progress) Write(v []byte) (int, error) {
	if p.Writer == nil {
		atomic.AddUint64(&p.written, uint64(len(v)))
		return len(v), nil
	}
	n, err := p.Writer.Write(v)
	atomic.AddUint64(&p.written, uint64(n))
	return n, err
}

// String renders a fixed-width progress bar alongside the written and total
// byte counts.
func (p *Progress) String(width int) string {
	current := p.Written()
	total := p.Total()

	widthPercentage := float64(100) / float64(width)
	percentage := float64(current) / float64(total) * 100
	ticks := int(percentage / widthPercentage)

	// Clamp the tick count so strings.Repeat cannot panic when the total is
	// inaccurate (or zero).
	if ticks < 0 {
		ticks = 0
	} else if ticks > width {
		ticks = width
	}

	bar := strings.Repeat("=", ticks) + strings.Repeat(" ", width-ticks)
	return "[" + bar + "] " + system.FormatBytes(current) + " / " + system.FormatBytes(total)
}
