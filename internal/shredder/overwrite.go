package shredder

import (
	"fmt"
	"io"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/scrub-sh/scrub/internal/progress"
	"github.com/scrub-sh/scrub/system"
)

// overwrite writes the configured number of full passes of fill data over the
// file's current extent. The extent is never truncated or extended, only its
// content changes. A pass only counts as complete once its bytes have been
// flushed to stable storage, so a crash cannot leave unflushed data
// masquerading as a finished pass.
//
// Any I/O failure aborts the whole overwrite immediately; there is no
// partial-pass retry. The write handle is closed before the caller moves on to
// removal.
func (s *Shredder) overwrite(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(ErrCodeNotFound, path, err)
		}
		return newIOError("stat", path, err)
	}
	if st.IsDir() {
		return newError(ErrCodeIsDirectory, path, nil)
	}

	size := st.Size()
	if size == 0 {
		s.log(path).Debug("file is empty, no data to destroy")
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return newIOError("open", path, err)
	}
	defer f.Close()

	// Track cumulative bytes across all passes through the progress writer so
	// the per-pass log lines can report totals.
	p := progress.NewProgress(uint64(size) * uint64(s.passes))
	p.Writer = f

	start := time.Now()
	for pass := 1; pass <= s.passes; pass++ {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return newIOError("seek", path, err)
		}

		remaining := size
		for remaining > 0 {
			n := remaining
			if n > ChunkSize {
				n = ChunkSize
			}
			b, err := s.chunk(n)
			if err != nil {
				return err
			}
			if _, err := p.Write(b); err != nil {
				return newIOError("write", path, err)
			}
			remaining -= n
		}

		if err := f.Sync(); err != nil {
			return newIOError("sync", path, err)
		}

		s.log(path).WithFields(log.Fields{
			"pass":    fmt.Sprintf("%d/%d", pass, s.passes),
			"written": system.FormatBytes(p.Written()),
			"elapsed": time.Since(start).Round(time.Millisecond).String(),
		}).Info("overwrite pass complete")
		s.log(path).WithField("progress", p.String(24)).Debug("overwrite progress")

		if s.passPause > 0 {
			time.Sleep(s.passPause)
		}
	}

	return nil
}
