package shredder

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	ignore "github.com/sabhiram/go-gitignore"
)

// ConfirmFunc is the external collaborator consulted before anything
// destructive happens to a target. It receives a human readable question
// naming the target and its kind, and returns true if the run may proceed. A
// declined target (and, for a directory, its entire subtree) is skipped
// without error.
type ConfirmFunc func(question string) bool

// Opts configures a Shredder for one invocation. The pattern and pass count
// apply to every file touched during the run.
type Opts struct {
	// Passes is the number of full overwrite passes written to each file.
	// Non-positive values are clamped to 1.
	Passes int

	Pattern Pattern

	// Confirm, when non-nil, is asked once per dispatched target before any
	// destructive action.
	Confirm ConfirmFunc

	// Exclude holds gitignore style patterns, matched against paths relative
	// to the processed directory, naming entries that must survive a
	// recursive run.
	Exclude []string

	// PassPause is slept after each completed pass, purely to keep progress
	// output legible to a human observer. Zero disables it.
	PassPause time.Duration

	// Rand is the source used for random fill chunks and anonymized filenames.
	// It defaults to crypto/rand.Reader; tests substitute a deterministic
	// reader.
	Rand io.Reader
}

// Shredder drives the overwrite passes, the rename-before-unlink protocol and
// the recursive traversal for a single invocation. It is strictly
// single-threaded: every operation executes in sequence on one control path.
type Shredder struct {
	passes    int
	pattern   Pattern
	confirm   ConfirmFunc
	exclude   *ignore.GitIgnore
	passPause time.Duration
	rand      io.Reader

	// Constant fill buffers, allocated once so constant-pattern chunks are
	// plain re-slices.
	zeros []byte
	ones  []byte

	// remove unlinks a single entry (file or emptied directory). Tests
	// substitute it to exercise failure paths that cannot be provoked
	// reliably on a real filesystem.
	remove func(string) error
}

func New(opts Opts) *Shredder {
	s := &Shredder{
		passes:    opts.Passes,
		pattern:   opts.Pattern,
		confirm:   opts.Confirm,
		passPause: opts.PassPause,
		rand:      opts.Rand,
		remove:    os.Remove,
	}
	if s.passes < 1 {
		s.passes = 1
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}
	if len(opts.Exclude) > 0 {
		s.exclude = ignore.CompileIgnoreLines(opts.Exclude...)
	}
	switch s.pattern {
	case PatternZeros:
		s.zeros = make([]byte, ChunkSize)
	case PatternOnes:
		s.ones = bytes.Repeat([]byte{0xFF}, ChunkSize)
	}
	return s
}

// Passes returns the effective pass count after clamping.
func (s *Shredder) Passes() int {
	return s.passes
}

// Process applies the secure deletion protocol to the given target. A file is
// overwritten and then obliviously removed; a directory is destroyed
// recursively, depth-first, and removed once empty. This is the single point
// where the confirmation collaborator is consulted.
func (s *Shredder) Process(path string) error {
	st, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(ErrCodeNotFound, path, err)
		}
		return newIOError("lstat", path, err)
	}

	if st.IsDir() {
		if !s.confirmed(fmt.Sprintf("Recursively and securely delete directory %q?", path)) {
			s.log(path).Info("directory skipped, confirmation declined")
			return nil
		}
		return s.processDirectory(path)
	}

	if !s.confirmed(fmt.Sprintf("Securely delete file %q?", path)) {
		s.log(path).Info("file skipped, confirmation declined")
		return nil
	}
	return s.shredEntry(path, st.Mode().IsRegular())
}

// shredEntry destroys a single directory entry. Only regular files get their
// content overwritten: writing through a symlink would destroy the target's
// data rather than the link, and opening a fifo for writing blocks. Everything
// still goes through the oblivious removal protocol.
func (s *Shredder) shredEntry(path string, regular bool) error {
	ensureWritable(path)
	if regular {
		if err := s.overwrite(path); err != nil {
			return err
		}
	} else {
		s.log(path).Debug("not a regular file, removing without overwrite")
	}
	return s.destroy(path)
}

func (s *Shredder) confirmed(question string) bool {
	if s.confirm == nil {
		return true
	}
	return s.confirm(question)
}

// Generates a log entry tagged for this subsystem and path.
func (s *Shredder) log(path string) *log.Entry {
	return log.WithField("subsystem", "shredder").WithField("path", path)
}
