package shredder

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/cenkalti/backoff/v4"
)

const (
	// renameAttempts bounds how many randomized candidates are tried before
	// falling back to removing the file under its original name.
	renameAttempts = 8

	nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// destroy unlinks the file after first renaming it, within its parent
// directory, to a random name, so that directory-entry recovery tools cannot
// associate the original filename with the destroyed content. The caller must
// have released any write handle on the path before calling this.
//
// Exhausting every rename attempt downgrades to removal under the original
// name with a warning rather than failing: the content was already destroyed,
// and the original name remaining visible in directory journals is a weaker
// but acceptable outcome.
func (s *Shredder) destroy(path string) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := entryExt(base)

	target := path
	renamed := false

	// Small randomized delay between collision retries to reduce the odds of
	// colliding again with whatever produced the first collision.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 100 * time.Millisecond

	for attempt := 0; attempt < renameAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(bo.NextBackOff())
		}

		name, err := s.anonymizedName(len(base), ext)
		if err != nil {
			return err
		}
		candidate := filepath.Join(dir, name)

		// os.Rename silently replaces an existing file on most platforms, so a
		// collision has to be detected before renaming onto it.
		if _, err := os.Lstat(candidate); err == nil || !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.Rename(path, candidate); err != nil {
			continue
		}

		target = candidate
		renamed = true
		break
	}

	if renamed {
		// Clamp visibility on the entry for the instant it exists under the
		// anonymized name. Best effort only, and never through a symlink since
		// os.Chmod would follow it to the target.
		if st, err := os.Lstat(target); err == nil && st.Mode().IsRegular() {
			_ = os.Chmod(target, 0o600)
		}
		s.log(path).WithField("renamed", filepath.Base(target)).Debug("entry renamed prior to removal")
	} else {
		s.log(path).WithField("warning", string(ErrCodeRenameExhausted)).
			Warn("exhausted randomized rename attempts, removing under original name")
	}

	if err := s.remove(target); err != nil {
		if !renamed && errors.Is(err, os.ErrNotExist) {
			return newError(ErrCodeNotFound, path, err)
		}
		return newError(ErrCodeResidualEntry, target, err)
	}
	return nil
}

// entryExt returns the extension to carry over onto the anonymized name. A
// leading-dot name like ".bashrc" is all extension according to filepath.Ext;
// carrying that over would embed the original filename verbatim in the
// renamed entry, so such names get no extension at all.
func entryExt(base string) string {
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}

// anonymizedName produces an ephemeral random filename of max(8, n)
// alphanumeric characters. The original extension is preserved so the rename
// does not change apparent type handling on platforms that sniff extensions;
// this is cosmetic, not security relevant.
func (s *Shredder) anonymizedName(n int, ext string) (string, error) {
	if n < 8 {
		n = 8
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.rand, b); err != nil {
		return "", errors.Wrap(err, "shredder: failed to read from random source")
	}

	var sb strings.Builder
	sb.Grow(n + len(ext))
	for _, c := range b {
		sb.WriteByte(nameAlphabet[int(c)%len(nameAlphabet)])
	}
	sb.WriteString(ext)
	return sb.String(), nil
}
