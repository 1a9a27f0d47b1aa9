package shredder

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/karrick/godirwalk"
)

// processDirectory destroys every entry under root depth-first and removes
// each directory once all of its children are gone; root itself is removed
// last (post-order, so a directory is never removed while it may still
// contain entries). Traversal order within a directory is whatever the
// filesystem returns.
//
// The first error from any child aborts the remainder of the traversal;
// already-processed subtrees stay deleted, there is no rollback.
func (s *Shredder) processDirectory(root string) error {
	var excluded int

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(p string, de *godirwalk.Dirent) error {
			if s.isExcluded(root, p) {
				excluded++
				s.log(p).Debug("entry excluded from destruction")
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			return s.shredEntry(p, de.IsRegular())
		},
		PostChildrenCallback: func(p string, de *godirwalk.Dirent) error {
			if s.isExcluded(root, p) {
				return nil
			}
			if err := s.remove(p); err != nil {
				// A directory that still has entries is expected when
				// exclusions are in play; retain it rather than fail the run.
				// Anything else (a permission failure, say) is a real error
				// even while exclusions are active.
				if excluded > 0 && dirHasEntries(p) {
					s.log(p).WithField("error", err).Warn("directory retained, contains excluded entries")
					return nil
				}
				return newIOError("rmdir", p, err)
			}
			s.log(p).Debug("removed directory")
			return nil
		},
	})
	return errors.WithStackIf(err)
}

func dirHasEntries(p string) bool {
	entries, err := os.ReadDir(p)
	return err == nil && len(entries) > 0
}

// isExcluded matches the entry, relative to the processed root, against the
// configured denylist patterns. The root itself is never excluded.
func (s *Shredder) isExcluded(root, p string) bool {
	if s.exclude == nil || p == root {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return s.exclude.MatchesPath(rel)
}
