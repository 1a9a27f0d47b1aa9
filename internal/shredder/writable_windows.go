//go:build windows

package shredder

import "os"

// ensureWritable clears the read-only attribute on the entry so the overwrite
// pass can open the file. os.Chmod maps the owner-write bit onto
// FILE_ATTRIBUTE_READONLY on Windows. Best effort: failures are swallowed and
// surface later as open errors.
func ensureWritable(path string) {
	st, err := os.Lstat(path)
	if err != nil || !st.Mode().IsRegular() {
		return
	}
	_ = os.Chmod(path, st.Mode().Perm()|0o200)
}
