//go:build !windows

package shredder

import "os"

// ensureWritable adds the owner-write bit to the entry when it is missing so
// the overwrite pass can open the file. This is best effort: failures are
// swallowed and surface later as open errors, which carry far more context.
func ensureWritable(path string) {
	st, err := os.Lstat(path)
	if err != nil || !st.Mode().IsRegular() {
		return
	}
	if st.Mode().Perm()&0o200 != 0 {
		return
	}
	_ = os.Chmod(path, st.Mode().Perm()|0o200)
}
