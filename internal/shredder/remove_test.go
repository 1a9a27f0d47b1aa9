package shredder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/franela/goblin"
)

func TestShredder_Destroy(t *testing.T) {
	g := Goblin(t)

	g.Describe("destroy", func() {
		var root string

		g.BeforeEach(func() {
			root = tmpRoot()
		})

		g.AfterEach(func() {
			_ = os.RemoveAll(root)
		})

		g.It("removes the file and leaves nothing behind", func() {
			p := filepath.Join(root, "secret.txt")
			mkTree(root, map[string][]byte{"secret.txt": []byte("x")})

			s := New(Opts{})
			g.Assert(s.destroy(p)).IsNil()

			entries, err := os.ReadDir(root)
			g.Assert(err).IsNil()
			g.Assert(len(entries)).Equal(0)
		})

		g.It("falls back to the original name when every rename attempt collides", func() {
			p := filepath.Join(root, "victim.txt")
			mkTree(root, map[string][]byte{"victim.txt": []byte("x")})

			// A constant random source makes every candidate identical:
			// max(8, len("victim.txt")) = 10 'a' characters plus the original
			// extension. Pre-creating that entry forces all eight collisions.
			collider := filepath.Join(root, strings.Repeat("a", 10)+".txt")
			mkTree(root, map[string][]byte{filepath.Base(collider): []byte("occupied")})

			s := New(Opts{Rand: deterministicReader{b: 0}})
			g.Assert(s.destroy(p)).IsNil()

			g.Assert(exists(p)).IsFalse()
			g.Assert(exists(collider)).IsTrue()
		})

		g.It("preserves the original extension on the anonymized name", func() {
			name, err := New(Opts{Rand: deterministicReader{b: 0}}).anonymizedName(len("victim.txt"), ".txt")
			g.Assert(err).IsNil()
			g.Assert(name).Equal(strings.Repeat("a", 10) + ".txt")
		})

		g.It("carries no extension over from a dotfile name", func() {
			g.Assert(entryExt(".bashrc")).Equal("")
			g.Assert(entryExt("victim.txt")).Equal(".txt")
			g.Assert(entryExt("archive.tar.gz")).Equal(".gz")
			g.Assert(entryExt("noext")).Equal("")

			name, err := New(Opts{Rand: deterministicReader{b: 0}}).anonymizedName(len(".bashrc"), entryExt(".bashrc"))
			g.Assert(err).IsNil()
			g.Assert(name).Equal(strings.Repeat("a", 8))
			g.Assert(strings.Contains(name, "bashrc")).IsFalse()
		})

		g.It("reports a residual entry when removal fails after a successful rename", func() {
			p := filepath.Join(root, "victim.txt")
			mkTree(root, map[string][]byte{"victim.txt": []byte("x")})

			s := New(Opts{})
			s.remove = func(string) error { return os.ErrPermission }

			err := s.destroy(p)
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodeResidualEntry)).IsTrue()

			// The entry survived under its anonymized name, not the original.
			entries, rerr := os.ReadDir(root)
			g.Assert(rerr).IsNil()
			g.Assert(len(entries)).Equal(1)
			g.Assert(entries[0].Name() == "victim.txt").IsFalse()
		})

		g.It("pads short names up to eight characters", func() {
			name, err := New(Opts{Rand: deterministicReader{b: 0}}).anonymizedName(len("f"), "")
			g.Assert(err).IsNil()
			g.Assert(name).Equal(strings.Repeat("a", 8))
		})

		g.It("errors with a not found code for a vanished file", func() {
			s := New(Opts{})
			err := s.destroy(filepath.Join(root, "gone.txt"))
			g.Assert(err).IsNotNil()
			g.Assert(IsErrorCode(err, ErrCodeNotFound)).IsTrue()
		})
	})
}
