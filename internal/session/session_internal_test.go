package session

// White-box testing required: expiry depends on the Manager's clock, which is
// an unexported field so tests can move time forward without sleeping.

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func newTestManager(t *testing.T, secret string) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "session.jwt"), []byte(secret), time.Hour)
}

// ---------------------------------------------------------------------------
// SignIn / Current / SignOut
// ---------------------------------------------------------------------------

func TestSignIn_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("signed-in session is active and reports the address", func(c *qt.C) {
		m := newTestManager(t, "secret")
		c.Assert(m.Active(), qt.IsFalse)

		s, err := m.SignIn(" Ada <ada@example.com> ")
		c.Assert(err, qt.IsNil)
		c.Assert(s.Email, qt.Equals, "ada@example.com")

		cur, ok := m.Current()
		c.Assert(ok, qt.IsTrue)
		c.Assert(cur.ID, qt.Equals, s.ID)
		c.Assert(cur.Email, qt.Equals, "ada@example.com")
		c.Assert(m.Active(), qt.IsTrue)

		info, err := os.Stat(m.path)
		c.Assert(err, qt.IsNil)
		c.Assert(info.Mode().Perm(), qt.Equals, os.FileMode(0o600))
	})

	c.Run("sign out closes the gate", func(c *qt.C) {
		m := newTestManager(t, "secret")
		_, err := m.SignIn("ada@example.com")
		c.Assert(err, qt.IsNil)

		removed, err := m.SignOut()
		c.Assert(err, qt.IsNil)
		c.Assert(removed, qt.IsTrue)
		c.Assert(m.Active(), qt.IsFalse)

		removed, err = m.SignOut()
		c.Assert(err, qt.IsNil)
		c.Assert(removed, qt.IsFalse)
	})
}

func TestSignIn_FailurePath(t *testing.T) {
	c := qt.New(t)
	m := newTestManager(t, "secret")
	_, err := m.SignIn("not-an-address")
	c.Assert(err, qt.ErrorIs, ErrInvalidEmail)
	c.Assert(m.Active(), qt.IsFalse)
}

func TestCurrent_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("expired token", func(c *qt.C) {
		m := newTestManager(t, "secret")
		_, err := m.SignIn("ada@example.com")
		c.Assert(err, qt.IsNil)

		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		c.Assert(m.Active(), qt.IsFalse)
	})

	c.Run("token signed with another key", func(c *qt.C) {
		m := newTestManager(t, "secret")
		_, err := m.SignIn("ada@example.com")
		c.Assert(err, qt.IsNil)

		other := NewManager(m.path, []byte("different"), time.Hour)
		c.Assert(other.Active(), qt.IsFalse)
	})

	c.Run("garbage token", func(c *qt.C) {
		m := newTestManager(t, "secret")
		c.Assert(os.WriteFile(m.path, []byte("not.a.jwt"), 0o600), qt.IsNil)
		c.Assert(m.Active(), qt.IsFalse)
	})
}

// ---------------------------------------------------------------------------
// LoadOrCreateKey
// ---------------------------------------------------------------------------

func TestLoadOrCreateKey(t *testing.T) {
	c := qt.New(t)

	c.Run("creates once and reuses", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "nested", "session.key")
		first, err := LoadOrCreateKey(path)
		c.Assert(err, qt.IsNil)
		c.Assert(first, qt.HasLen, 32)

		second, err := LoadOrCreateKey(path)
		c.Assert(err, qt.IsNil)
		c.Assert(second, qt.DeepEquals, first)
	})

	c.Run("malformed key file", func(c *qt.C) {
		path := filepath.Join(t.TempDir(), "session.key")
		c.Assert(os.WriteFile(path, []byte("zz"), 0o600), qt.IsNil)
		_, err := LoadOrCreateKey(path)
		c.Assert(err, qt.ErrorMatches, "LoadOrCreateKey: malformed key file .*")
	})
}
