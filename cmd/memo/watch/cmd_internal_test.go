package watchcmd

// White-box testing required: follow is unexported, and the command clock
// (c.now) is replaced so the printed relative times do not depend on when the
// test runs.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/memoapp/cmd/memo/shared"
	"github.com/go-ports/memoapp/internal/models"
	"github.com/go-ports/memoapp/internal/service"
)

// lockedBuffer is written by the dispatcher goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func openService(t *testing.T, home string) *service.Service {
	t.Helper()
	svc, err := (&shared.Context{Home: home}).Open()
	if err != nil {
		t.Fatalf("openService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if _, err := svc.Sessions.SignIn("watcher@example.com"); err != nil {
		t.Fatalf("openService: sign in: %v", err)
	}
	return svc
}

func newWatchCommand(home, categoryID string) *Command {
	cmd := New(&shared.Context{Home: home})
	cmd.categoryID = categoryID
	cmd.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return cmd
}

func createMemo(c *qt.C, svc *service.Service, title string, categoryIDs []string) string {
	c.TB.Helper()
	item, err := svc.CreateMemo(context.Background(), models.MemoInput{Title: title}, categoryIDs)
	c.Assert(err, qt.IsNil)
	return item.ID
}

func TestFollow_ReprintsOnLocalChanges(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	home := t.TempDir()
	svc := openService(t, home)

	createMemo(c, svc, "Tagged idea", []string{"idea"})
	plainID := createMemo(c, svc, "Plain memo", nil)

	memos, err := svc.SearchMemos(ctx, "")
	c.Assert(err, qt.IsNil)

	var out lockedBuffer
	view := newWatchCommand(home, "idea").follow(svc, memos, &out)
	defer view.Close()

	c.Assert(out.String(), qt.Contains, "Tagged idea")
	c.Assert(out.String(), qt.Not(qt.Contains), "Plain memo")

	out.Reset()
	c.Assert(svc.Associations.SetCategories(plainID, []string{"idea"}), qt.IsNil)
	svc.Events.Sync()

	got := out.String()
	c.Assert(got, qt.Contains, "--- 12:00:00 ---")
	c.Assert(got, qt.Contains, "Tagged idea")
	c.Assert(got, qt.Contains, "Plain memo")
}

func TestFollow_StopsAfterClose(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	svc := openService(t, home)
	id := createMemo(c, svc, "Closed view", nil)

	var out lockedBuffer
	view := newWatchCommand(home, "").follow(svc, nil, &out)
	view.Close()

	out.Reset()
	c.Assert(svc.Associations.SetCategories(id, []string{"work"}), qt.IsNil)
	svc.Events.Sync()
	c.Assert(out.String(), qt.Equals, "")
}

func TestFollow_ReprintsOnChangesFromAnotherProcess(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("watch:\n  interval: 10ms\n"), 0o600)
	c.Assert(err, qt.IsNil)

	watcher := openService(t, home)
	other := openService(t, home)
	id := createMemo(c, other, "Shared memo", nil)

	memos, err := watcher.SearchMemos(context.Background(), "")
	c.Assert(err, qt.IsNil)

	var out lockedBuffer
	view := newWatchCommand(home, "work").follow(watcher, memos, &out)
	defer view.Close()
	c.Assert(out.String(), qt.Not(qt.Contains), "Shared memo")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()
	defer func() {
		cancel()
		c.Assert(<-done, qt.IsNil)
	}()

	c.Assert(other.Associations.SetCategories(id, []string{"work"}), qt.IsNil)

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "Shared memo") {
		if time.Now().After(deadline) {
			c.Fatalf("list was not reprinted; output:\n%s", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
