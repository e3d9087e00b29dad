package servecmd

// White-box testing required: the listen address is set on the unexported
// addr field so the test can point the command at a port that is already
// taken.

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.uber.org/goleak"

	"github.com/go-ports/memoapp/cmd/memo/shared"
)

func TestRun_ListenFailureStopsWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := qt.New(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	c.Assert(err, qt.IsNil)
	defer ln.Close()

	home := t.TempDir()
	err = os.WriteFile(filepath.Join(home, "config.yaml"), []byte("watch:\n  interval: 10ms\n"), 0o600)
	c.Assert(err, qt.IsNil)

	cmd := New(&shared.Context{Home: home})
	cmd.addr = ln.Addr().String()
	cmd.Cmd().SetOut(io.Discard)
	cmd.Cmd().SetErr(io.Discard)
	cmd.Cmd().SetArgs([]string{})

	err = cmd.Cmd().ExecuteContext(context.Background())
	c.Assert(err, qt.ErrorMatches, "server.Start: .*")
}
