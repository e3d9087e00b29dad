package buildinfo_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/memoapp/internal/buildinfo"
)

func TestInfoString(t *testing.T) {
	c := qt.New(t)
	info := buildinfo.Info{Version: "1.2.0", BuildDate: "2025-05-01", GitCommit: "abc1234"}
	c.Assert(info.String(), qt.Equals, "memo 1.2.0 (commit abc1234, built 2025-05-01)")
	c.Assert(buildinfo.Current().Version, qt.Equals, buildinfo.Version)
}
