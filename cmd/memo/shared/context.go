// Package shared holds the context passed to all CLI commands.
package shared

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/config"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/preview"
	"github.com/go-ports/memoapp/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the memo home directory.
	// When empty, resolution falls through to MEMOAPP_HOME env var → persisted config → ~/.memoapp.
	Home string
	// Locale overrides the configured locale for messages.
	Locale string
}

// HomeDir returns the memo home selected by the flag or by config.GetHome.
func (c *Context) HomeDir() string {
	if c.Home != "" {
		return c.Home
	}
	return config.GetHome()
}

// Open starts a service for the selected home with the locale override
// applied. The caller must Close it.
func (c *Context) Open() (*service.Service, error) {
	svc, err := service.New(c.HomeDir())
	if err != nil {
		return nil, err
	}
	if c.Locale != "" {
		svc.Locale = i18n.Match(c.Locale)
	}
	return svc, nil
}

// CategoryNames joins the names of cats for display, or "-" when empty.
func CategoryNames(cats []categories.Category) string {
	if len(cats) == 0 {
		return "-"
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// PrintList writes a computed memo list, or its localized empty state.
// Relative times are measured from now.
func PrintList(out io.Writer, locale i18n.Locale, res listing.Result, now time.Time) {
	if res.Empty != listing.EmptyNone {
		title, hint := i18n.EmptyState(locale, string(res.Empty))
		fmt.Fprintln(out, title)
		fmt.Fprintln(out, hint)
		return
	}
	for i, it := range res.Items {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %s\n", it.ID, it.Title)
		fmt.Fprintf(out, "    [%s] %s\n", CategoryNames(it.Categories), preview.RelativeTime(locale, it.UpdatedAt, now))
		fmt.Fprintf(out, "    %s\n", preview.TextOrPlaceholder(locale, it.Content))
	}
}

// SignInHint adds the localized sign-in hint to service.ErrSignInRequired.
// Other errors are returned unchanged.
func SignInHint(svc *service.Service, err error) error {
	if !errors.Is(err, service.ErrSignInRequired) {
		return err
	}
	return fmt.Errorf("%w (%s Run `memo signin --email <address>`.)", err, i18n.T(svc.Locale, i18n.SignInRequired))
}

// ReadContent resolves a memo body from either the literal flag value or a
// file path.
func ReadContent(content, file string) (string, error) {
	if content != "" && file != "" {
		return "", fmt.Errorf("use either --content or --content-file, not both")
	}
	if file == "" {
		return content, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %q: %w", file, err)
	}
	return string(data), nil
}
