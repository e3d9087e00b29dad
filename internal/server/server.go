// Package server exposes the memo list over a small read-only HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/go-ports/memoapp/internal/buildinfo"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/markdown"
	"github.com/go-ports/memoapp/internal/preview"
	"github.com/go-ports/memoapp/internal/service"
)

// localeKey is the echo context key holding the request locale.
const localeKey = "locale"

// cookieMaxAge keeps the locale cookie for one year.
const cookieMaxAge = 365 * 24 * 60 * 60

// Server serves the HTTP API for one memo service.
type Server struct {
	echo *echo.Echo
	svc  *service.Service
	now  func() time.Time
}

// New builds the API and registers its routes.
func New(svc *service.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, svc: svc, now: time.Now}
	e.Use(middleware.Recover())
	e.Use(localeMiddleware)

	api := e.Group("/api")
	api.GET("/health", s.health)
	api.GET("/memos", s.listMemos)
	api.GET("/memos/:id", s.showMemo)
	api.GET("/categories", s.listCategories)
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server.Start: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Start: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// localeMiddleware resolves the request locale from the locale cookie and
// sets the cookie to the default locale when it is missing.
func localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		loc := i18n.Default
		if cookie, err := c.Cookie(i18n.CookieName); err == nil && cookie.Value != "" {
			if parsed, ok := i18n.Parse(cookie.Value); ok {
				loc = parsed
			}
		} else {
			c.SetCookie(&http.Cookie{
				Name:     i18n.CookieName,
				Value:    string(i18n.Default),
				Path:     "/",
				MaxAge:   cookieMaxAge,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(localeKey, loc)
		return next(c)
	}
}

func localeOf(c echo.Context) i18n.Locale {
	if loc, ok := c.Get(localeKey).(i18n.Locale); ok {
		return loc
	}
	return i18n.Default
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	if err := s.svc.Ping(c.Request().Context()); err != nil {
		slog.Error("health: database unreachable", "err", err)
		return c.JSON(http.StatusInternalServerError, healthResponse{
			Status:   "error",
			Database: "unreachable",
			Version:  buildinfo.Version,
			Message:  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "connected",
		Version:  buildinfo.Version,
	})
}

type memoSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Preview    string                `json:"preview"`
	Categories []categories.Category `json:"categories"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Updated    string                `json:"updated"`
}

type emptyMessage struct {
	State string `json:"state"`
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

type listResponse struct {
	Memos []memoSummary `json:"memos"`
	Total int           `json:"total"`
	Empty *emptyMessage `json:"empty,omitempty"`
}

func (s *Server) listMemos(c echo.Context) error {
	res, err := s.svc.ListMemos(c.Request().Context(), service.ListOptions{
		Query:      c.QueryParam("q"),
		CategoryID: c.QueryParam("category"),
		Sort:       c.QueryParam("sort"),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	loc := localeOf(c)
	now := s.now()
	out := listResponse{Memos: make([]memoSummary, 0, len(res.Items)), Total: res.Total}
	for _, it := range res.Items {
		out.Memos = append(out.Memos, memoSummary{
			ID:         it.ID,
			Title:      it.Title,
			Preview:    preview.TextOrPlaceholder(loc, it.Content),
			Categories: it.Categories,
			UpdatedAt:  it.UpdatedAt,
			Updated:    preview.RelativeTime(loc, it.UpdatedAt, now),
		})
	}
	if res.Empty != listing.EmptyNone {
		title, hint := i18n.EmptyState(loc, string(res.Empty))
		out.Empty = &emptyMessage{State: string(res.Empty), Title: title, Hint: hint}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) showMemo(c echo.Context) error {
	item, err := s.svc.GetMemo(c.Request().Context(), c.Param("id"))
	if errors.Is(err, service.ErrMemoNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	body, err := markdown.Render(item.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTML(http.StatusOK, "<article><h1>"+html.EscapeString(item.Title)+"</h1>\n"+body+"</article>")
}

type categoriesResponse struct {
	Categories   []categories.Category `json:"categories"`
	Limit        int                   `json:"limit"`
	Remaining    int                   `json:"remaining"`
	PerMemoLimit int                   `json:"per_memo_limit"`
}

func (s *Server) listCategories(c echo.Context) error {
	list := s.svc.Categories.Load()
	return c.JSON(http.StatusOK, categoriesResponse{
		Categories:   list,
		Limit:        categories.Limit,
		Remaining:    max(categories.Limit-len(list), 0),
		PerMemoLimit: categories.PerMemoLimit,
	})
}
