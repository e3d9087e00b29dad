// Package mcp provides the stdio MCP server exposing memo tools to agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/memoapp/internal/buildinfo"
	"github.com/go-ports/memoapp/internal/categories"
	"github.com/go-ports/memoapp/internal/i18n"
	"github.com/go-ports/memoapp/internal/listing"
	"github.com/go-ports/memoapp/internal/markdown"
	"github.com/go-ports/memoapp/internal/models"
	"github.com/go-ports/memoapp/internal/preview"
	"github.com/go-ports/memoapp/internal/service"
)

const listDescription = `List memos the way the memo list shows them. Supports a keyword query, a category filter and two orders: "recent" (last updated first) and "category" (grouped by first category name, uncategorized last). When nothing is listed, "empty" tells why.` //nolint:lll

const saveDescription = `Create a memo, or update one when id is given. Up to 4 category ids may be assigned; extra ids are dropped. Omitting categories on update keeps the current assignment, an empty list clears it.` //nolint:lll

// defaultListLimit caps memo_list output when no limit is given.
const defaultListLimit = 20

// NewServer creates and registers all memo tools on a new MCP server.
// It is separate from Serve so that tests can obtain a configured server
// without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("memoapp", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for the memo home, blocking until stdin
// closes.
func Serve(_ context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("memo_list",
		mcp.WithDescription(listDescription),
		mcp.WithString("query",
			mcp.Description("Keywords matched against title and content."),
		),
		mcp.WithString("category",
			mcp.Description("Only list memos assigned to this category id."),
		),
		mcp.WithString("sort",
			mcp.Description("List order."),
			mcp.Enum(string(listing.SortRecent), string(listing.SortCategory)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max memos (default 20)"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("memo_get",
		mcp.WithDescription("Get one memo with its categories. Set html to render the content."),
		mcp.WithString("id",
			mcp.Description("Memo id"),
			mcp.Required(),
		),
		mcp.WithBoolean("html",
			mcp.Description("Include the content rendered as HTML."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGet(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("memo_save",
		mcp.WithDescription(saveDescription),
		mcp.WithString("id",
			mcp.Description("Id of the memo to update. Omit to create."),
		),
		mcp.WithString("title",
			mcp.Description("Title, max 160 characters."),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Markdown body."),
		),
		mcp.WithArray("categories",
			mcp.Description("Category ids, at most 4."),
			mcp.WithStringItems(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSave(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("category_list",
		mcp.WithDescription("List the category catalog with its limits."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCategories(svc)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleList(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	res, err := svc.ListMemos(ctx, service.ListOptions{
		Query:      req.GetString("query", ""),
		CategoryID: req.GetString("category", ""),
		Sort:       req.GetString("sort", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items := res.Items
	if len(items) > limit {
		items = items[:limit]
	}
	now := time.Now()
	memos := make([]map[string]any, 0, len(items))
	for _, it := range items {
		memos = append(memos, map[string]any{
			"id":         it.ID,
			"title":      it.Title,
			"preview":    preview.TextOrPlaceholder(svc.Locale, it.Content),
			"categories": categoryIDs(it.Categories),
			"updated":    preview.RelativeTime(svc.Locale, it.UpdatedAt, now),
		})
	}

	out := map[string]any{
		"total":   res.Total,
		"showing": len(memos),
		"memos":   memos,
	}
	if res.Empty != listing.EmptyNone {
		title, hint := i18n.EmptyState(svc.Locale, string(res.Empty))
		out["empty"] = string(res.Empty)
		out["message"] = title + " " + hint
	}
	return jsonResult(out)
}

func handleGet(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := svc.GetMemo(ctx, req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := memoPayload(item)
	if req.GetBool("html", false) {
		html, err := markdown.Render(item.Content)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out["html"] = html
	}
	return jsonResult(out)
}

func handleSave(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := models.MemoInput{
		Title:   req.GetString("title", ""),
		Content: req.GetString("content", ""),
	}
	// A missing argument keeps the assignment; a present one replaces it.
	var ids []string
	if _, ok := req.GetArguments()["categories"]; ok {
		ids = req.GetStringSlice("categories", make([]string, 0))
	}

	var (
		item   *listing.Item
		err    error
		action = "created"
	)
	if id := req.GetString("id", ""); id != "" {
		action = "updated"
		item, err = svc.UpdateMemo(ctx, id, in, ids)
	} else {
		item, err = svc.CreateMemo(ctx, in, ids)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := memoPayload(item)
	out["action"] = action
	return jsonResult(out)
}

func handleCategories(svc *service.Service) (*mcp.CallToolResult, error) {
	list := svc.Categories.Load()
	return jsonResult(map[string]any{
		"categories":     list,
		"limit":          categories.Limit,
		"remaining":      max(categories.Limit-len(list), 0),
		"per_memo_limit": categories.PerMemoLimit,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func memoPayload(item *listing.Item) map[string]any {
	return map[string]any{
		"id":         item.ID,
		"title":      item.Title,
		"content":    item.Content,
		"categories": categoryIDs(item.Categories),
		"created_at": formatTime(item.CreatedAt),
		"updated_at": formatTime(item.UpdatedAt),
	}
}

func categoryIDs(cats []categories.Category) []string {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
