// Package models defines the core data types for memos.
package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum memo title length in characters.
const MaxTitleLength = 160

// Validation errors returned by ValidateMemoInput and the memo operations.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title must be at most 160 characters")
	ErrMemoIDRequired = errors.New("memo id is required")
)

// MemoInput is the caller-supplied data for creating or updating a memo.
type MemoInput struct {
	Title   string
	Content string
}

// Memo is a persisted memo record. An empty Content means the memo has no body.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateMemoInput trims the input and checks the title constraints.
// The returned input is what gets persisted.
func ValidateMemoInput(in MemoInput) (MemoInput, error) {
	out := MemoInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
	if out.Title == "" {
		return out, ErrTitleRequired
	}
	if utf8.RuneCountInString(out.Title) > MaxTitleLength {
		return out, ErrTitleTooLong
	}
	return out, nil
}

// NewMemo builds a memo with a fresh ID from validated input.
func NewMemo(in MemoInput, now time.Time) *Memo {
	now = now.UTC()
	return &Memo{
		ID:        NewMemoID(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewMemoID returns a random UUID v4 string.
func NewMemoID() string {
	return uuid.NewString()
}
