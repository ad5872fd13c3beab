// Package pagination implements the keyset cursors used by the storefront's
// history listings (orders, payment history, wishlists). Rows are ordered by
// (created_at, id) and the cursor carries the last row of the previous page.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 25
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100

	cursorFieldSep = "~"
)

// Cursor pins the keyset position after the last row of a page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a client-supplied page size into [1, MaxLimit],
// falling back to DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the row count repositories actually query: one extra row
// reveals whether a next page exists without a second round trip.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes the keyset position into an opaque URL-safe token.
// The timestamp travels as unix nanoseconds so sub-second ordering survives.
func EncodeCursor(cursor Cursor) string {
	token := strconv.FormatInt(cursor.CreatedAt.UTC().UnixNano(), 10) + cursorFieldSep + cursor.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

// ParseCursor reverses EncodeCursor. A blank value means "first page" and
// yields a nil cursor; anything else malformed is an error the caller should
// surface as a validation failure.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("cursor is not valid base64: %w", err)
	}

	nanosText, idText, found := strings.Cut(string(raw), cursorFieldSep)
	if !found {
		return nil, fmt.Errorf("cursor is missing its id component")
	}

	nanos, err := strconv.ParseInt(nanosText, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp is not numeric: %w", err)
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, fmt.Errorf("cursor id is not a uuid: %w", err)
	}

	return &Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}
