package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EncodeCursor creates a URL-safe base64-encoded cursor from a timestamp
// and per-game sequence number. Uses RawURLEncoding for safe use in HTTP
// query parameters.
func EncodeCursor(t time.Time, seq int64) string {
	s := fmt.Sprintf("%s|%d", t.UTC().Format(TimeFormat), seq)
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// decodeCursor parses a base64-encoded cursor into timestamp and sequence.
func decodeCursor(cur string) (time.Time, int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(cur)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: base64 decode failed", ErrInvalidCursor)
	}

	tsStr, seqStr, ok := strings.Cut(string(b), "|")
	if !ok {
		return time.Time{}, 0, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	t, err := time.Parse(TimeFormat, tsStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: invalid timestamp", ErrInvalidCursor)
	}

	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: invalid sequence", ErrInvalidCursor)
	}

	return t, seq, nil
}
