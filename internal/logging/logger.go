package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/ooor/pkg/domain"
)

const redacted = "[REDACTED]"

// New creates a configured application logger writing text to Stderr.
// It standardizes common keys (e.g., "error" -> "err") and never prints passwords.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, options(level)))
}

// NewJSON is like New but emits JSON lines, for log shippers.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, options(level)))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// rubyLevels maps the numeric severities of Ruby's Logger (FATAL collapses to error).
var rubyLevels = map[string]slog.Level{
	"0": slog.LevelDebug,
	"1": slog.LevelInfo,
	"2": slog.LevelWarn,
	"3": slog.LevelError,
	"4": slog.LevelError,
}

// ParseLevel reads a level name ("debug", "INFO", "warn+2"...) or a numeric
// severity from 0 (debug) to 4 (fatal).
func ParseLevel(s string) (slog.Level, error) {
	if l, ok := rubyLevels[strings.TrimSpace(s)]; ok {
		return l, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

func options(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	if strings.EqualFold(a.Key, domain.KeyPassword) && a.Value.String() != "" {
		a.Value = slog.StringValue(redacted)
	}
	return a
}
