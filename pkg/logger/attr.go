package logger

import (
	"fmt"
	"log/slog"
	"time"
)

// Error records err under "error". Nil errors produce an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Params records scrypt parameters through their String method.
func Params(p fmt.Stringer) slog.Attr {
	return slog.String("params", p.String())
}

// Challenge records a challenge, truncated so base64 blobs stay readable.
func Challenge(c string) slog.Attr {
	const maxLen = 24
	if len(c) > maxLen {
		c = c[:maxLen] + "..."
	}
	return slog.String("challenge", c)
}
