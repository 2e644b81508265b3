package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyLocale     = "locale"
	KeyLocales    = "locales"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyKey        = "key"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCommand    = "command"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Locale(code string) slog.Attr     { return slog.String(KeyLocale, code) }
func Locales(codes []string) slog.Attr { return slog.Any(KeyLocales, codes) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Key(k string) slog.Attr           { return slog.String(KeyKey, k) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Command(argv []string) slog.Attr  { return slog.Any(KeyCommand, argv) }

// DurationMS reports d in fractional milliseconds.
func DurationMS(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
