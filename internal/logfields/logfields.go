package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyUID        = "uid"
	KeyKind       = "kind"
	KeyNamespace  = "namespace"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyRunID      = "run_id"
	KeyReference  = "reference"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func UID(uid string) slog.Attr        { return slog.String(KeyUID, uid) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Namespace(ns string) slog.Attr   { return slog.String(KeyNamespace, ns) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Reference(ref string) slog.Attr  { return slog.String(KeyReference, ref) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
