package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyLoadID     = "load_id"
	KeyPhase      = "phase"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyFragment   = "fragment"
	KeyStatus     = "status"
	KeyKey        = "key"
	KeyValue      = "value"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func LoadID(id string) slog.Attr       { return slog.String(KeyLoadID, id) }
func Phase(name string) slog.Attr      { return slog.String(KeyPhase, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Fragment(f string) slog.Attr      { return slog.String(KeyFragment, f) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Key(k string) slog.Attr           { return slog.String(KeyKey, k) }
func Value(v string) slog.Attr         { return slog.String(KeyValue, v) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
