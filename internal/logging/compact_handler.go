package logging

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CompactHandler writes one line per record for a terminal:
//
//	[INFO]  15:04:05 converted graph | run=1a2b3c4d triples=12 duration=3ms
//
// Attributes bound with WithAttrs are rendered once, when they are bound.
type CompactHandler struct {
	level  slog.Leveler
	mu     *sync.Mutex
	out    io.Writer
	bound  []byte // pre-rendered " key=value" pairs from WithAttrs
	prefix string // dotted group path, e.g. "stats."
}

// NewCompactHandler returns a handler writing to w. A nil opts logs at info.
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	h := &CompactHandler{level: slog.LevelInfo, mu: &sync.Mutex{}, out: w}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, levelLabel(r.Level)...)
	if !r.Time.IsZero() {
		buf = r.Time.AppendFormat(buf, "15:04:05")
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Message...)

	var attrs []byte
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendAttr(attrs, h.prefix, a)
		return true
	})
	if len(h.bound) > 0 || len(attrs) > 0 {
		buf = append(buf, " |"...)
		buf = append(buf, h.bound...)
		buf = append(buf, attrs...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.bound = slices.Clip(h.bound)
	for _, a := range attrs {
		clone.bound = appendAttr(clone.bound, h.prefix, a)
	}
	return &clone
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// levelLabel pads the level so messages line up.
func levelLabel(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "[DEBUG] "
	case slog.LevelInfo:
		return "[INFO]  "
	case slog.LevelWarn:
		return "[WARN]  "
	case slog.LevelError:
		return "[ERROR] "
	}
	return "[" + l.String() + "] "
}

// shortForms replace key=value for keys the commands log on every run.
// They apply to ungrouped attributes only.
var shortForms = map[string]func(buf []byte, v slog.Value) []byte{
	string(runIDKey): func(buf []byte, v slog.Value) []byte {
		id := v.String()
		if len(id) > 8 {
			id = id[:8]
		}
		return append(append(buf, "run="...), id...)
	},
	"durationMs": func(buf []byte, v slog.Value) []byte {
		buf = append(buf, "duration="...)
		return append(append(buf, v.String()...), "ms"...)
	},
	"error": func(buf []byte, v slog.Value) []byte {
		return strconv.AppendQuote(append(buf, "error="...), v.String())
	},
}

// appendAttr renders a as " key=value", flattening groups into dotted keys.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, prefix, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	if f, ok := shortForms[a.Key]; ok && prefix == "" {
		return f(buf, a.Value)
	}
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindTime:
		return v.Time().AppendFormat(buf, time.RFC3339)
	}
	// strings, durations and arbitrary values
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}
