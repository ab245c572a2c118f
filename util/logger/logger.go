/*
 * mipsbot - Wrapper for slog
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package logger provides a compact slog.Handler for mipsbot: a single
// "HH:MM:SS.mmm L message key=value ..." line per record, written to an
// optional log file and, for warnings and above (or when debug is
// forced), echoed to stderr. The single-letter level and key=value attr
// rendering keep each line short. The cpu and memory packages emit no
// per-instruction Debug records; cpu logs only the program-load event.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// levelLetter gives the single-character level tag used in place of
// slog's full level names ("DEBUG", "INFO", ...), keeping a traced
// instruction line short.
func levelLetter(l slog.Level) byte {
	switch {
	case l < slog.LevelInfo:
		return 'D'
	case l < slog.LevelWarn:
		return 'I'
	case l < slog.LevelError:
		return 'W'
	default:
		return 'E'
	}
}

// LogHandler is a slog.Handler that formats each record as one line and
// writes it to an optional file, mirroring it to stderr at Warn and above
// (or always, when forced via SetDebug).
type LogHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []slog.Attr // accumulated via WithAttrs, prepended to every record
	group string      // accumulated via WithGroup, prefixed to attr keys
	debug bool
}

// Enabled reports whether a record at level should be handled at all.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

// WithAttrs returns a handler that prepends attrs to every subsequent
// record, sharing this handler's output and mutex.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next = append(next, h.attrs...)
	for _, a := range attrs {
		// Qualify with the groups open now, so a later WithGroup does not
		// rename attrs added before it.
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next = append(next, a)
	}
	return &LogHandler{out: h.out, mu: h.mu, level: h.level, attrs: next, group: h.group, debug: h.debug}
}

// WithGroup returns a handler that namespaces subsequent attr keys under
// name, in the manner of slog's own group handling.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	g := name
	if h.group != "" {
		g = h.group + "." + name
	}
	return &LogHandler{out: h.out, mu: h.mu, level: h.level, attrs: h.attrs, group: g, debug: h.debug}
}

// Handle writes r as one formatted line.
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.Grow(64 + r.NumAttrs()*16)

	t := r.Time
	pad2(&b, t.Hour())
	b.WriteByte(':')
	pad2(&b, t.Minute())
	b.WriteByte(':')
	pad2(&b, t.Second())
	b.WriteByte('.')
	pad3(&b, t.Nanosecond()/1_000_000)
	b.WriteByte(' ')
	b.WriteByte(levelLetter(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	line := []byte(b.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(line)
	}
	if h.debug || r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(line)
	}
	return err
}

// writeAttr appends " key=value" to b, quoting the value when it contains
// whitespace so a line always splits cleanly on spaces.
func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	v := a.Value.String()
	if strings.ContainsAny(v, " \t\n") {
		b.WriteString(strconv.Quote(v))
	} else {
		b.WriteString(v)
	}
}

func pad2(b *strings.Builder, v int) {
	if v < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(v))
}

func pad3(b *strings.Builder, v int) {
	switch {
	case v < 10:
		b.WriteString("00")
	case v < 100:
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(v))
}

// SetDebug forces every record to stderr regardless of level when *debug
// is true. The value is copied; later changes to *debug have no effect.
func (h *LogHandler) SetDebug(debug *bool) {
	h.debug = *debug
}

// NewHandler creates a LogHandler writing to file (nil disables file
// output) and stderr, at the minimum level given by opts (Info if opts or
// opts.Level is nil). debug, if non-nil and true, forces every record to
// stderr regardless of level.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug *bool) *LogHandler {
	var level slog.Leveler
	if opts != nil {
		level = opts.Level
	}
	forceDebug := false
	if debug != nil {
		forceDebug = *debug
	}
	return &LogHandler{
		out:   file,
		mu:    &sync.Mutex{},
		level: level,
		debug: forceDebug,
	}
}
