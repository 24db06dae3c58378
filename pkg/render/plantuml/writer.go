package plantuml

import (
	"bytes"
	"strings"
)

// indentUnit is the indentation emitted per nesting level.
const indentUnit = "  "

// lineWriter is an append-only, indentation-aware line buffer. It knows
// nothing about C4: callers decide what to write, the writer only tracks
// depth and terminates lines.
type lineWriter struct {
	buf       bytes.Buffer
	depth     int
	underflow bool
}

// line writes s at the current indentation.
func (w *lineWriter) line(s string) {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(indentUnit)
	}
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// blank writes an empty line without indentation.
func (w *lineWriter) blank() {
	w.buf.WriteByte('\n')
}

func (w *lineWriter) indent() { w.depth++ }

// outdent decreases the depth. Going below zero is recorded and reported
// by balanced.
func (w *lineWriter) outdent() {
	if w.depth == 0 {
		w.underflow = true
		return
	}
	w.depth--
}

// balanced reports whether every indent was matched by an outdent.
func (w *lineWriter) balanced() bool {
	return w.depth == 0 && !w.underflow
}

func (w *lineWriter) String() string { return w.buf.String() }

// oneLine keeps a label on a single PlantUML line; embedded newlines become
// the literal \n sequence, which C4-PlantUML renders as a line break.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}
