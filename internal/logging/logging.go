// Package logging provides the debug-dump printer used when a Settings
// value has debug output turned on. It is a thin wrapper around
// go-spew so trace steps, decisions, and program state print with
// field names and nested structure instead of Go's default %v.
package logging

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Printer writes spew-formatted dumps to w, or discards them entirely
// when disabled. The zero value is a silent no-op printer.
type Printer struct {
	w       io.Writer
	enabled bool
}

// New returns a Printer that writes to w when enabled is true, and
// discards everything otherwise.
func New(w io.Writer, enabled bool) *Printer {
	return &Printer{w: w, enabled: enabled}
}

// Printf writes a formatted line, verbatim, when the printer is
// enabled.
func (p *Printer) Printf(format string, args ...any) {
	if p == nil || !p.enabled {
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

// Dump writes a spew.Sdump of each value, one per line, when the
// printer is enabled.
func (p *Printer) Dump(values ...any) {
	if p == nil || !p.enabled {
		return
	}
	for _, v := range values {
		io.WriteString(p.w, spew.Sdump(v))
	}
}

// Sdump renders v the way Dump would, without writing anywhere.
func Sdump(v any) string {
	return spew.Sdump(v)
}
