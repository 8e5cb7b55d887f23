package report

import (
	"fmt"
	"io"
	"strings"
)

// QueryFunc asks the runtime for one property of a fixed entity. It writes
// at most len(buf) bytes and returns the size the runtime holds
type QueryFunc func(param uint32, buf []byte) (int, error)

// renderFunc turns the raw bytes of one property into value lines. Lines
// after the first must already carry indent columns of padding
type renderFunc func(d Descriptor, raw []byte, indent int) []string

var renderers = map[Kind]renderFunc{
	KindString: func(_ Descriptor, raw []byte, _ int) []string {
		return []string{cString(raw)}
	},
	KindWords: func(d Descriptor, raw []byte, indent int) []string {
		return WordList(cString(raw), indent, d.Sorted)
	},
	KindLong: func(_ Descriptor, raw []byte, _ int) []string {
		return []string{FormatLong(decodeUint(raw))}
	},
	KindHex: func(_ Descriptor, raw []byte, _ int) []string {
		return []string{fmt.Sprintf("0x%x", decodeUint(raw))}
	},
	KindFlags: func(d Descriptor, raw []byte, _ int) []string {
		return []string{formatFlags(decodeUint(raw), d.Flags)}
	},
	KindSizeArray: func(_ Descriptor, raw []byte, _ int) []string {
		sizes := decodeSizes(raw)
		parts := make([]string, len(sizes))
		for i, v := range sizes {
			parts[i] = fmt.Sprint(v)
		}
		return []string{strings.Join(parts, ", ")}
	},
	KindIndexed: func(d Descriptor, raw []byte, _ int) []string {
		return []string{formatIndexed(decodeUint(raw), d.Names)}
	},
}

// Walker renders property tables. Values go to Out; query failures and
// truncation warnings go to Diag
type Walker struct {
	Out  io.Writer
	Diag io.Writer

	// StringCapacity bounds text property buffers. Zero means the default
	StringCapacity int
}

// Walk queries every descriptor of t in order and prints one row per
// property that could be read. A failed property is reported on Diag and
// skipped; it never stops the walk. Walk returns the number of failures
func (w *Walker) Walk(prefix string, t Table, query QueryFunc) int {
	failed := 0
	for _, d := range t.Props {
		capacity := d.capacity(w.StringCapacity)
		buf := make([]byte, capacity)

		size, err := query(d.Param, buf)
		if err != nil {
			w.diagf("%s: Unable to get %s: %v!", prefix, d.Name, err)
			failed++
			continue
		}
		if size > capacity {
			w.diagf("%s: Large %s (%d bytes)!  Truncating to %d!", prefix, d.Name, size, capacity)
			size = capacity
		}

		render, ok := renderers[d.Kind]
		if !ok {
			w.diagf("%s: Unable to render %s: unknown kind %d!", prefix, d.Name, d.Kind)
			failed++
			continue
		}
		lead := rowLead(prefix, t.Width, d.Name)
		w.printRow(lead, render(d, buf[:size], len(lead)))
	}
	return failed
}

// rowLead is the text in front of a property value
func rowLead(prefix string, width int, name string) string {
	return fmt.Sprintf("%s: %-*s: ", prefix, width, name)
}

// printRow writes the lead followed by the first value line, then any
// continuation lines as they are. An empty value prints the bare lead
func (w *Walker) printRow(lead string, lines []string) {
	if len(lines) == 0 || len(lines) == 1 && lines[0] == "" {
		fmt.Fprintln(w.Out, strings.TrimRight(lead, " "))
		return
	}
	fmt.Fprintln(w.Out, lead+lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintln(w.Out, line)
	}
}

func (w *Walker) diagf(format string, args ...any) {
	fmt.Fprintf(w.Diag, format+"\n", args...)
}
