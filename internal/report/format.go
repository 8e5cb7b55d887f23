package report

import (
	"bytes"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wattfource/clinfo/internal/clrt"
)

// FormatLong renders v in decimal with a comma between every group of three
// digits, independent of the host locale
func FormatLong(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}

// WordList splits a whitespace separated list into one token per line. The
// first token is returned bare and every following token is left-padded with
// indent spaces so it lines up under the first. Empty input yields nil
func WordList(text string, indent int, sorted bool) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if sorted {
		slices.Sort(words)
	}

	pad := strings.Repeat(" ", indent)
	lines := make([]string, len(words))
	lines[0] = words[0]
	for i, w := range words[1:] {
		lines[i+1] = pad + w
	}
	return lines
}

// cString returns raw up to its first NUL
func cString(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// decodeUint reads a scalar property. Runtimes hand back 1, 2, 4 or 8 byte
// integers in host order; the reported size selects the width
func decodeUint(raw []byte) uint64 {
	switch len(raw) {
	case 0:
		return 0
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(clrt.NativeEndian.Uint16(raw))
	case 4:
		return uint64(clrt.NativeEndian.Uint32(raw))
	}
	var word [8]byte
	copy(word[:], raw)
	return clrt.NativeEndian.Uint64(word[:])
}

// decodeSizes reads an array of size_t values
func decodeSizes(raw []byte) []uint64 {
	n := len(raw) / clrt.SizeT
	out := make([]uint64, n)
	for i := range out {
		elem := raw[i*clrt.SizeT : (i+1)*clrt.SizeT]
		if clrt.SizeT == 4 {
			out[i] = uint64(clrt.NativeEndian.Uint32(elem))
		} else {
			out[i] = clrt.NativeEndian.Uint64(elem)
		}
	}
	return out
}

// formatFlags names every known bit set in v, in table order, and appends
// whatever bits remain as a hexadecimal residue
func formatFlags(v uint64, flags []Flag) string {
	var names []string
	for _, f := range flags {
		if v&f.Bit != 0 {
			v &^= f.Bit
			names = append(names, f.Name)
		}
	}
	if v != 0 {
		names = append(names, fmt.Sprintf("Unknown (0x%x)", v))
	}
	return strings.Join(names, " ")
}

// formatIndexed names a small enumerated value from a lookup table
func formatIndexed(v uint64, names []string) string {
	name := "???"
	if v < uint64(len(names)) {
		name = names[v]
	}
	return fmt.Sprintf("%s (%d)", name, v)
}
