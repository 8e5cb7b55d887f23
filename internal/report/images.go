package report

import (
	"fmt"
	"strings"

	"github.com/wattfource/clinfo/internal/clrt"
)

// ImageOptions selects the usage and image kind whose formats are listed
type ImageOptions struct {
	Flags clrt.MemFlags
	Type  clrt.MemObjectType
}

// DefaultImageOptions lists formats readable from 2D images
var DefaultImageOptions = ImageOptions{Flags: clrt.MemReadOnly, Type: clrt.MemObjectImage2D}

const imageFormatsName = "IMAGE_FORMATS"

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	channelOrderNames = invert(clrt.ChannelOrderByName)
	channelTypeNames  = invert(clrt.ChannelTypeByName)
)

// ChannelOrderName returns the symbol of o, or an UNKNOWN tag with its code
func ChannelOrderName(o clrt.ChannelOrder) string {
	if name, ok := channelOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN 0x%04x", uint32(o))
}

// ChannelTypeName returns the symbol of t, or an UNKNOWN tag with its code
func ChannelTypeName(t clrt.ChannelType) string {
	if name, ok := channelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN 0x%04x", uint32(t))
}

// FormatImageFormat renders one format as its padded channel order followed
// by its channel type
func FormatImageFormat(f clrt.ImageFormat) string {
	return fmt.Sprintf("%-16s, %s", ChannelOrderName(f.Order), ChannelTypeName(f.Type))
}

// ImageFormats lists the image formats a device supports for opts. It opens
// a context on the device alone and releases it before returning on every
// path past creation. Each failed step is reported on Diag and ends the
// listing; nothing is printed to Out unless the list was read
func (w *Walker) ImageFormats(prefix string, width int, rt clrt.Runtime, dev clrt.DeviceID, opts ImageOptions) error {
	ctx, err := rt.CreateContext(dev)
	if err != nil {
		w.diagf("%s: Unable to create context: %v!", prefix, err)
		return err
	}
	defer func() {
		if err := rt.ReleaseContext(ctx); err != nil {
			w.diagf("%s: Unable to release context: %v!", prefix, err)
		}
	}()

	n, err := rt.SupportedImageFormats(ctx, opts.Flags, opts.Type, nil)
	if err != nil {
		w.diagf("%s: Unable to get number of supported image formats: %v!", prefix, err)
		return err
	}

	formats := make([]clrt.ImageFormat, n)
	got, err := rt.SupportedImageFormats(ctx, opts.Flags, opts.Type, formats)
	if err != nil {
		w.diagf("%s: Unable to get supported image formats: %v!", prefix, err)
		return err
	}
	formats = formats[:min(got, n)]

	lead := rowLead(prefix, width, imageFormatsName)
	w.printRow(lead, imageFormatLines(formats, len(lead)))
	return nil
}

func imageFormatLines(formats []clrt.ImageFormat, indent int) []string {
	if len(formats) == 0 {
		return []string{"(none)"}
	}
	pad := strings.Repeat(" ", indent)
	lines := make([]string, len(formats))
	for i, f := range formats {
		lines[i] = FormatImageFormat(f)
		if i > 0 {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}
