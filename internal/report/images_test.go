package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattfource/clinfo/internal/clrt"
)

const imageFixture = `
platforms:
  - devices:
      - image_formats:
          - {order: CL_RGBA, type: CL_FLOAT}
          - {order: CL_BGRA, type: CL_UNORM_INT8}
          - {order: "0x1234", type: "0x99"}
      - context_error: -5
      - format_count_error: -6
      - format_list_error: -30
      - {}
      - release_error: -12
        image_formats:
          - {order: CL_R, type: CL_HALF_FLOAT}
`

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "CL_RGBA", ChannelOrderName(clrt.ChannelRGBA))
	assert.Equal(t, "CL_DEPTH_STENCIL", ChannelOrderName(clrt.ChannelDepthStencil))
	assert.Equal(t, "UNKNOWN 0x1234", ChannelOrderName(0x1234))
	assert.Equal(t, "CL_UNORM_INT_101010", ChannelTypeName(clrt.UnormInt101010))
	assert.Equal(t, "UNKNOWN 0x0099", ChannelTypeName(0x99))
	assert.Equal(t, "CL_RGBA         , CL_FLOAT", FormatImageFormat(clrt.ImageFormat{Order: clrt.ChannelRGBA, Type: clrt.Float}))
}

func TestImageFormats(t *testing.T) {
	rt, err := clrt.ParseFixture([]byte(imageFixture))
	require.NoError(t, err)

	lead := rowLead("device[0]", DeviceTable.Width, imageFormatsName)
	pad := strings.Repeat(" ", len(lead))

	tests := []struct {
		name    string
		device  clrt.DeviceID
		out     []string
		diag    string
		wantErr bool
	}{
		{
			name:   "lists every format",
			device: 1,
			out: []string{
				lead + "CL_RGBA         , CL_FLOAT",
				pad + "CL_BGRA         , CL_UNORM_INT8",
				pad + "UNKNOWN 0x1234  , UNKNOWN 0x0099",
			},
		},
		{
			name:    "context creation fails",
			device:  2,
			diag:    "device[0]: Unable to create context: out of resources!\n",
			wantErr: true,
		},
		{
			name:    "count query fails",
			device:  3,
			diag:    "device[0]: Unable to get number of supported image formats: out of host memory!\n",
			wantErr: true,
		},
		{
			name:    "list query fails",
			device:  4,
			diag:    "device[0]: Unable to get supported image formats: invalid value!\n",
			wantErr: true,
		},
		{
			name:   "no formats",
			device: 5,
			out:    []string{lead + "(none)"},
		},
		{
			name:   "release failure keeps output",
			device: 6,
			out:    []string{lead + "CL_R            , CL_HALF_FLOAT"},
			diag:   "device[0]: Unable to release context: map failed!\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, diag bytes.Buffer
			w := &Walker{Out: &out, Diag: &diag}

			err := w.ImageFormats("device[0]", DeviceTable.Width, rt, tt.device, DefaultImageOptions)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, out.String())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.out, lines(out.String()))
			}
			assert.Equal(t, tt.diag, diag.String())
			assert.Zero(t, rt.OpenContexts())
		})
	}
}
