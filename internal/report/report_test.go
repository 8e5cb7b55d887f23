package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattfource/clinfo/internal/clrt"
	"github.com/wattfource/clinfo/internal/logging"
)

const singleDeviceFixture = `
platforms:
  - info:
      CL_PLATFORM_PROFILE: FULL_PROFILE
      CL_PLATFORM_VERSION: OpenCL 1.2 Example
      CL_PLATFORM_NAME: Example Platform
      CL_PLATFORM_VENDOR: Example Corp
      CL_PLATFORM_EXTENSIONS: cl_khr_icd cl_khr_fp64
    devices:
      - info:
          CL_DEVICE_TYPE: 4
          CL_DEVICE_NAME: Example GPU
          CL_DEVICE_VENDOR: Example Corp
          CL_DEVICE_PROFILE: FULL_PROFILE
          CL_DEVICE_VERSION: OpenCL 1.2
          CL_DRIVER_VERSION: "1.0"
          CL_DEVICE_EXTENSIONS: cl_khr_icd cl_khr_byte_addressable_store
          CL_DEVICE_EXECUTION_CAPABILITIES: 1
          CL_DEVICE_GLOBAL_MEM_CACHE_TYPE: 2
          CL_DEVICE_LOCAL_MEM_TYPE: 1
          CL_DEVICE_SINGLE_FP_CONFIG: 0x3e
          CL_DEVICE_QUEUE_PROPERTIES: 0x2
          CL_DEVICE_VENDOR_ID: 4098
          CL_DEVICE_MAX_COMPUTE_UNITS: 32
          CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS: 3
          CL_DEVICE_MAX_WORK_GROUP_SIZE: 256
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_CHAR: 4
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_SHORT: 2
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_INT: 1
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_LONG: 1
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_FLOAT: 1
          CL_DEVICE_PREFERRED_VECTOR_WIDTH_DOUBLE: 1
          CL_DEVICE_MAX_CLOCK_FREQUENCY: 1500
          CL_DEVICE_ADDRESS_BITS: 64
          CL_DEVICE_MAX_MEM_ALLOC_SIZE: 2147483648
          CL_DEVICE_IMAGE_SUPPORT: true
          CL_DEVICE_MAX_READ_IMAGE_ARGS: 128
          CL_DEVICE_MAX_WRITE_IMAGE_ARGS: 8
          CL_DEVICE_IMAGE2D_MAX_WIDTH: 16384
          CL_DEVICE_IMAGE2D_MAX_HEIGHT: 16384
          CL_DEVICE_IMAGE3D_MAX_WIDTH: 2048
          CL_DEVICE_IMAGE3D_MAX_HEIGHT: 2048
          CL_DEVICE_IMAGE3D_MAX_DEPTH: 2048
          CL_DEVICE_MAX_SAMPLERS: 16
          CL_DEVICE_MAX_PARAMETER_SIZE: 1024
          CL_DEVICE_MEM_BASE_ADDR_ALIGN: 2048
          CL_DEVICE_MIN_DATA_TYPE_ALIGN_SIZE: 128
          CL_DEVICE_GLOBAL_MEM_CACHELINE_SIZE: 64
          CL_DEVICE_GLOBAL_MEM_CACHE_SIZE: 16384
          CL_DEVICE_GLOBAL_MEM_SIZE: 8589934592
          CL_DEVICE_MAX_CONSTANT_BUFFER_SIZE: 65536
          CL_DEVICE_MAX_CONSTANT_ARGS: 8
          CL_DEVICE_LOCAL_MEM_SIZE: 32768
          CL_DEVICE_ERROR_CORRECTION_SUPPORT: false
          CL_DEVICE_PROFILING_TIMER_RESOLUTION: 1
          CL_DEVICE_ENDIAN_LITTLE: true
          CL_DEVICE_AVAILABLE: true
          CL_DEVICE_COMPILER_AVAILABLE: true
          CL_DEVICE_MAX_WORK_ITEM_SIZES: [256, 256, 256]
        errors:
          CL_DEVICE_MAX_CLOCK_FREQUENCY: -5
        image_formats:
          - {order: CL_RGBA, type: CL_UNORM_INT8}
`

func runFixture(t *testing.T, yaml string, opts Options) (string, string, error) {
	t.Helper()
	rt, err := clrt.ParseFixture([]byte(yaml))
	require.NoError(t, err)

	var out, diag bytes.Buffer
	err = New(rt, &out, &diag, opts).Run()
	assert.Zero(t, rt.OpenContexts())
	return out.String(), diag.String(), err
}

func TestRunSinglePlatformSingleDevice(t *testing.T) {
	out, diag, err := runFixture(t, singleDeviceFixture, Options{Logger: logging.Nop()})
	require.NoError(t, err)

	got := lines(out)
	assert.Equal(t, "Found 1 platform.", got[0])
	assert.Contains(t, got, "platform[0]:")
	assert.Contains(t, got, "platform[0]: name      : Example Platform")
	assert.Contains(t, got, "platform[0]: Found 1 device.")
	assert.Contains(t, got, "device[0]:")
	assert.Contains(t, got, "device[0]: TYPE                          : GPU")
	assert.Contains(t, got, "device[0]: GLOBAL_MEM_SIZE               : 8,589,934,592")
	assert.Contains(t, got, "device[0]: GLOBAL_MEM_CACHE_TYPE         : Read-Write (2)")
	assert.Contains(t, got, "device[0]: LOCAL_MEM_TYPE                : Local (1)")
	assert.Contains(t, got, "device[0]: SINGLE_FP_CONFIG              : 0x3e")
	assert.Contains(t, got, "device[0]: MAX_WORK_ITEM_SIZES           : 256, 256, 256")
	assert.Contains(t, got, "device[0]: ERROR_CORRECTION_SUPPORT      : 0")

	// Every device property but the forced failure is rendered, in order
	var rendered []string
	for _, line := range got {
		rest, ok := strings.CutPrefix(line, "device[0]: ")
		if !ok {
			continue
		}
		if name, _, ok := strings.Cut(rest, " "); ok {
			rendered = append(rendered, name)
		}
	}
	var want []string
	for _, d := range DeviceTable.Props {
		if d.Name != "MAX_CLOCK_FREQUENCY" {
			want = append(want, d.Name)
		}
	}
	assert.Equal(t, want, rendered)

	assert.Equal(t, "device[0]: Unable to get MAX_CLOCK_FREQUENCY: out of resources!\n", diag)
	assert.NotContains(t, out, "IMAGE_FORMATS")
	assert.NotContains(t, out, strings.Repeat("-", 80))
	assert.NotContains(t, out, strings.Repeat("=", 80))
}

func TestRunImageFormats(t *testing.T) {
	out, diag, err := runFixture(t, singleDeviceFixture, Options{ImageFormats: true})
	require.NoError(t, err)

	assert.Contains(t, lines(out), "device[0]: IMAGE_FORMATS                 : CL_RGBA         , CL_UNORM_INT8")
	assert.Equal(t, 1, strings.Count(diag, "\n"))
}

const separatorFixture = `
platforms:
  - info: {CL_PLATFORM_NAME: first}
    devices:
      - info: {CL_DEVICE_NAME: a}
      - info: {CL_DEVICE_NAME: b}
      - info: {CL_DEVICE_NAME: c}
  - info: {CL_PLATFORM_NAME: second}
    num_devices_error: -1
  - info: {CL_PLATFORM_NAME: third}
    devices_error: -6
    devices:
      - info: {CL_DEVICE_NAME: d}
`

func TestRunSeparatorsAndPlatformFailures(t *testing.T) {
	out, diag, err := runFixture(t, separatorFixture, Options{})
	require.NoError(t, err)

	got := lines(out)
	assert.Equal(t, "Found 3 platforms.", got[0])
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("-", 80)+"\n"))
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("=", 80)+"\n"))
	assert.Contains(t, got, "platform[0]: Found 3 devices.")
	assert.Contains(t, got, "platform[2]: Found 1 device.")
	assert.NotEqual(t, strings.Repeat("=", 80), got[len(got)-1])
	assert.NotContains(t, out, "device[0]: NAME                          : d")

	assert.Contains(t, diag, "platform[1]: Unable to query the number of devices: device not found\n")
	assert.Contains(t, diag, "platform[2]: Unable to enumerate the devices: out of host memory\n")
}

func TestRunFatalPlatformCount(t *testing.T) {
	out, diag, err := runFixture(t, "num_platforms_error: -6\n", Options{})
	require.Error(t, err)

	var status clrt.Status
	require.ErrorAs(t, err, &status)
	assert.Equal(t, clrt.OutOfHostMemory, status)
	assert.Empty(t, out)
	assert.Equal(t, "Unable to query the number of platforms: out of host memory\n", diag)
}

func TestRunFatalPlatformList(t *testing.T) {
	out, diag, err := runFixture(t, "platforms_error: -5\nplatforms: [{}]\n", Options{})
	require.Error(t, err)

	assert.Equal(t, "Found 1 platform.\n", out)
	assert.Equal(t, "Unable to enumerate the platforms: out of resources\n", diag)
}
