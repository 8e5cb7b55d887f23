package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattfource/clinfo/internal/clrt"
)

func encodeU16(v uint16) []byte {
	raw := make([]byte, 2)
	clrt.NativeEndian.PutUint16(raw, v)
	return raw
}

func encodeU32(v uint32) []byte {
	raw := make([]byte, 4)
	clrt.NativeEndian.PutUint32(raw, v)
	return raw
}

func encodeU64(v uint64) []byte {
	raw := make([]byte, 8)
	clrt.NativeEndian.PutUint64(raw, v)
	return raw
}

func encodeSizes(vs ...uint64) []byte {
	raw := make([]byte, len(vs)*clrt.SizeT)
	for i, v := range vs {
		if clrt.SizeT == 4 {
			clrt.NativeEndian.PutUint32(raw[i*clrt.SizeT:], uint32(v))
		} else {
			clrt.NativeEndian.PutUint64(raw[i*clrt.SizeT:], v)
		}
	}
	return raw
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

// answers builds a QueryFunc from canned values; errs wins over values
func answers(values map[uint32][]byte, errs map[uint32]error) QueryFunc {
	return func(param uint32, buf []byte) (int, error) {
		if err, ok := errs[param]; ok {
			return 0, err
		}
		raw, ok := values[param]
		if !ok {
			return 0, clrt.InvalidValue
		}
		copy(buf, raw)
		return len(raw), nil
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestWalkRendersEveryKind(t *testing.T) {
	table := Table{
		Width: 8,
		Props: []Descriptor{
			{Param: 1, Name: "NAME", Kind: KindString},
			{Param: 2, Name: "MEM", Kind: KindLong},
			{Param: 3, Name: "FP", Kind: KindHex},
			{Param: 4, Name: "TYPE", Kind: KindFlags, Flags: deviceTypeFlags},
			{Param: 5, Name: "SIZES", Kind: KindSizeArray, Count: 3},
			{Param: 6, Name: "CACHE", Kind: KindIndexed, Names: cacheTypeNames},
			{Param: 7, Name: "LOCAL", Kind: KindIndexed, Names: localMemNames},
			{Param: 8, Name: "EXT", Kind: KindWords, Sorted: true},
			{Param: 9, Name: "BOOL", Kind: KindLong},
		},
	}
	q := answers(map[uint32][]byte{
		1: cstr("Widget 3000"),
		2: encodeU64(4294967296),
		3: encodeU64(0x3f),
		4: encodeU64(uint64(clrt.DeviceTypeGPU) | 1<<10),
		5: encodeSizes(1024, 1024, 64),
		6: encodeU32(2),
		7: encodeU32(9),
		8: cstr("cl_khr_fp64 cl_khr_icd cl_amd_media"),
		9: encodeU32(1),
	}, nil)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag}
	failed := w.Walk("dev[0]", table, q)

	assert.Zero(t, failed)
	assert.Empty(t, diag.String())
	assert.Equal(t, []string{
		"dev[0]: NAME    : Widget 3000",
		"dev[0]: MEM     : 4,294,967,296",
		"dev[0]: FP      : 0x3f",
		"dev[0]: TYPE    : GPU Unknown (0x400)",
		"dev[0]: SIZES   : 1024, 1024, 64",
		"dev[0]: CACHE   : Read-Write (2)",
		"dev[0]: LOCAL   : ??? (9)",
		"dev[0]: EXT     : cl_amd_media",
		"                  cl_khr_fp64",
		"                  cl_khr_icd",
		"dev[0]: BOOL    : 1",
	}, lines(out.String()))
}

func TestWalkFailureIsLocal(t *testing.T) {
	table := Table{
		Width: 6,
		Props: []Descriptor{
			{Param: 1, Name: "FIRST", Kind: KindString},
			{Param: 2, Name: "MIDDLE", Kind: KindLong},
			{Param: 3, Name: "LAST", Kind: KindLong},
		},
	}
	q := answers(
		map[uint32][]byte{1: cstr("one"), 2: encodeU64(2), 3: encodeU64(3)},
		map[uint32]error{2: clrt.OutOfResources},
	)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag}
	failed := w.Walk("x[1]", table, q)

	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{
		"x[1]: FIRST : one",
		"x[1]: LAST  : 3",
	}, lines(out.String()))
	assert.Equal(t, "x[1]: Unable to get MIDDLE: out of resources!\n", diag.String())
	assert.NotContains(t, out.String(), "MIDDLE")
}

func TestWalkTruncation(t *testing.T) {
	table := Table{
		Width: 4,
		Props: []Descriptor{
			{Param: 1, Name: "NAME", Kind: KindString},
			{Param: 2, Name: "NEXT", Kind: KindString},
		},
	}
	q := answers(map[uint32][]byte{1: cstr("abcdefgh"), 2: cstr("ok")}, nil)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag, StringCapacity: 4}
	failed := w.Walk("p[0]", table, q)

	assert.Zero(t, failed)
	assert.Equal(t, []string{
		"p[0]: NAME: abcd",
		"p[0]: NEXT: ok",
	}, lines(out.String()))

	warnings := lines(diag.String())
	require.Len(t, warnings, 1)
	assert.Equal(t, "p[0]: Large NAME (9 bytes)!  Truncating to 4!", warnings[0])
}

func TestWalkScalarTruncation(t *testing.T) {
	table := Table{Width: 3, Props: []Descriptor{{Param: 1, Name: "BIG", Kind: KindHex}}}
	q := answers(map[uint32][]byte{1: append(encodeU64(0xff), 1, 2, 3, 4)}, nil)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag}
	w.Walk("d[0]", table, q)

	assert.Equal(t, "d[0]: BIG: 0xff\n", out.String())
	assert.Equal(t, "d[0]: Large BIG (12 bytes)!  Truncating to 8!\n", diag.String())
}

func TestWalkEmptyText(t *testing.T) {
	table := Table{Width: 10, Props: []Descriptor{
		{Param: 1, Name: "extensions", Kind: KindWords},
		{Param: 2, Name: "name", Kind: KindString},
		{Param: 3, Name: "caps", Kind: KindFlags, Flags: execCapabilityFlags},
	}}
	q := answers(map[uint32][]byte{1: cstr(""), 2: cstr(""), 3: encodeU64(0)}, nil)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag}
	w.Walk("platform[0]", table, q)

	assert.Equal(t, "platform[0]: extensions:\nplatform[0]: name      :\nplatform[0]: caps      :\n", out.String())
	assert.Empty(t, diag.String())
}

func TestWalkPlatformExtensionsKeepOrder(t *testing.T) {
	q := answers(map[uint32][]byte{
		uint32(clrt.PlatformProfile):    cstr("FULL_PROFILE"),
		uint32(clrt.PlatformVersion):    cstr("OpenCL 1.2"),
		uint32(clrt.PlatformName):       cstr("Example"),
		uint32(clrt.PlatformVendor):     cstr("Example Corp"),
		uint32(clrt.PlatformExtensions): cstr("cl_khr_icd cl_amd_event"),
	}, nil)

	var out, diag bytes.Buffer
	w := &Walker{Out: &out, Diag: &diag}
	w.Walk("platform[0]", PlatformTable, q)

	indent := strings.Repeat(" ", len("platform[0]: extensions: "))
	assert.Equal(t, []string{
		"platform[0]: profile   : FULL_PROFILE",
		"platform[0]: version   : OpenCL 1.2",
		"platform[0]: name      : Example",
		"platform[0]: vendor    : Example Corp",
		"platform[0]: extensions: cl_khr_icd",
		indent + "cl_amd_event",
	}, lines(out.String()))
}

func TestDeviceTableCapacities(t *testing.T) {
	for _, d := range DeviceTable.Props {
		switch d.Kind {
		case KindString, KindWords:
			assert.Equal(t, StringCapacity, d.capacity(0), d.Name)
		case KindSizeArray:
			assert.Equal(t, 3*clrt.SizeT, d.capacity(0), d.Name)
		default:
			assert.Equal(t, 8, d.capacity(0), d.Name)
		}
		_, ok := renderers[d.Kind]
		assert.True(t, ok, d.Name)
	}
}
