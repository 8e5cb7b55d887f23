package report

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLong(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{1000000, "1,000,000"},
		{1001, "1,001"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLong(tt.in))
		})
	}
}

func TestFormatLongGroups(t *testing.T) {
	values := []uint64{1, 10, 100, 1010, 65536, 4294967296, 1 << 53, math.MaxInt64, math.MaxUint64 - 1}

	for _, v := range values {
		s := FormatLong(v)
		groups := strings.Split(s, ",")
		require.NotEmpty(t, groups)
		assert.True(t, len(groups[0]) >= 1 && len(groups[0]) <= 3, "leading group of %s", s)
		for _, g := range groups[1:] {
			assert.Len(t, g, 3, "group of %s", s)
		}

		back, err := strconv.ParseUint(strings.ReplaceAll(s, ",", ""), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestWordList(t *testing.T) {
	t.Run("sorted", func(t *testing.T) {
		assert.Equal(t, []string{"alpha", "    beta"}, WordList("beta alpha", 4, true))
	})

	t.Run("source order", func(t *testing.T) {
		assert.Equal(t, []string{"beta", "    alpha"}, WordList("beta alpha", 4, false))
	})

	t.Run("whitespace runs", func(t *testing.T) {
		assert.Equal(t, []string{"a", "  b", "  c"}, WordList("  a \t b\n\nc ", 2, false))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, WordList("", 4, true))
		assert.Nil(t, WordList("   ", 4, false))
	})
}

func TestFormatFlags(t *testing.T) {
	assert.Equal(t, "GPU", formatFlags(1<<2, deviceTypeFlags))
	assert.Equal(t, "CPU GPU", formatFlags(1<<2|1<<1, deviceTypeFlags))
	assert.Equal(t, "GPU Unknown (0x400)", formatFlags(1<<2|1<<10, deviceTypeFlags))
	assert.Equal(t, "Unknown (0x80)", formatFlags(0x80, execCapabilityFlags))
	assert.Equal(t, "", formatFlags(0, execCapabilityFlags))
}

func TestFormatIndexed(t *testing.T) {
	assert.Equal(t, "None (0)", formatIndexed(0, cacheTypeNames))
	assert.Equal(t, "Read-Write (2)", formatIndexed(2, cacheTypeNames))
	assert.Equal(t, "??? (3)", formatIndexed(3, cacheTypeNames))
	assert.Equal(t, "Local (1)", formatIndexed(1, localMemNames))
}

func TestDecodeUint(t *testing.T) {
	assert.Equal(t, uint64(0), decodeUint(nil))
	assert.Equal(t, uint64(7), decodeUint([]byte{7}))
	assert.Equal(t, uint64(0xdead), decodeUint(encodeU16(0xdead)))
	assert.Equal(t, uint64(0xdeadbeef), decodeUint(encodeU32(0xdeadbeef)))
	assert.Equal(t, uint64(1<<40), decodeUint(encodeU64(1<<40)))
}
