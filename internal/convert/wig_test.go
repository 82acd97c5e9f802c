package convert

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wigInput = "track type=wiggle_0 name=cov\n" +
	"variableStep chrom=1 span=25\n" +
	"10 1.0\n" +
	"35 2.5\n" +
	"fixedStep chrom=7 start=100 step=10 span=5\n" +
	"0.1\n" +
	"0.2\n" +
	"fixedStep chrom=MT start=1 step=1\n" +
	"3\n"

func countHeaders(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "variableStep") || strings.HasPrefix(line, "fixedStep") {
			n++
		}
	}
	return n
}

func TestWig_Rewrite(t *testing.T) {
	got, sum := convertString(t, Wig, wigInput, Options{})

	want := "track type=wiggle_0 name=cov\n" +
		"variableStep chrom=chr1 span=25\n" +
		"10 1.0\n" +
		"35 2.5\n" +
		"fixedStep chrom=7 start=100 step=10 span=5\n" +
		"0.1\n" +
		"0.2\n" +
		"fixedStep chrom=chrM start=1 step=1\n" +
		"3\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 3, sum.DataLines)
	assert.Equal(t, 1, sum.UnmappedLines)
	assert.Zero(t, sum.DroppedLines, "step declarations are never dropped")
	assert.Equal(t, []string{"7"}, sum.UnmappedIDs)
}

func TestWig_HeaderCountPreserved(t *testing.T) {
	for _, keep := range []bool{false, true} {
		got, _ := convertString(t, Wig, wigInput, Options{KeepUnmapped: keep})
		assert.Equal(t, countHeaders(wigInput), countHeaders(got), "keepUnmapped=%v", keep)
	}
}

func TestWig_OnlyValueChanges(t *testing.T) {
	got, _ := convertString(t, Wig, "variableStep\tchrom=MT  span=1\r\n", Options{})
	assert.Equal(t, "variableStep\tchrom=chrM  span=1\r\n", got)
}

func TestWig_Malformed(t *testing.T) {
	for _, input := range []string{"fixedStep\n", "variableStep 1 span=5\n"} {
		c, err := New(Wig, testTable(), Options{})
		require.NoError(t, err)

		_, err = c.Convert(strings.NewReader(input), &bytes.Buffer{})
		var recErr *MalformedRecordError
		assert.True(t, errors.As(err, &recErr), "input %q", input)
	}
}
