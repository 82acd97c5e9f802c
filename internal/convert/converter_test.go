package convert

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/seqmap/internal/assembly"
)

func testTable() *assembly.Table {
	return assembly.NewTable(map[string]string{
		"1":  "chr1",
		"MT": "chrM",
	})
}

// convertString runs a converter for f over input and returns the output.
func convertString(t *testing.T, f Format, input string, opts Options) (string, Summary) {
	t.Helper()
	c, err := New(f, testTable(), opts)
	require.NoError(t, err)

	var out bytes.Buffer
	sum, err := c.Convert(strings.NewReader(input), &out)
	require.NoError(t, err)
	return out.String(), sum
}

func TestParseFormat(t *testing.T) {
	for _, name := range FormatNames() {
		f, err := ParseFormat(strings.ToUpper(name))
		require.NoError(t, err, name)
		assert.Equal(t, name, f.String())
	}

	_, err := ParseFormat("bam")
	var cfgErr *assembly.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestNew_Dispatch(t *testing.T) {
	tests := []struct {
		format Format
		want   any
	}{
		{GFF3, &GXFConverter{}},
		{GTF, &GXFConverter{}},
		{VCF, &GXFConverter{}},
		{BED, &BEDConverter{}},
		{BedGraph, &BEDConverter{}},
		{SAM, &SAMConverter{}},
		{Wig, &WigConverter{}},
		{TSV, &TSVConverter{}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			c, err := New(tt.format, testTable(), Options{Column: 0, ColumnSet: true})
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
			assert.Equal(t, tt.format, c.Format())
		})
	}
}

func TestNew_TSVRequiresColumn(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero options", Options{}},
		{"column without ColumnSet", Options{Column: 1}},
		{"negative column", Options{Column: -1, ColumnSet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(TSV, testTable(), tt.opts)
			assert.Nil(t, c)
			var cfgErr *assembly.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "column", cfgErr.Field)
		})
	}
}

func TestNew_NilTable(t *testing.T) {
	_, err := New(GFF3, nil, Options{})
	var cfgErr *assembly.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestConvert_IdentityMappingIsByteExact(t *testing.T) {
	table := assembly.NewTable(map[string]string{"chr1": "chr1", "chrM": "chrM"})
	inputs := map[Format]string{
		GFF3:     "##gff-version 3\r\n##sequence-region chr1 1 248956422\r\nchr1\t.\tgene\t100\t200\t.\t+\t.\tID=g1\r\n\r\nchrM\t.\tgene\t1\t50\t.\t-\t.\tID=g2",
		VCF:      "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\nchr1\t100\t.\tA\tG\t.\tPASS\t.\n",
		BED:      "track name=x\nbrowser position chr1:100-200\nchr1\t100\t200\tname\t0\t+\n",
		BedGraph: "chr1\t0\t100\t1.5\nchrM\t0\t10\t0.25\n",
		SAM:      "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:248956422\nr1\t0\tchr1\t100\t60\t4M\t=\t200\t0\tACGT\tIIII\n",
		Wig:      "track type=wiggle_0\nvariableStep chrom=chr1 span=25\n10 1.0\nfixedStep  chrom=chrM  start=1 step=10\n0.5\n",
		TSV:      "# id\tchrom\ng1\tchr1\t5\n",
	}

	for f, input := range inputs {
		t.Run(f.String(), func(t *testing.T) {
			c, err := New(f, table, Options{Column: 1, ColumnSet: true})
			require.NoError(t, err)

			var out bytes.Buffer
			sum, err := c.Convert(strings.NewReader(input), &out)
			require.NoError(t, err)
			assert.Equal(t, input, out.String())
			assert.Zero(t, sum.UnmappedLines)
			assert.NotZero(t, sum.DataLines)
		})
	}
}

func TestConvert_DropWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := "1\t.\tgene\t1\t2\t.\t+\t.\tID=a\n2\t.\tgene\t1\t2\t.\t+\t.\tID=b\n2\t.\tgene\t3\t4\t.\t+\t.\tID=c\n"

	out, sum := convertString(t, GTF, input, Options{Logger: zap.New(core)})

	assert.Equal(t, "chr1\t.\tgene\t1\t2\t.\t+\t.\tID=a\n", out)
	assert.Equal(t, Summary{DataLines: 3, UnmappedLines: 2, DroppedLines: 2, UnmappedIDs: []string{"2"}}, sum)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, sum.Warning(), entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["unmapped_ids"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["dropped_lines"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["data_lines"])
}

func TestConvert_NoWarningWhenKeeping(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := "2\t.\tgene\t1\t2\t.\t+\t.\tID=b\n"

	out, sum := convertString(t, GFF3, input, Options{KeepUnmapped: true, Logger: zap.New(core)})

	assert.Equal(t, input, out)
	assert.Equal(t, 1, sum.UnmappedLines)
	assert.Zero(t, sum.DroppedLines)
	assert.Zero(t, logs.Len())
}

func TestConvert_Conservation(t *testing.T) {
	input := "1\t0\t10\nX\t0\t10\nMT\t0\t10\nY\t5\t6\n1\t20\t30\n"

	for _, keep := range []bool{false, true} {
		out, sum := convertString(t, BED, input, Options{KeepUnmapped: keep})
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

		assert.Equal(t, 5, sum.DataLines)
		assert.Equal(t, 2, sum.UnmappedLines)
		assert.Equal(t, []string{"X", "Y"}, sum.UnmappedIDs)
		if keep {
			assert.Len(t, lines, sum.DataLines)
		} else {
			assert.Len(t, lines, sum.DataLines-sum.UnmappedLines)
			assert.Equal(t, sum.UnmappedLines, sum.DroppedLines)
		}
	}
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}

func TestConvert_BrokenPipeIsNotAnError(t *testing.T) {
	c, err := New(BED, testTable(), Options{})
	require.NoError(t, err)

	sum, err := c.Convert(strings.NewReader("1\t0\t10\n"), failingWriter{err: syscall.EPIPE})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.DataLines)
}

func TestConvert_WriteError(t *testing.T) {
	c, err := New(BED, testTable(), Options{})
	require.NoError(t, err)

	_, err = c.Convert(strings.NewReader("1\t0\t10\n"), failingWriter{err: errors.New("disk full")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSummaryWarning(t *testing.T) {
	assert.Empty(t, Summary{DataLines: 3}.Warning())

	dropped := Summary{DataLines: 10, UnmappedLines: 4, DroppedLines: 4, UnmappedIDs: []string{"a", "b"}}
	assert.Equal(t, "2 seq-ids were not present in the mapping table; 4 of 10 lines were dropped, use --keep-unmapped to keep them", dropped.Warning())

	kept := Summary{DataLines: 2, UnmappedLines: 1, UnmappedIDs: []string{"a"}}
	assert.Contains(t, kept.Warning(), "left unchanged")
}

func TestFieldSpans(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 12}, {14, 21}}, fieldSpans("variableStep  chrom=1"))
	assert.Equal(t, [][2]int{{1, 2}}, fieldSpans(" a\t"))
	assert.Nil(t, fieldSpans("   "))
}
