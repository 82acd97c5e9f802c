package convert

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSAM_Rewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		keep     bool
		want     string
		data     int
		unmapped int
	}{
		{
			name:  "sequence header",
			input: "@SQ\tSN:1\tLN:249250621\n",
			want:  "@SQ\tSN:chr1\tLN:249250621\n",
			data:  1,
		},
		{
			name:  "SN tag after other tags",
			input: "@SQ\tLN:16569\tSN:MT\tM5:c68f52674c9fb33aef52dcf399755519\n",
			want:  "@SQ\tLN:16569\tSN:chrM\tM5:c68f52674c9fb33aef52dcf399755519\n",
			data:  1,
		},
		{
			name:  "other headers pass through",
			input: "@HD\tVN:1.6\tSO:coordinate\n@RG\tID:1\tSM:x\n@PG\tID:bwa\tCL:bwa mem ref.fa 1.fq\n",
			want:  "@HD\tVN:1.6\tSO:coordinate\n@RG\tID:1\tSM:x\n@PG\tID:bwa\tCL:bwa mem ref.fa 1.fq\n",
		},
		{
			name:  "alignment record",
			input: "r001\t99\t1\t7\t30\t8M2I4M1D3M\t=\t37\t39\tTTAGATAAAGGATACTG\t*\n",
			want:  "r001\t99\tchr1\t7\t30\t8M2I4M1D3M\t=\t37\t39\tTTAGATAAAGGATACTG\t*\n",
			data:  1,
		},
		{
			name:  "unplaced read",
			input: "r002\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII\n",
			want:  "r002\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII\n",
			data:  1,
		},
		{
			name:     "unmapped header and record dropped",
			input:    "@SQ\tSN:7\tLN:10\nr003\t0\t7\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\n",
			want:     "",
			data:     2,
			unmapped: 2,
		},
		{
			name:     "unmapped header kept",
			input:    "@SQ\tSN:7\tLN:10\n",
			keep:     true,
			want:     "@SQ\tSN:7\tLN:10\n",
			data:     1,
			unmapped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sum := convertString(t, SAM, tt.input, Options{KeepUnmapped: tt.keep})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.data, sum.DataLines, "data lines")
			assert.Equal(t, tt.unmapped, sum.UnmappedLines, "unmapped lines")
		})
	}
}

func TestSAM_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short record", "r001\t0\n"},
		{"@SQ without SN", "@SQ\tLN:10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(SAM, testTable(), Options{})
			require.NoError(t, err)

			_, err = c.Convert(strings.NewReader(tt.input), &bytes.Buffer{})
			var recErr *MalformedRecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, SAM, recErr.Format)
			assert.Equal(t, 1, recErr.Line)
		})
	}
}
