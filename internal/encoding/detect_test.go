package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shankh/internal/encoding"
)

const header = "date,transaction_type,amount,description\n"

func TestNewUTF8Reader(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
		want        string
	}{
		{
			name:        "plain utf-8 passes through",
			input:       []byte(header + "2024-01-05,credit,100,Café advance\n"),
			wantCharset: encoding.CharsetUTF8,
			want:        header + "2024-01-05,credit,100,Café advance\n",
		},
		{
			name:        "utf-8 bom is stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte(header)...),
			wantCharset: encoding.CharsetUTF8BOM,
			want:        header,
		},
		{
			name:        "utf-16le with bom is decoded",
			input:       []byte{0xFF, 0xFE, 'd', 0, 'a', 0, 't', 0, 'e', 0},
			wantCharset: encoding.CharsetUTF16LE,
			want:        "date",
		},
		{
			name: "latin-1 family is decoded",
			// "Descrição avanço\n" with ç = 0xE7, ã = 0xE3
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ' ',
				'a', 'v', 'a', 'n', 0xE7, 'o', '\n',
			},
			want: "Descrição avanço\n",
		},
		{
			name:        "empty input",
			input:       nil,
			wantCharset: encoding.CharsetUTF8,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDetect_SplitRuneAtSampleEdge(t *testing.T) {
	sample := append(bytes.Repeat([]byte("a"), 4095), "ç"[0])

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(append(sample, "ç"[1], '\n')))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(got, []byte("aç\n")))
}

func TestNewUTF8Reader_LargerThanSample(t *testing.T) {
	row := "2024-01-05,debit,12.50,thread\n"
	input := header + string(bytes.Repeat([]byte(row), 500))

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}
