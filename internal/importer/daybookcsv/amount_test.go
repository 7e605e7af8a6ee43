package daybookcsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "100", want: "100"},
		{in: "12.5", want: "12.5"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1,234,567.8", want: "1234567.8"},
		{in: "1.234,56", want: "1234.56"},
		{in: "12,50", want: "12.5"},
		{in: "1,234", want: "1234"},
		{in: "1 234,00", want: "1234"},
		{in: "-30.00", want: "-30"},
		{in: "0.005", want: "0.01"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
