package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMangleHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "unique names unchanged",
			in:   []string{"WK", "USAGE"},
			want: []string{"WK", "USAGE"},
		},
		{
			name: "repeats get numbered suffixes",
			in:   []string{"WK", "USAGE", "WK", "REPEAT", "NEW", "WK", "Paid", "WK", "Paid"},
			want: []string{"WK", "USAGE", "WK.1", "REPEAT", "NEW", "WK.2", "Paid", "WK.3", "Paid.1"},
		},
		{
			name: "blank headers are unnamed by position",
			in:   []string{"Outlet Code", " ", "Ageing"},
			want: []string{"Outlet Code", "Unnamed: 1", "Ageing"},
		},
		{
			name: "suffix never collides with an existing name",
			in:   []string{"WK", "WK.1", "WK"},
			want: []string{"WK", "WK.1", "WK.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MangleHeaders(tt.in))
		})
	}
}

func TestParseColumnRange(t *testing.T) {
	r, err := parseColumnRange("B:E")
	require.NoError(t, err)
	assert.Equal(t, columnRange{Start: 2, End: 5}, r)
	assert.Equal(t, 4, r.width())

	r, err = parseColumnRange("AB:AD")
	require.NoError(t, err)
	assert.Equal(t, columnRange{Start: 28, End: 30}, r)

	r, err = parseColumnRange("C")
	require.NoError(t, err)
	assert.Equal(t, 1, r.width())

	_, err = parseColumnRange("E:B")
	assert.Error(t, err)

	_, err = parseColumnRange("1:2")
	assert.Error(t, err)
}
