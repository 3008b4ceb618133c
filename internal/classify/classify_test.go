// SPDX-License-Identifier: MIT

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Code
		wantErr error
	}{
		{name: "popular", token: "terpopuler", want: Popular},
		{name: "popular upper", token: "TERPOPULER", want: Popular},
		{name: "newest mixed", token: "TerBaru", want: Newest},
		{name: "empty", token: "", wantErr: ErrMissing},
		{name: "unknown", token: "unknown", wantErr: ErrUnknown},
		{name: "padded", token: " terbaru\t", want: Newest},
		{name: "blank", token: "   ", wantErr: ErrMissing},
		{name: "inner space", token: "ter baru", wantErr: ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"":     1,
		"1":    1,
		"2":    2,
		" 7 ":  7,
		"3abc": 3,
		"abc":  1,
		"0":    1,
		"-4":   1,
		"+5":   5,
		"1.9":  1,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParsePage(in), "ParsePage(%q)", in)
	}
}

func TestCodeToken(t *testing.T) {
	assert.Equal(t, "terpopuler", Popular.Token())
	assert.Equal(t, "terbaru", Newest.String())
	assert.Equal(t, "classify(9)", Code(9).String())
}
