package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "fenced json",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "fenced without language",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding prose",
			input: "Here is the result: {\"min\": 9000, \"max\": 14000} as requested.",
			want:  `{"min": 9000, "max": 14000}`,
		},
		{
			name:  "nested objects",
			input: `{"outer": {"inner": 2}} trailing`,
			want:  `{"outer": {"inner": 2}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"note": "uses { and } freely"}`,
			want:  `{"note": "uses { and } freely"}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"note": "she said \"hi\" {"}`,
			want:  `{"note": "she said \"hi\" {"}`,
		},
		{
			name:    "no object",
			input:   "sorry, I cannot answer that",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"a": {`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSONObject(t *testing.T) {
	var out struct {
		Min float64 `json:"salaire_min"`
		Max float64 `json:"salaire_max"`
	}
	err := DecodeJSONObject("```json\n{\"salaire_min\": 12000, \"salaire_max\": 20000}\n```", &out)
	require.NoError(t, err)
	require.Equal(t, 12000.0, out.Min)
	require.Equal(t, 20000.0, out.Max)
}
