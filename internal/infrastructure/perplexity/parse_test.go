package perplexity

import (
	"reflect"
	"testing"
)

func TestParseProductNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "clean json array",
			raw:  `["Sony WH-1000XM5", "Samsung Galaxy Buds2 Pro", "JBL Tune 760NC"]`,
			want: []string{"Sony WH-1000XM5", "Samsung Galaxy Buds2 Pro", "JBL Tune 760NC"},
		},
		{
			name: "json inside code fence",
			raw:  "```json\n[\"Apple AirPods Pro\", \"Bose QuietComfort Ultra\"]\n```",
			want: []string{"Apple AirPods Pro", "Bose QuietComfort Ultra"},
		},
		{
			name: "uppercase fence marker",
			raw:  "```JSON\n[\"Pixel 9\"]\n```",
			want: []string{"Pixel 9"},
		},
		{
			name: "prose wrapped array falls back to quoted values",
			raw:  `Here are some picks: ["Kindle Paperwhite", "Kobo Clara 2E"]. Enjoy!`,
			want: []string{"Kindle Paperwhite", "Kobo Clara 2E"},
		},
		{
			name: "numbered prose with quotes",
			raw:  "1. \"Dyson V15 Detect\" is great\n2. \"Shark Stratos\" is cheaper",
			want: []string{"Dyson V15 Detect", "Shark Stratos"},
		},
		{
			name: "duplicates removed in first-seen order",
			raw:  `["B", "A", "B", "C", "A"]`,
			want: []string{"B", "A", "C"},
		},
		{
			name: "capped at six",
			raw:  `["1", "2", "3", "4", "5", "6", "7", "8"]`,
			want: []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name: "non-string elements ignored",
			raw:  `["Roku Ultra", 42, null, {"name": "x"}, "Apple TV 4K"]`,
			want: []string{"Roku Ultra", "Apple TV 4K"},
		},
		{
			name: "valid json object is not an array",
			raw:  `{"products": ["Echo Dot"]}`,
			want: []string{},
		},
		{
			name: "no quotes at all",
			raw:  "Sorry, I cannot help with that.",
			want: []string{},
		},
		{
			name: "empty",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseProductNames(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseProductNames() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
