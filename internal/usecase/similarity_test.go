package usecase

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "model number with hyphen",
			input: "Sony WH-1000XM5",
			want:  []string{"sony", "wh", "1000xm5"},
		},
		{
			name:  "leading and trailing punctuation",
			input: "  (Apple) AirPods Pro, 2nd Gen! ",
			want:  []string{"apple", "airpods", "pro", "2nd", "gen"},
		},
		{
			name:  "underscore is a word character",
			input: "galaxy_buds2 pro",
			want:  []string{"galaxy_buds2", "pro"},
		},
		{
			name:  "only separators",
			input: " -- // ",
			want:  []string{},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	first := Tokenize("JBL Tune 760NC")
	for i := 0; i < 10; i++ {
		if got := Tokenize("JBL Tune 760NC"); !reflect.DeepEqual(got, first) {
			t.Fatalf("Tokenize() not deterministic: %v vs %v", got, first)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "half overlap", a: []string{"a", "b"}, b: []string{"b", "c"}, want: 0.5},
		{name: "identical", a: []string{"sony", "wh", "1000xm5"}, b: []string{"sony", "wh", "1000xm5"}, want: 1},
		{name: "disjoint", a: []string{"apple"}, b: []string{"samsung"}, want: 0},
		{name: "both empty", a: []string{}, b: []string{}, want: 0},
		{name: "nil inputs", a: nil, b: nil, want: 0},
		{name: "one empty", a: []string{}, b: []string{"x"}, want: 0},
		{
			name: "different lengths",
			a:    []string{"sony", "wh", "1000xm5"},
			b:    []string{"sony", "wh", "1000xm4", "headphones", "black"},
			want: 2.0 / 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("Score() = %v, want finite", got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScore_DuplicatesAreAsymmetric(t *testing.T) {
	a := []string{"pro", "pro"}
	b := []string{"pro", "max"}

	// a's duplicates each hit b's set: 2 / 2 = 1
	if got := Score(a, b); got != 1 {
		t.Errorf("Score(a, b) = %v, want 1", got)
	}
	// only one of b's tokens is in a's set: 1 / 2 = 0.5
	if got := Score(b, a); got != 0.5 {
		t.Errorf("Score(b, a) = %v, want 0.5", got)
	}
}

func TestMaxScore(t *testing.T) {
	tokens := Tokenize("Samsung Galaxy Buds2 Pro")

	t.Run("no candidates", func(t *testing.T) {
		if got := MaxScore(tokens, nil); got != 0 {
			t.Errorf("MaxScore() = %v, want 0", got)
		}
	})

	t.Run("picks best candidate", func(t *testing.T) {
		candidates := [][]string{
			Tokenize("Apple AirPods Pro"),
			Tokenize("Samsung Galaxy Buds2 Pro"),
			Tokenize("Galaxy Watch"),
		}
		if got := MaxScore(tokens, candidates); got != 1 {
			t.Errorf("MaxScore() = %v, want 1", got)
		}
	})
}
