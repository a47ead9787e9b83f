package checker

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Puhua ", want: "puhua"},
		{in: "ÄITI", want: "äiti"},
		{in: "Öljy", want: "öljy"},
		{in: "Äiti", want: "äiti"},
		{in: "\t\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnglishVariants(t *testing.T) {
	tests := []struct {
		base    string
		include []string
	}{
		{base: "to eat", include: []string{"to eat", "eat"}},
		{base: "he/she runs", include: []string{"he runs", "she runs", "runs"}},
		{base: "He/She runs", include: []string{"he runs", "she runs", "runs"}},
		{base: "house/home", include: []string{"house/home", "house", "home"}},
		{base: "you (plural)", include: []string{"you (plural)", "you"}},
		{base: "To Speak (formally)", include: []string{"to speak", "speak"}},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got := EnglishVariants(tt.base)
			for _, want := range tt.include {
				if !slices.Contains(got, want) {
					t.Errorf("EnglishVariants(%q) = %v, missing %q", tt.base, got, want)
				}
			}
		})
	}
}

func TestExpandHeSheKeepsOffsets(t *testing.T) {
	// İ grows when lowercased, so offsets must come from the original text
	got := expandHeShe("İİ He/She runs")
	want := []string{"İİ he runs", "İİ she runs", "İİ runs"}
	if !slices.Equal(got, want) {
		t.Errorf("expandHeShe() = %q, want %q", got, want)
	}
	if got := expandHeShe("runs"); !slices.Equal(got, []string{"runs"}) {
		t.Errorf("expandHeShe(runs) = %q", got)
	}
}

func TestMatchEnglish(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		accepted []string
		want     bool
	}{
		{name: "leading to stripped", answer: "Eat", accepted: []string{"to eat"}, want: true},
		{name: "he/she expanded", answer: "she runs", accepted: []string{"he/she runs"}, want: true},
		{name: "bare form", answer: "runs", accepted: []string{"he/she runs"}, want: true},
		{name: "synonym", answer: "dwelling", accepted: []string{"house", "dwelling"}, want: true},
		{name: "typo rejected", answer: "eatt", accepted: []string{"to eat"}, want: false},
		{name: "empty never matches", answer: "   ", accepted: []string{"to eat"}, want: false},
		{name: "no accepted forms", answer: "eat", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchEnglish(tt.answer, tt.accepted...); got != tt.want {
				t.Errorf("MatchEnglish(%q, %v) = %v, want %v", tt.answer, tt.accepted, got, tt.want)
			}
		})
	}
}

func TestMatchFinnish(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		accepted []string
		want     bool
	}{
		{name: "case insensitive", answer: "Puhua", accepted: []string{"puhua"}, want: true},
		{name: "no fuzzy matching", answer: "puhu", accepted: []string{"puhua"}, want: false},
		{name: "alternate", answer: "kuinka", accepted: []string{"miten/kuinka"}, want: true},
		{name: "umlaut uppercase", answer: "ÄIDILLE", accepted: []string{"äidille"}, want: true},
		{name: "umlaut differs", answer: "aidille", accepted: []string{"äidille"}, want: false},
		{name: "whitespace only", answer: " ", accepted: []string{"puhua"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchFinnish(tt.answer, tt.accepted...); got != tt.want {
				t.Errorf("MatchFinnish(%q, %v) = %v, want %v", tt.answer, tt.accepted, got, tt.want)
			}
		})
	}
}

func TestPrimary(t *testing.T) {
	if got := Primary("miten/kuinka"); got != "miten" {
		t.Errorf("Primary() = %q, want miten", got)
	}
	if got := Primary("", "to eat"); got != "to eat" {
		t.Errorf("Primary() = %q, want to eat", got)
	}
	if got := Primary(); got != "" {
		t.Errorf("Primary() = %q, want empty", got)
	}
}
