package service

import (
	"context"
	"errors"
	"testing"

	"cloze-study-service/internal/models"
)

func TestBuildClozeText(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."

	testCases := []struct {
		name string
		gaps []models.Gap
		want string
	}{
		{"no gaps", nil, text},
		{
			"single gap",
			[]models.Gap{{Word: "quick", StartIdx: 4, EndIdx: 9}},
			"The _____ brown fox jumps over the lazy dog.",
		},
		{
			"multiple gaps out of order",
			[]models.Gap{
				{Word: "lazy", StartIdx: 35, EndIdx: 39},
				{Word: "quick", StartIdx: 4, EndIdx: 9},
			},
			"The _____ brown fox jumps over the _____ dog.",
		},
		{
			"out of range gap skipped",
			[]models.Gap{
				{Word: "quick", StartIdx: 4, EndIdx: 9},
				{Word: "ghost", StartIdx: 100, EndIdx: 110},
				{Word: "bad", StartIdx: 8, EndIdx: 3},
			},
			"The _____ brown fox jumps over the lazy dog.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildClozeText(text, tc.gaps)
			if got != tc.want {
				t.Errorf("buildClozeText = %q, want %q", got, tc.want)
			}
		})
	}
}

// Gap spans arrive as code point offsets, so multi-byte characters before a
// span must not shift it.
func TestBuildClozeTextRuneOffsets(t *testing.T) {
	testCases := []struct {
		name string
		text string
		gaps []models.Gap
		want string
	}{
		{
			"accented character before gap",
			"Où est le chat noir ?",
			[]models.Gap{{Word: "chat", StartIdx: 10, EndIdx: 14}},
			"Où est le _____ noir ?",
		},
		{
			"two gaps after multi-byte runes",
			"Où est le chat noir ?",
			[]models.Gap{
				{Word: "chat", StartIdx: 10, EndIdx: 14},
				{Word: "noir", StartIdx: 15, EndIdx: 19},
			},
			"Où est le _____ _____ ?",
		},
		{
			"span past rune length skipped",
			"Él come",
			[]models.Gap{{Word: "come", StartIdx: 3, EndIdx: 8}},
			"Él come",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildClozeText(tc.text, tc.gaps)
			if got != tc.want {
				t.Errorf("buildClozeText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateGapsUnknownMethod(t *testing.T) {
	s := NewGapService(nil, nil, nil)
	set, err := s.GenerateGaps(context.Background(), "mystery", 1, 10)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
	if set != nil {
		t.Fatalf("set = %v, want nil", set)
	}
}
