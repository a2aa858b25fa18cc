package methods

import (
	"testing"
)

func TestConvertToStandard(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"legacy A", "A", "contextuality"},
		{"legacy B", "B", "contextuality_plus"},
		{"legacy C", "C", "keyword"},
		{"legacy lowercase a", "a", "contextuality"},
		{"canonical identity", "contextuality", "contextuality"},
		{"canonical plus identity", "contextuality_plus", "contextuality_plus"},
		{"unknown passes through", "mystery", "mystery"},
		{"empty passes through", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertToStandard(tc.input)
			if got != tc.expected {
				t.Errorf("ConvertToStandard(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, m := range All {
		if !IsValid(m) {
			t.Errorf("Expected %q to be valid", m)
		}
	}

	invalid := []string{"A", "B", "C", "", "keywords", "Contextuality"}
	for _, m := range invalid {
		if IsValid(m) {
			t.Errorf("Expected %q to be invalid", m)
		}
	}
}

func TestLegacyCode(t *testing.T) {
	testCases := []struct {
		method   string
		expected string
	}{
		{Contextuality, "a"},
		{ContextualityPlus, "b"},
		{Keyword, "c"},
		{"unknown", ""},
	}

	for _, tc := range testCases {
		if got := LegacyCode(tc.method); got != tc.expected {
			t.Errorf("LegacyCode(%q) = %q, want %q", tc.method, got, tc.expected)
		}
	}
}

func TestLabelAndDescriptionFallbacks(t *testing.T) {
	if Label(Keyword) != "Keyword-Based Gaps" {
		t.Errorf("Unexpected label for keyword: %q", Label(Keyword))
	}
	if Label("custom") != "custom" {
		t.Errorf("Expected unknown method label to pass through, got %q", Label("custom"))
	}
	if Description("custom") == "" {
		t.Error("Expected a fallback description for unknown methods")
	}
}
