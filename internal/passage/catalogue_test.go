package passage

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSONL = `{"volume":"v1","page":"p1","summary":"First passage.","text":"The quick brown fox jumps over the lazy dog.","contextuality":{"text":"The quick brown fox jumps over the lazy dog.","gaps":[["quick",4,5],["lazy",35,4]]},"contextuality_plus":{"text":"The quick brown fox jumps over the lazy dog.","gaps":[["fox",16,3]]},"keyword":{"text":"The quick brown fox jumps over the lazy dog.","gaps":[["jumps",20,5]]}}

{"volume":"v1","page":"p2","summary":"Second passage.","text":"Rivers carve valleys over time.","contextuality":{"text":"Rivers carve valleys over time.","gaps":[["carve",7,5]]},"contextuality_plus":{"text":"Rivers carve valleys over time.","gaps":[]},"keyword":{"text":"Rivers carve valleys over time.","gaps":[["Rivers",0,6]]}}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passages.jsonl")
	if err := os.WriteFile(path, []byte(sampleJSONL), 0o600); err != nil {
		t.Fatalf("Failed to write sample file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Size() != 2 {
		t.Fatalf("Expected 2 passages, got %d", c.Size())
	}

	p, ok := c.Get(1)
	if !ok {
		t.Fatal("Expected passage 1")
	}
	if p.Volume != "v1" || p.Page != "p1" {
		t.Errorf("Unexpected metadata: %s/%s", p.Volume, p.Page)
	}
	if len(p.Contextuality.Gaps) != 2 {
		t.Fatalf("Expected 2 contextuality gaps, got %d", len(p.Contextuality.Gaps))
	}
	gap := p.Contextuality.Gaps[0]
	if gap.Word != "quick" || gap.StartIdx != 4 || gap.Length != 5 {
		t.Errorf("Unexpected gap tuple: %+v", gap)
	}
}

func TestGetBounds(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, id := range []int{0, -1, 3, 100} {
		if _, ok := c.Get(id); ok {
			t.Errorf("Expected no passage for id %d", id)
		}
	}
}

func TestVariantLookup(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, _ := c.Get(2)

	testCases := []struct {
		method   string
		wantGaps int
		wantOK   bool
	}{
		{"contextuality", 1, true},
		{"contextuality_plus", 0, true},
		{"keyword", 1, true},
		{"A", 1, true}, // legacy code resolves through normalization
		{"unknown", 0, false},
	}

	for _, tc := range testCases {
		v, ok := p.Variant(tc.method)
		if ok != tc.wantOK {
			t.Errorf("Variant(%q) ok = %v, want %v", tc.method, ok, tc.wantOK)
			continue
		}
		if ok && len(v.Gaps) != tc.wantGaps {
			t.Errorf("Variant(%q) has %d gaps, want %d", tc.method, len(v.Gaps), tc.wantGaps)
		}
	}
}

func TestLoadRejectsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected an error for malformed JSONL")
	}
}
