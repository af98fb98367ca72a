package normalization

import (
	"testing"
)

type testMode string

const (
	modeIgnore testMode = "ignore"
	modeWarn   testMode = "warn"
	modeFail   testMode = "fail"
)

func newModeNormalizer() *Normalizer[testMode] {
	return NewNormalizer(map[string]testMode{
		"ignore": modeIgnore,
		"warn":   modeWarn,
		"fail":   modeFail,
	}, modeIgnore)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newModeNormalizer()

	tests := []struct {
		name     string
		input    string
		expected testMode
	}{
		{"exact match", "warn", modeWarn},
		{"case insensitive", "FAIL", modeFail},
		{"with spaces", "  warn  ", modeWarn},
		{"invalid input", "explode", modeIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newModeNormalizer()

	if got, err := n.NormalizeWithError(""); err != nil || got != modeIgnore {
		t.Fatalf("empty input: got %v, %v", got, err)
	}
	if got, err := n.NormalizeWithError("Fail"); err != nil || got != modeFail {
		t.Fatalf("Fail: got %v, %v", got, err)
	}
	if _, err := n.NormalizeWithError("explode"); err == nil {
		t.Fatal("expected error for unknown value")
	}
}

func TestNormalizer_ValidKeysSorted(t *testing.T) {
	keys := newModeNormalizer().ValidKeys()
	want := []string{"fail", "ignore", "warn"}
	if len(keys) != len(want) {
		t.Fatalf("ValidKeys() = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("ValidKeys() = %v, want %v", keys, want)
		}
	}
}
