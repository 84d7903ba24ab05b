package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("New() returned invalid uuid %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7 uuid, got %q", id)
	}
	if New() == id {
		t.Error("expected distinct ids from consecutive calls")
	}
}

func TestParse(t *testing.T) {
	upper := strings.ToUpper(New())
	got, err := Parse(upper)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", upper, err)
	}
	if got != strings.ToLower(upper) {
		t.Errorf("Parse(%q) = %q, want lower-case form", upper, got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for malformed uuid")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0190b2a4-3b4c-7d5e-8f60-123456789abc", true},
		{"", false},
		{"1234", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.in); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
