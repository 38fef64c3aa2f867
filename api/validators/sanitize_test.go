package validators

import "testing"

func TestSanitizeStringTrims(t *testing.T) {
	if got := SanitizeString("  Camara PTZ  ", 0); got != "Camara PTZ" {
		t.Fatalf("expected trimmed string got %q", got)
	}
}

func TestSanitizeStringCapsLength(t *testing.T) {
	if got := SanitizeString("abcdef", 4); got != "abcd" {
		t.Fatalf("expected capped string got %q", got)
	}
	if got := SanitizeString("abc", 4); got != "abc" {
		t.Fatalf("expected untouched string got %q", got)
	}
}
