package utils

import "testing"

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(16)
	if len(s) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(s))
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("non-digit %q in %q", c, s)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"my photo.png":     "my_photo.png",
		"car.jpg":          "car.jpg",
		"":                 "file",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasRole(t *testing.T) {
	roles := []string{"user", "admin"}
	if !HasRole(roles, "admin") {
		t.Error("expected admin role")
	}
	if HasRole(roles, "superuser") {
		t.Error("unexpected superuser role")
	}
	if HasRole(nil, "user") {
		t.Error("nil roles should have nothing")
	}
}
