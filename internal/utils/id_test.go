package utils

import (
	"strings"
	"testing"
)

func TestNewGameCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := NewGameCode()
		if len(code) != GameCodeLength {
			t.Fatalf("expected %d letters, got %q", GameCodeLength, code)
		}
		if strings.ToUpper(code) != code || strings.Trim(code, codeAlphabet) != "" {
			t.Fatalf("unexpected characters in %q", code)
		}
	}
}

func TestGuestName(t *testing.T) {
	name := GuestName()
	if !strings.HasPrefix(name, "guest_") || len(name) != len("guest_")+6 {
		t.Fatalf("unexpected guest name %q", name)
	}
	if strings.ContainsAny(name, " \t") {
		t.Fatalf("guest name must not contain spaces: %q", name)
	}
}
