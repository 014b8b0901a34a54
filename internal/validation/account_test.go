package validation

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "valid", password: "kuyou2024pass", ok: true},
		{name: "minimum length", password: "abcdefg1", ok: true},
		{name: "too short", password: "abc1", ok: false},
		{name: "no digit", password: "onlyletters", ok: false},
		{name: "no letter", password: "12345678", ok: false},
		{name: "too long", password: strings.Repeat("a1", 65), ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected valid password, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid password, got nil error")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		ok    bool
	}{
		{name: "valid", email: "user@example.com", ok: true},
		{name: "valid with plus", email: "user+tag@example.co.jp", ok: true},
		{name: "missing at", email: "userexample.com", ok: false},
		{name: "missing domain", email: "user@", ok: false},
		{name: "missing tld", email: "user@example", ok: false},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.com", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmail(tc.email)
			if tc.ok && err != nil {
				t.Fatalf("expected valid email, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid email, got nil error")
			}
		})
	}
}

func TestValidateNickname(t *testing.T) {
	t.Parallel()

	if err := ValidateNickname(""); err != nil {
		t.Fatalf("empty nickname should be allowed, got: %v", err)
	}
	if err := ValidateNickname("悩める旅人#0042"); err != nil {
		t.Fatalf("expected valid nickname, got: %v", err)
	}
	if err := ValidateNickname(strings.Repeat("あ", 31)); err == nil {
		t.Fatal("expected 31-rune nickname to fail")
	}
	if err := ValidateNickname("bad\nname"); err == nil {
		t.Fatal("expected control character to fail")
	}
}
