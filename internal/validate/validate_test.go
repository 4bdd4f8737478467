package validate_test

import (
	"strings"
	"testing"

	"chronoworks/internal/validate"
)

func TestEmail(t *testing.T) {
	good := []string{"a@b.co", "user.name+tag@example.com", " padded@example.com "}
	for _, s := range good {
		if _, ok := validate.Email(s); !ok {
			t.Errorf("Email(%q) should pass", s)
		}
	}
	bad := []string{"", "nope", "a@b", "a b@c.com", strings.Repeat("x", 101) + "@x.com"}
	for _, s := range bad {
		if _, ok := validate.Email(s); ok {
			t.Errorf("Email(%q) should fail", s)
		}
	}
}

func TestUsername(t *testing.T) {
	if _, ok := validate.Username("ab"); ok {
		t.Error("two chars is too short")
	}
	if _, ok := validate.Username("alice_01"); !ok {
		t.Error("alice_01 should pass")
	}
	if _, ok := validate.Username("a l i c e"); ok {
		t.Error("spaces should fail")
	}
}

func TestQty(t *testing.T) {
	cases := map[string]int{"": 1, "abc": 1, "-5": 1, "0": 1, "7": 7, "999": 50}
	for in, want := range cases {
		if got := validate.Qty(in); got != want {
			t.Errorf("Qty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestID(t *testing.T) {
	if _, ok := validate.ID("550e8400-e29b-41d4-a716-446655440000"); !ok {
		t.Error("uuid should pass")
	}
	if _, ok := validate.ID(""); ok {
		t.Error("empty should fail")
	}
	if _, ok := validate.ID("../../etc/passwd"); ok {
		t.Error("path chars should fail")
	}
}

func TestPassword(t *testing.T) {
	if validate.Password("short") {
		t.Error("7 chars should fail")
	}
	if !validate.Password("12345678") {
		t.Error("8 chars should pass")
	}
	if validate.Password(strings.Repeat("x", 73)) {
		t.Error("73 chars should fail")
	}
}

func TestPage(t *testing.T) {
	limit, offset := validate.Page("", "", 50, 100)
	if limit != 50 || offset != 0 {
		t.Errorf("defaults: got %d/%d", limit, offset)
	}
	limit, offset = validate.Page("500", "-3", 50, 100)
	if limit != 100 || offset != 0 {
		t.Errorf("clamping: got %d/%d", limit, offset)
	}
	limit, offset = validate.Page("10", "20", 50, 100)
	if limit != 10 || offset != 20 {
		t.Errorf("pass-through: got %d/%d", limit, offset)
	}
}
