package core

import "testing"

func TestNewIdentityTrims(t *testing.T) {
	id := NewIdentity("  Ali Khan ", " 0300-1111111  ")
	if id.Name != "Ali Khan" {
		t.Errorf("expected trimmed name, got %q", id.Name)
	}
	if id.Phone != "0300-1111111" {
		t.Errorf("expected trimmed phone, got %q", id.Phone)
	}
}

func TestIdentityKeyIsCaseSensitive(t *testing.T) {
	a := NewIdentity("Ali", "123")
	b := NewIdentity("ali", "123")
	if a.Key() == b.Key() {
		t.Error("keys for differently-cased names must differ")
	}
}

func TestIdentityValid(t *testing.T) {
	cases := []struct {
		name, phone string
		want        bool
	}{
		{"Ali", "123", true},
		{"", "123", false},
		{"Ali", "", false},
		{"   ", "123", false},
	}
	for _, c := range cases {
		if got := NewIdentity(c.name, c.phone).Valid(); got != c.want {
			t.Errorf("Valid(%q, %q) = %v, want %v", c.name, c.phone, got, c.want)
		}
	}
}

func TestIdentityOfSale(t *testing.T) {
	sale := &Sale{CustomerName: " Ali ", CustomerPhone: " 123 "}
	id := IdentityOfSale(sale)
	if id.Name != "Ali" || id.Phone != "123" {
		t.Errorf("unexpected identity %+v", id)
	}
}
