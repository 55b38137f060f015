package core

import "testing"

func TestParseAddressRoundTrip(t *testing.T) {
	cases := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range cases {
		addr, err := ParseAddress(want)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", want, err)
		}
		if got := addr.Hex(); got != want {
			t.Errorf("Hex() = %q, want %q", got, want)
		}
	}
}

func TestParseAddressEIP55SpecVector(t *testing.T) {
	addr, err := ParseAddress("0x2b5c7025998f88550ef2fece8bf87935f542c190")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0x2B5c7025998f88550Ef2fEce8bf87935f542C190"
	if got := addr.Hex(); got != want {
		t.Fatalf("Hex() = %q, want %q", got, want)
	}
}

func TestParseAddressCaseInsensitive(t *testing.T) {
	lower := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	addr, err := ParseAddress(lower)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.IsZero() {
		t.Fatalf("address should not be zero")
	}
}

func TestParseAddressInvalid(t *testing.T) {
	cases := []string{
		"",
		"not-an-address",
		"0x1234",
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xZZAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	}
	for _, bad := range cases {
		if _, err := ParseAddress(bad); err == nil {
			t.Errorf("ParseAddress(%q) should have failed", bad)
		}
	}
}

func TestLooksLikeAddress(t *testing.T) {
	if !LooksLikeAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed") {
		t.Fatalf("expected true")
	}
	if LooksLikeAddress("luc.eth") {
		t.Fatalf("expected false")
	}
	if LooksLikeAddress("0x1234") {
		t.Fatalf("expected false, too short")
	}
}

func TestAddressZero(t *testing.T) {
	if !AddressZero.IsZero() {
		t.Fatalf("AddressZero should report IsZero")
	}
	var a Address
	if !a.IsZero() {
		t.Fatalf("zero-value Address should report IsZero")
	}
}
