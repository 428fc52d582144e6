package enums

import "testing"

func TestMetalTypeContainsGold(t *testing.T) {
	cases := []struct {
		value MetalType
		want  bool
	}{
		{MetalTypeGold, true},
		{MetalType("GOLD 22K"), true},
		{MetalType("rose gold"), true},
		{MetalTypeSilver, false},
		{MetalTypePlatinum, false},
		{MetalType(""), false},
	}
	for _, tc := range cases {
		if got := tc.value.ContainsGold(); got != tc.want {
			t.Fatalf("ContainsGold(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestMetalTypeContainsSilver(t *testing.T) {
	if !MetalType("Sterling Silver").ContainsSilver() {
		t.Fatal("expected substring match for sterling silver")
	}
	if MetalTypeGold.ContainsSilver() {
		t.Fatal("gold must not match silver")
	}
}

func TestParseMetalType(t *testing.T) {
	parsed, err := ParseMetalType("gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != MetalTypeGold {
		t.Fatalf("expected Gold, got %s", parsed)
	}

	if _, err := ParseMetalType("copper"); err == nil {
		t.Fatal("expected error for unknown metal")
	}
}
