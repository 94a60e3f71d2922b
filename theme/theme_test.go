package theme

import (
	"strings"
	"testing"
)

const testGPL = `GIMP Palette
Name: mono
Columns: 2
# comment
0 0 0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(testGPL))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "mono" {
		t.Errorf("Name = %q, want mono", p.Name)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("got %d colors, want 2", len(p.Colors))
	}
}

func TestParseGPLEmpty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("expected error for palette without colors")
	}
}

func TestParseGPLRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short row", "GIMP Palette\n10 20\n"},
		{"over 255", "GIMP Palette\n10 20 300 hot\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGPL(strings.NewReader(tt.in)); err == nil || !strings.Contains(err.Error(), "line 2") {
				t.Errorf("err = %v, want an error for line 2", err)
			}
		})
	}
}

func TestLookupSingleColor(t *testing.T) {
	p := &Palette{Colors: []RGB{{9, 8, 7}}}
	for _, norm := range []float64{0, 0.5, 1} {
		if got := p.Lookup(norm); got != (RGB{9, 8, 7}) {
			t.Errorf("Lookup(%v) = %v", norm, got)
		}
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 25}},
		{1, RGB{200, 100, 50}},
		{2, RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestSpread(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	got := p.Spread(3)
	if len(got) != 3 || got[0] != (RGB{0, 0, 0}) || got[2] != (RGB{200, 100, 50}) {
		t.Errorf("Spread(3) = %v", got)
	}
	if one := p.Spread(1); one[0] != (RGB{100, 50, 25}) {
		t.Errorf("Spread(1) = %v", one)
	}
}

func TestThemeColors(t *testing.T) {
	th := New(nil)
	if th.Palette != Plasma {
		t.Error("nil palette should fall back to Plasma")
	}
	if c := string(th.Success()); c != "#f0f921" {
		t.Errorf("Success = %s, want #f0f921", c)
	}
}
