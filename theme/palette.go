package theme

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type RGB [3]uint8

type Palette struct {
	Name   string
	Colors []RGB
}

// Plasma is the built-in palette, dark purple through yellow
var Plasma = &Palette{
	Name: "plasma",
	Colors: []RGB{
		{13, 8, 135},
		{75, 3, 161},
		{125, 3, 168},
		{168, 34, 150},
		{203, 70, 121},
		{229, 107, 93},
		{248, 148, 65},
		{253, 195, 40},
		{240, 249, 33},
	},
}

// LoadGPL reads the GIMP palette given to --palette
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, errors.Wrapf(err, "palette %s", filepath.Base(path))
	}
	return p, nil
}

// ParseGPL reads the "Name:" header and the "R G B [label]" rows of a
// GIMP palette. Other lines are ignored.
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)

	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}

		var c [3]int
		if _, err := fmt.Sscan(line, &c[0], &c[1], &c[2]); err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		if slices.ContainsFunc(c[:], func(v int) bool { return v > 255 }) {
			return nil, errors.Errorf("line %d: component over 255", n)
		}
		p.Colors = append(p.Colors, RGB{uint8(c[0]), uint8(c[1]), uint8(c[2])})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, errors.New("no colors")
	}
	return p, nil
}

// Lookup blends the two palette entries around norm, clamped to [0, 1]
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	pos := math.Max(0, math.Min(1, norm)) * float64(last)
	i, frac := math.Modf(pos)
	lo := int(i)
	if lo >= last {
		return p.Colors[last]
	}

	var out RGB
	for k := range out {
		a, b := float64(p.Colors[lo][k]), float64(p.Colors[lo+1][k])
		out[k] = uint8(a + (b-a)*frac)
	}
	return out
}

// Spread returns n colors evenly spaced across the palette
func (p *Palette) Spread(n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		if n == 1 {
			out[i] = p.Lookup(0.5)
			continue
		}
		out[i] = p.Lookup(float64(i) / float64(n-1))
	}
	return out
}
