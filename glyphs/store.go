// This file is part of Subwaysign.
//
// Subwaysign is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Subwaysign is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Subwaysign.  If not, see <https://www.gnu.org/licenses/>.

package glyphs

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/transit"
	"gopkg.in/yaml.v3"
)

// LoadError is returned for any failure while loading a font description.
// Failing to load the font is fatal to the render loop.
const LoadError = "glyphs: %v"

//go:embed "assets/subway.yaml"
var defaultFont []byte

// row is a single bitmap row as it appears in the font document. It accepts
// decimal, 0x and 0b scalars.
type row uint64

func (r *row) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return curated.Errorf("row at line %d is not a scalar", n.Line)
	}
	v, err := strconv.ParseUint(n.Value, 0, 64)
	if err != nil {
		return curated.Errorf("row at line %d: %v", n.Line, err)
	}
	*r = row(v)
	return nil
}

type iconDocument struct {
	Route    string `yaml:"route"`
	Shape    string `yaml:"shape"`
	Express  *bool  `yaml:"express"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Baseline int    `yaml:"baseline"`
	Color    string `yaml:"color"`
	Rows     []row  `yaml:"rows"`
}

type fontDocument struct {
	Name             string            `yaml:"name"`
	Height           int               `yaml:"height"`
	SpaceWidth       int               `yaml:"space_width"`
	Spacing          int               `yaml:"spacing"`
	SynthesizeItalic bool              `yaml:"synthesize_italic"`
	Chars            map[string][]row  `yaml:"chars"`
	Italic           map[string][]row  `yaml:"italic"`
	Icons            []iconDocument    `yaml:"icons"`
	Aliases          map[string]string `yaml:"aliases"`
}

type iconKey struct {
	route   string
	express bool
}

// Store is the collection of decoded glyphs. It is immutable after Load()
// and safe for concurrent use.
type Store struct {
	name    string
	height  int
	spacing int

	regular map[rune]*Glyph
	italic  map[rune]*Glyph
	icons   map[iconKey]*Glyph
}

// LoadDefault loads the font description built into the binary.
func LoadDefault() (*Store, error) {
	return Load(bytes.NewReader(defaultFont))
}

// LoadFile loads the font description at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a font description. Any error is a LoadError.
func Load(r io.Reader) (*Store, error) {
	var doc fontDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, curated.Errorf(LoadError, err)
	}

	if doc.Height <= 0 || doc.Height > 64 {
		return nil, curated.Errorf(LoadError, curated.Errorf("unsupported font height (%d)", doc.Height))
	}
	if doc.SpaceWidth != 0 && doc.SpaceWidth != SpaceWidth {
		return nil, curated.Errorf(LoadError, curated.Errorf("space width must be %d", SpaceWidth))
	}
	if len(doc.Chars) == 0 {
		return nil, curated.Errorf(LoadError, "no characters in font")
	}

	str := &Store{
		name:    doc.Name,
		height:  doc.Height,
		spacing: doc.Spacing,
		regular: make(map[rune]*Glyph, len(doc.Chars)),
		italic:  make(map[rune]*Glyph, len(doc.Chars)),
		icons:   make(map[iconKey]*Glyph, len(doc.Icons)),
	}

	for k, rows := range doc.Chars {
		ch, err := charKey(k)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		g, err := str.decodeChar(ch, rows)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		str.regular[ch] = g
	}

	for k, rows := range doc.Italic {
		ch, err := charKey(k)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		g, err := str.decodeChar(ch, rows)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		str.italic[ch] = g
	}

	if doc.SynthesizeItalic {
		for ch, g := range str.regular {
			if _, ok := str.italic[ch]; ok {
				continue
			}
			// the space is never slanted
			if ch == ' ' {
				continue
			}
			str.italic[ch] = newCharGlyph(ch, italicise(g.Rows, g.Height))
		}
	}

	for _, ic := range doc.Icons {
		g, key, err := decodeIcon(ic)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		if _, ok := str.icons[key]; ok {
			return nil, curated.Errorf(LoadError, curated.Errorf("duplicate icon (%s %s)", ic.Route, g.Shape))
		}
		str.icons[key] = g
	}

	for alias, route := range doc.Aliases {
		found := false
		for _, express := range []bool{false, true} {
			if g, ok := str.icons[iconKey{route: route, express: express}]; ok {
				str.icons[iconKey{route: alias, express: express}] = g
				found = true
			}
		}
		if !found {
			return nil, curated.Errorf(LoadError, curated.Errorf("alias %s refers to unknown route %s", alias, route))
		}
	}

	return str, nil
}

// charKey interprets a key from the chars section. A single character is
// the character itself. A longer key is a decimal code point.
func charKey(k string) (rune, error) {
	if utf8.RuneCountInString(k) == 1 {
		r, _ := utf8.DecodeRuneInString(k)
		return r, nil
	}
	v, err := strconv.ParseInt(k, 10, 32)
	if err != nil || v < 0 || !utf8.ValidRune(rune(v)) {
		return 0, curated.Errorf("invalid character key (%q)", k)
	}
	return rune(v), nil
}

func (str *Store) decodeChar(ch rune, rows []row) (*Glyph, error) {
	if len(rows) != str.height {
		return nil, curated.Errorf("character %q has %d rows, expected %d", ch, len(rows), str.height)
	}
	r := make([]uint64, len(rows))
	for i := range rows {
		r[i] = uint64(rows[i])
	}
	return newCharGlyph(ch, r), nil
}

func decodeIcon(ic iconDocument) (*Glyph, iconKey, error) {
	if ic.Route == "" {
		return nil, iconKey{}, curated.Errorf("icon with no route")
	}
	if ic.Width <= 0 || ic.Width > 64 {
		return nil, iconKey{}, curated.Errorf("icon %s has unsupported width (%d)", ic.Route, ic.Width)
	}
	if len(ic.Rows) != ic.Height {
		return nil, iconKey{}, curated.Errorf("icon %s has %d rows, expected %d", ic.Route, len(ic.Rows), ic.Height)
	}

	var shape IconShape
	switch ic.Shape {
	case "circle", "":
		shape = Circle
	case "diamond":
		shape = Diamond
	default:
		return nil, iconKey{}, curated.Errorf("icon %s has unknown shape (%s)", ic.Route, ic.Shape)
	}

	express := shape == Diamond
	if ic.Express != nil {
		express = *ic.Express
	}

	col := transit.RouteColor(ic.Route)
	if ic.Color != "" {
		var err error
		col, err = transit.ParseHex(ic.Color)
		if err != nil {
			return nil, iconKey{}, curated.Errorf("icon %s: %v", ic.Route, err)
		}
	}

	rows := make([]uint64, len(ic.Rows))
	for i := range ic.Rows {
		rows[i] = uint64(ic.Rows[i])
		if rows[i]>>uint(ic.Width) != 0 {
			return nil, iconKey{}, curated.Errorf("icon %s row %d is wider than %d", ic.Route, i, ic.Width)
		}
	}

	g := newIconGlyph(rows, ic.Width)
	g.Shape = shape
	g.Baseline = ic.Baseline
	g.Color = col

	return g, iconKey{route: ic.Route, express: express}, nil
}

// Name of the font as given in the description.
func (str *Store) Name() string {
	return str.name
}

// Height of every character glyph.
func (str *Store) Height() int {
	return str.height
}

// Spacing is the default gap between characters.
func (str *Store) Spacing() int {
	return str.spacing
}

// Glyph returns the glyph for a character in the requested style. An italic
// lookup with no italic form returns the regular glyph.
func (str *Store) Glyph(ch rune, style Style) (*Glyph, bool) {
	if style == Italic {
		if g, ok := str.italic[ch]; ok {
			return g, true
		}
	}
	g, ok := str.regular[ch]
	return g, ok
}

// HasChar returns true if the character has a regular glyph.
func (str *Store) HasChar(ch rune) bool {
	_, ok := str.regular[ch]
	return ok
}

// Icon returns the route icon. There is no fallback between the express and
// local forms.
func (str *Store) Icon(route string, express bool) (*Glyph, bool) {
	g, ok := str.icons[iconKey{route: route, express: express}]
	return g, ok
}

// Icons returns the sorted list of routes with at least one icon. Express
// routes are suffixed with "x".
func (str *Store) Icons() []string {
	l := make([]string, 0, len(str.icons))
	for k := range str.icons {
		if k.express {
			l = append(l, k.route+"x")
		} else {
			l = append(l, k.route)
		}
	}
	sort.Strings(l)
	return l
}

// Chars returns the sorted list of characters with a regular glyph.
func (str *Store) Chars() []rune {
	l := make([]rune, 0, len(str.regular))
	for ch := range str.regular {
		l = append(l, ch)
	}
	sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })
	return l
}

// Measure returns the width in pixels of text drawn in the given style with
// spacing pixels between characters. Characters without a glyph measure as
// a space.
func (str *Store) Measure(text string, style Style, spacing int) int {
	var w, n int
	for _, ch := range text {
		if g, ok := str.Glyph(ch, style); ok {
			w += g.Width
		} else {
			w += SpaceWidth
		}
		n++
	}
	if n > 1 {
		w += spacing * (n - 1)
	}
	return max(w, 0)
}
