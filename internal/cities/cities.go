// Package cities provides city-name normalization and alias resolution for
// the embedded Uzbekistan city dataset.
package cities

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var dataYAML []byte

// City is one entry of the embedded dataset.
type City struct {
	Name    string   `yaml:"name"`
	Lat     float64  `yaml:"lat"`
	Lng     float64  `yaml:"lng"`
	Aliases []string `yaml:"aliases"`
}

type dataset struct {
	Cities []City `yaml:"cities"`
}

// registry holds the loaded dataset. Aliases are keyed by their normalized
// (lowercased) spelling, so lookups are case-insensitive by construction.
type registry struct {
	cities  []City
	aliases map[string]string
}

var reg = mustLoad(dataYAML)

func mustLoad(raw []byte) *registry {
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		panic("cities: parse embedded dataset: " + err.Error())
	}

	r := &registry{
		cities:  ds.Cities,
		aliases: make(map[string]string),
	}
	for _, c := range ds.Cities {
		r.aliases[Normalize(c.Name)] = c.Name
		for _, a := range c.Aliases {
			r.aliases[Normalize(a)] = c.Name
		}
	}
	return r
}

// Normalize canonicalizes a free-text city name for comparison: the first
// comma and everything after it is dropped (trailing country/region
// qualifiers), the rest is trimmed, lowercased, and internal whitespace runs
// are collapsed to single spaces. Total; empty input yields empty output.
func Normalize(input string) string {
	s := input
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Equal reports whether two city names normalize to the same form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Standardize resolves a free-text city name to its canonical Cyrillic
// display form. Unknown cities pass through with the first comma segment
// trimmed and the original casing preserved.
func Standardize(input string) string {
	if canonical, ok := reg.aliases[Normalize(input)]; ok {
		return canonical
	}
	s := input
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// All returns the embedded city list in dataset order.
func All() []City {
	out := make([]City, len(reg.cities))
	copy(out, reg.cities)
	return out
}

// Find returns a city by any of its spellings.
func Find(name string) (City, bool) {
	canonical, ok := reg.aliases[Normalize(name)]
	if !ok {
		return City{}, false
	}
	for _, c := range reg.cities {
		if c.Name == canonical {
			return c, true
		}
	}
	return City{}, false
}
