package normalize

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Mappings holds the token substitution tables used by the normalizer.
// Keys and values are uppercase.
type Mappings struct {
	StreetSuffixes  map[string]string `yaml:"street_suffixes"`
	UnitDesignators map[string]string `yaml:"unit_designators"`
	Directionals    map[string]string `yaml:"directionals"`
	States          map[string]string `yaml:"states"`
}

// DefaultMappings returns a fresh copy of the built-in USPS tables.
func DefaultMappings() *Mappings {
	return &Mappings{
		StreetSuffixes:  copyMap(streetSuffixes),
		UnitDesignators: copyMap(unitDesignators),
		Directionals:    copyMap(directionals),
		States:          copyMap(stateNames),
	}
}

// LoadMappings reads a YAML file of additional mappings and layers it over
// the defaults. Entries in the file win. An empty path returns the defaults.
func LoadMappings(path string) (*Mappings, error) {
	m := DefaultMappings()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read mappings %s", path)
	}

	var extra Mappings
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, eris.Wrapf(err, "normalize: parse mappings %s", path)
	}

	mergeInto(m.StreetSuffixes, extra.StreetSuffixes)
	mergeInto(m.UnitDesignators, extra.UnitDesignators)
	mergeInto(m.Directionals, extra.Directionals)
	mergeInto(m.States, extra.States)
	return m, nil
}

func copyMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}
}
