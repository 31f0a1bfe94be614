package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	yaml "go.yaml.in/yaml/v3"
)

// Rules tunes ingestion for a particular registration form.
//
// Example rules file:
//
//	sentinels: ["-", "No", "None", "Nil", "NA"]
//	country_code: "+91"
//	extensions: [".xlsx"]
//	batch_size: 400
type Rules struct {
	Sentinels   []string `yaml:"sentinels"`
	CountryCode string   `yaml:"country_code"`
	Extensions  []string `yaml:"extensions"`
	BatchSize   int      `yaml:"batch_size"`
}

func DefaultRules() Rules {
	return Rules{
		Sentinels:   []string{"-", "No", "None", "Nil"},
		CountryCode: "+91",
		Extensions:  []string{".xlsx"},
		BatchSize:   400,
	}
}

// LoadRules reads a YAML rules file. Omitted keys keep their defaults; an
// explicit empty sentinel list disables sentinel filtering.
func LoadRules(path string) (Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, errors.Wrap(err, "read rules file")
	}

	rules := DefaultRules()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err = dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, errors.Wrapf(err, "parse rules file %s", path)
	}

	if rules.BatchSize <= 0 {
		return Rules{}, errors.Errorf("%s: batch_size must be > 0", path)
	}
	for i, ext := range rules.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		rules.Extensions[i] = ext
	}
	return rules, nil
}
