package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"fpval/float"
)

// customFormats holds the formats loaded from --formats. Lookups check it
// before the built-in names, so a config may shadow a preset.
var customFormats = map[string]float.Format{}

type formatsConfig struct {
	Formats map[string]float.Format `yaml:"formats"`
}

func loadCustomFormats(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg formatsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	names := make([]string, 0, len(cfg.Formats))
	for name, f := range cfg.Formats {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("format %q in %s: %w", name, path, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	customFormats = cfg.Formats
	log.Debug().Strs("formats", names).Msg("loaded custom formats")
	return nil
}

func resolveFormat(name string) (float.Format, error) {
	if f, ok := customFormats[name]; ok {
		return f, nil
	}
	return float.ParseFormat(name)
}
