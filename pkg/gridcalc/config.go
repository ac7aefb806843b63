package gridcalc

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/recalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/store"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration file layout.
type Config struct {
	Mode          string    `yaml:"mode,omitempty"`
	HistoryLimit  *int      `yaml:"history_limit,omitempty"`
	RecalcOnPaste *bool     `yaml:"recalc_on_paste,omitempty"`
	RecalcOnLoad  *bool     `yaml:"recalc_on_load,omitempty"`
	Pretty        bool      `yaml:"pretty,omitempty"`
	CSV           CSVConfig `yaml:"csv,omitempty"`
}

// CSVConfig holds CSV defaults.
type CSVConfig struct {
	Encoding  string `yaml:"encoding,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the configuration into editor options, starting from
// DefaultOptions.
func (c Config) Options() (Options, error) {
	opts := DefaultOptions()
	mode, err := recalc.ParseMode(c.Mode)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode
	if c.HistoryLimit != nil {
		opts.HistoryLimit = *c.HistoryLimit
	}
	opts.RecalcOnPaste = c.RecalcOnPaste
	opts.RecalcOnLoad = c.RecalcOnLoad
	return opts, nil
}

// CSVOptions converts the CSV section into store options.
func (c Config) CSVOptions() (store.CSVOptions, error) {
	opts := store.CSVOptions{Encoding: c.CSV.Encoding}
	switch utf8.RuneCountInString(c.CSV.Delimiter) {
	case 0:
	case 1:
		opts.Delimiter, _ = utf8.DecodeRuneInString(c.CSV.Delimiter)
	default:
		return opts, fmt.Errorf("invalid csv delimiter %q: must be a single character", c.CSV.Delimiter)
	}
	return opts, nil
}
