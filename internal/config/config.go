// Package config loads and normalizes the apimark configuration.
//
// Configuration comes from a YAML file, with a small set of environment
// overrides (APIMARK_*) applied on top. A .env file in the working directory
// is loaded best-effort before the overrides are read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
)

// TypesGrouping controls whether type pages are nested under kind-named
// subdirectories (Classes/, Interfaces/, ...) per namespace.
type TypesGrouping struct {
	Enabled  bool `yaml:"enabled"`
	MinCount int  `yaml:"min_count"` // namespaces with at least this many type-kind entities are grouped
}

// Markdown holds text-rendering knobs for the summary pipeline.
type Markdown struct {
	// LineBreak substitutes <br/> markup; empty means a blank line.
	LineBreak string `yaml:"line_break"`
	// ForceHardLineBreaks rewrites every remaining single newline to
	// HardLineBreak after the pipeline runs.
	ForceHardLineBreaks bool   `yaml:"force_hard_line_breaks"`
	HardLineBreak       string `yaml:"hard_line_break"`
	// RewriteInterlinks linkifies bare Namespace.Type tokens in summaries
	// when they resolve against the store.
	RewriteInterlinks bool `yaml:"rewrite_interlinks"`
	// UnescapeCodeBlockEntities unescapes HTML entities inside fenced code.
	UnescapeCodeBlockEntities bool `yaml:"unescape_code_block_entities"`
	// BareLinks omits the .md extension from generated links.
	BareLinks bool `yaml:"bare_links"`
}

// Render holds output-phase tuning.
type Render struct {
	// Concurrency caps parallel page writes; 0 means GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
}

// Config is the root configuration structure.
type Config struct {
	InputPath  string        `yaml:"input_path"`
	OutputPath string        `yaml:"output_path"`
	IndexSlug  string        `yaml:"index_slug"`
	Grouping   TypesGrouping `yaml:"types_grouping"`
	Markdown   Markdown      `yaml:"markdown"`
	Render     Render        `yaml:"render"`
}

// DefaultHardLineBreak is the Markdown hard line-break sequence.
const DefaultHardLineBreak = "  \n"

// Load reads, overlays, and normalizes the configuration at path.
func Load(path string) (*Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, apimarkerrors.Wrap(err, apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot read configuration file %s", path))
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apimarkerrors.Wrap(err, apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
			fmt.Sprintf("invalid YAML in configuration file %s", path))
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("APIMARK_INPUT_PATH")); v != "" {
		cfg.InputPath = v
	}
	if v := strings.TrimSpace(os.Getenv("APIMARK_OUTPUT_PATH")); v != "" {
		cfg.OutputPath = v
	}
	if v := strings.TrimSpace(os.Getenv("APIMARK_INDEX_SLUG")); v != "" {
		cfg.IndexSlug = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.IndexSlug == "" {
		cfg.IndexSlug = "/api"
	}
	if cfg.Grouping.MinCount == 0 {
		cfg.Grouping.MinCount = 12
	}
	if cfg.Markdown.LineBreak == "" {
		cfg.Markdown.LineBreak = "\n\n"
	}
	if cfg.Markdown.HardLineBreak == "" {
		cfg.Markdown.HardLineBreak = DefaultHardLineBreak
	}
	if cfg.Render.Concurrency <= 0 {
		cfg.Render.Concurrency = runtime.GOMAXPROCS(0)
	}
}

func validate(cfg *Config) error {
	if cfg.InputPath == "" {
		return apimarkerrors.New(apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
			"input_path is required")
	}
	if cfg.OutputPath == "" {
		return apimarkerrors.New(apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
			"output_path is required")
	}
	if cfg.Grouping.MinCount < 1 {
		return apimarkerrors.New(apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
			"types_grouping.min_count must be at least 1")
	}
	return nil
}

// Init writes a starter configuration file.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return apimarkerrors.New(apimarkerrors.CategoryConfig, apimarkerrors.SeverityFatal,
				fmt.Sprintf("configuration file %s already exists (use --force to overwrite)", path))
		}
	}
	return os.WriteFile(path, []byte(starterConfig), 0o644)
}

const starterConfig = `# apimark configuration
input_path: ./api
output_path: ./docs/api
index_slug: /api

types_grouping:
  enabled: false
  min_count: 12

markdown:
  force_hard_line_breaks: false
  rewrite_interlinks: false
  unescape_code_block_entities: false

render:
  concurrency: 0 # 0 = number of CPUs
`
