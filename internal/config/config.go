package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsongrid
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Table   TableConfig   `yaml:"table"`
	Columns ColumnsConfig `yaml:"columns"`
	Tree    TreeConfig    `yaml:"tree"`
	Output  OutputConfig  `yaml:"output"`
	Dev     DevConfig     `yaml:"dev"`
}

// ViewConfig controls windowing and mode selection
type ViewConfig struct {
	RowHeight    int    `yaml:"row_height"`
	Overscan     int    `yaml:"overscan"`
	ViewportRows int    `yaml:"viewport_rows"`
	Mode         string `yaml:"mode"` // auto, table, tree
}

// TableConfig controls how tabular views are drawn
type TableConfig struct {
	HeaderStyle string `yaml:"header_style"` // raw, title, snake, kebab, camel, pascal
	MaxColWidth int    `yaml:"max_col_width"`
	NullText    string `yaml:"null_text"`
	AbsentText  string `yaml:"absent_text"`
	ShowIndex   bool   `yaml:"show_index"`
	Style       string `yaml:"style"` // light, rounded, double, bold, ascii
}

// ColumnsConfig holds per-column rules
type ColumnsConfig struct {
	Rename map[string]string `yaml:"rename"`
	Hide   []string          `yaml:"hide"`
	Align  []AlignRule       `yaml:"align"`

	hide []*regexp.Regexp
}

// AlignRule sets the alignment of columns whose key matches Pattern
type AlignRule struct {
	Pattern string `yaml:"pattern"`
	Align   string `yaml:"align"` // left, right, center

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// TreeConfig controls the tree view
type TreeConfig struct {
	Indent        int `yaml:"indent"`
	CollapseDepth int `yaml:"collapse_depth"` // 0 keeps every node expanded
}

// OutputConfig controls non-interactive output
type OutputConfig struct {
	Format         string `yaml:"format"`
	Color          string `yaml:"color"` // auto, always, never
	HighlightStyle string `yaml:"highlight_style"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

var (
	Modes        = []string{"auto", "table", "tree"}
	HeaderStyles = []string{"raw", "title", "snake", "kebab", "camel", "pascal"}
	TableStyles  = []string{"light", "rounded", "double", "bold", "ascii"}
	Formats      = []string{"table", "csv", "markdown", "html", "json", "tree", "pretty", "minify"}
	ColorModes   = []string{"auto", "always", "never"}
	Alignments   = []string{"left", "right", "center"}
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		View: ViewConfig{
			RowHeight:    1,
			Overscan:     5,
			ViewportRows: 0,
			Mode:         "auto",
		},
		Table: TableConfig{
			HeaderStyle: "raw",
			MaxColWidth: 40,
			NullText:    "null",
			AbsentText:  "",
			ShowIndex:   true,
			Style:       "light",
		},
		Columns: ColumnsConfig{
			Rename: make(map[string]string),
			Hide:   []string{},
			Align:  []AlignRule{},
		},
		Tree: TreeConfig{
			Indent:        2,
			CollapseDepth: 0,
		},
		Output: OutputConfig{
			Format:         "table",
			Color:          "auto",
			HighlightStyle: "monokai",
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsongrid.yml", ".jsongrid.yaml", "jsongrid.yml", "jsongrid.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enum fields and compiles the column patterns
func (c *Config) Validate() error {
	checks := []struct {
		field, value string
		allowed      []string
	}{
		{"view.mode", c.View.Mode, Modes},
		{"table.header_style", c.Table.HeaderStyle, HeaderStyles},
		{"table.style", c.Table.Style, TableStyles},
		{"output.format", c.Output.Format, Formats},
		{"output.color", c.Output.Color, ColorModes},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.allowed, chk.value) {
			return fmt.Errorf("invalid %s '%s': must be one of %v", chk.field, chk.value, chk.allowed)
		}
	}
	if c.View.RowHeight <= 0 {
		return fmt.Errorf("invalid view.row_height %d: must be positive", c.View.RowHeight)
	}
	if c.View.Overscan < 0 {
		return fmt.Errorf("invalid view.overscan %d: must not be negative", c.View.Overscan)
	}
	if c.Tree.CollapseDepth < 0 {
		return fmt.Errorf("invalid tree.collapse_depth %d: must not be negative", c.Tree.CollapseDepth)
	}
	return c.compilePatterns()
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	c.Columns.hide = nil
	for _, pattern := range c.Columns.Hide {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid hide pattern '%s': %w", pattern, err)
		}
		c.Columns.hide = append(c.Columns.hide, regex)
	}

	for i := range c.Columns.Align {
		rule := &c.Columns.Align[i]
		if !slices.Contains(Alignments, rule.Align) {
			return fmt.Errorf("invalid alignment '%s' for pattern '%s'", rule.Align, rule.Pattern)
		}
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid align pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}

	return nil
}

// MatchesColumn checks if this rule applies to the given column key
func (ar *AlignRule) MatchesColumn(key string) bool {
	if ar.regex == nil {
		regex, err := regexp.Compile(ar.Pattern)
		if err != nil {
			return false
		}
		ar.regex = regex
	}
	return ar.regex.MatchString(key)
}

// AlignFor returns the configured alignment for a column, if any rule matches
func (c *Config) AlignFor(key string) (string, bool) {
	for i := range c.Columns.Align {
		if c.Columns.Align[i].MatchesColumn(key) {
			return c.Columns.Align[i].Align, true
		}
	}
	return "", false
}

// IsHidden reports whether a column is hidden from output
func (c *Config) IsHidden(key string) bool {
	if len(c.Columns.hide) != len(c.Columns.Hide) {
		if err := c.compilePatterns(); err != nil {
			return false
		}
	}
	for _, regex := range c.Columns.hide {
		if regex.MatchString(key) {
			return true
		}
	}
	return false
}

// ColumnTitle returns the header text for a column key, applying renames
// first and then the header style
func (c *Config) ColumnTitle(key string) string {
	if mapped, exists := c.Columns.Rename[key]; exists {
		return mapped
	}

	switch c.Table.HeaderStyle {
	case "title":
		return cases.Title(language.Und).String(strcase.ToDelimited(key, ' '))
	case "snake":
		return strcase.ToSnake(key)
	case "kebab":
		return strcase.ToKebab(key)
	case "camel":
		return strcase.ToLowerCamel(key)
	case "pascal":
		return strcase.ToCamel(key)
	default:
		return key
	}
}

// Overrides carries values given on the command line. Zero values, and -1
// for the numeric fields, mean "not set".
type Overrides struct {
	Format        string
	Mode          string
	Color         string
	Debug         bool
	LogFile       string
	Overscan      int
	CollapseDepth int
	HeaderStyle   string
}

// NoOverrides returns an Overrides with nothing set
func NoOverrides() Overrides {
	return Overrides{Overscan: -1, CollapseDepth: -1}
}

// MergeConfigs applies CLI overrides onto a copy of base
func MergeConfigs(base *Config, o Overrides) *Config {
	merged := *base

	if o.Format != "" {
		merged.Output.Format = o.Format
	}
	if o.Mode != "" {
		merged.View.Mode = o.Mode
	}
	if o.Color != "" {
		merged.Output.Color = o.Color
	}
	if o.HeaderStyle != "" {
		merged.Table.HeaderStyle = o.HeaderStyle
	}
	if o.LogFile != "" {
		merged.Dev.LogFile = o.LogFile
	}
	// A flag can only switch debugging on.
	if o.Debug {
		merged.Dev.Debug = true
	}
	if o.Overscan >= 0 {
		merged.View.Overscan = o.Overscan
	}
	if o.CollapseDepth >= 0 {
		merged.Tree.CollapseDepth = o.CollapseDepth
	}

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// defaults < config file < flags
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	merged := MergeConfigs(cfg, o)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
