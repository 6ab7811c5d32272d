// Package config reads the tatweel TOML configuration file.
//
// A configuration describes one page: the text to justify, the font and its
// variations in priority order, the canvas geometry from which the goal width
// is derived, and the search and cache settings.
//
//	text = "noor.txt"
//	width = 2000
//	margin = 100
//
//	[font]
//	path = "fonts/Raqq.ttf"
//	size = 80.0
//
//	[[font.variations]]
//	name = "MSHQ"
//	min = 0
//	max = 100
//	rest = 0
//
// Relative paths are resolved against the directory of the configuration
// file.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tatweel/pkg/errors"
	"github.com/matzehuels/tatweel/pkg/shaping"
	"github.com/matzehuels/tatweel/pkg/variation"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "tatweel.toml"

// Defaults applied by [Default] and kept for unset fields by [Load].
const (
	DefaultWidth      = 2000
	DefaultMargin     = 100
	DefaultFontSize   = 80.0
	DefaultLineHeight = 1.25
	DefaultTextColor  = Color(0x000000ff)
	DefaultBgColor    = Color(0xffffffff)
	DefaultTolerance  = 5
	DefaultCacheTTL   = 7 * 24 * time.Hour
)

// Config is the decoded configuration file.
type Config struct {
	Text          string `toml:"text"`
	TextInline    string `toml:"text_inline"`
	Width         int    `toml:"width"`
	Margin        int    `toml:"margin"`
	TextColor     Color  `toml:"text_color"`
	BgColor       Color  `toml:"bg_color"`
	Cost          string `toml:"cost"`
	Selector      string `toml:"selector"`
	Tolerance     int    `toml:"tolerance"`
	MaxIterations int    `toml:"max_iterations"`
	PerLocation   int    `toml:"per_location"`
	Parallel      int    `toml:"parallel"`

	Font   Font   `toml:"font"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`

	dir string
}

// Font configures the typeface and its justification variations.
type Font struct {
	Path       string            `toml:"path"`
	Size       float64           `toml:"size"`
	LineHeight float64           `toml:"line_height"`
	Features   []string          `toml:"features"`
	Variations []VariationConfig `toml:"variations"`
}

// VariationConfig is one [[font.variations]] entry. Name is an axis tag or
// "spacing".
type VariationConfig struct {
	Name string  `toml:"name" json:"name"`
	Min  float64 `toml:"min" json:"min"`
	Max  float64 `toml:"max" json:"max"`
	Rest float64 `toml:"rest" json:"rest"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr          string `toml:"addr"`
	Store         string `toml:"store"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns a configuration with every default set and no font path,
// which selects the bundled font.
func Default() *Config {
	return &Config{
		Width:     DefaultWidth,
		Margin:    DefaultMargin,
		TextColor: DefaultTextColor,
		BgColor:   DefaultBgColor,
		Tolerance: DefaultTolerance,
		Font: Font{
			Size:       DefaultFontSize,
			LineHeight: DefaultLineHeight,
		},
		Cache: Cache{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			TTL:       Duration(DefaultCacheTTL),
		},
		Server: Server{
			Addr:          ":8080",
			Store:         "memory",
			MongoDatabase: "tatweel",
		},
	}
}

// Load reads and validates the configuration at path. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates configuration data on top of [Default].
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks geometry, search settings and variations.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width must be positive, got %d", c.Width)
	}
	if c.Margin < 0 || 2*c.Margin >= c.Width {
		return errors.New(errors.ErrCodeInvalidConfig, "margin %d leaves no room in width %d", c.Margin, c.Width)
	}
	if c.Font.Size <= 0 || math.IsNaN(c.Font.Size) || math.IsInf(c.Font.Size, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be positive")
	}
	if c.Font.LineHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "line height must be positive")
	}
	if c.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tolerance must not be negative")
	}
	if c.MaxIterations < 0 || c.PerLocation < 0 || c.Parallel < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_iterations, per_location and parallel must not be negative")
	}
	if c.Text != "" && c.TextInline != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "text and text_inline are mutually exclusive")
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Server.Store {
	case "", "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown job store %q", c.Server.Store)
	}
	if _, err := c.Variations(); err != nil {
		return err
	}
	if _, err := c.Features(); err != nil {
		return err
	}
	return nil
}

// Variations returns the configured variations in priority order. Without
// any [[font.variations]] the spacing variation alone is used.
func (c *Config) Variations() ([]variation.Variation, error) {
	return Variations(c.Font.Variations)
}

// Variations builds and orders a variation list. An empty list yields the
// spacing variation alone.
func Variations(list []VariationConfig) ([]variation.Variation, error) {
	if len(list) == 0 {
		return variation.Prioritize([]variation.Variation{variation.NewSpacing()}), nil
	}
	vs := make([]variation.Variation, 0, len(list))
	for _, vc := range list {
		v, err := variation.Parse(vc.Name, vc.Min, vc.Max, vc.Rest)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	if err := variation.ValidateList(vs); err != nil {
		return nil, err
	}
	return variation.Prioritize(vs), nil
}

// Features parses the configured OpenType features.
func (c *Config) Features() ([]shaping.Feature, error) {
	return shaping.ParseFeatures(c.Font.Features)
}

// GoalWidth converts the printable width (width minus both margins) into
// font units for a font with the given units per em.
func (c *Config) GoalWidth(upem int) int {
	return GoalWidth(c.Width, c.Margin, c.Font.Size, upem)
}

// GoalWidth converts a canvas width and margin in pixels into font units at
// the given font size.
func GoalWidth(width, margin int, size float64, upem int) int {
	scale := size / float64(upem)
	return int(math.Round(float64(width-2*margin) / scale))
}

// Resolve returns path relative to the configuration file's directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// LoadText returns the inline text or the contents of the text file.
func (c *Config) LoadText() (string, error) {
	if c.TextInline != "" {
		return c.TextInline, nil
	}
	if c.Text == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "no text configured")
	}
	data, err := os.ReadFile(c.Resolve(c.Text))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "text %s", c.Text)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read text %s", c.Text)
	}
	return string(data), nil
}
