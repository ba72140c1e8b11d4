package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the run configuration looked up next to a program.
const ConfigFileName = "tinyjs.yml"

// ErrConfigNotFound is returned by FindConfig when no tinyjs.yml exists
// between the start directory and the file system root.
var ErrConfigNotFound = errors.New(ConfigFileName + " not found")

// Format selects the front-end used to turn program text into an AST.
type Format string

const (
	FormatAuto   Format = ""
	FormatJS     Format = "js"
	FormatESTree Format = "estree"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatAuto, FormatJS, FormatESTree:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want js or estree)", name)
	}
}

// Config represents the parsed contents of tinyjs.yml.
type Config struct {
	Path    string
	Entry   string
	Format  Format
	Globals map[string]any
	// GlobalOrder keeps the declaration order of Globals.
	GlobalOrder []string
	Limits      Limits
}

// Limits bounds one execution.
type Limits struct {
	MaxCallDepth int
	MaxTimerRuns int
	MaxSteps     int
	Timeout      time.Duration
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses tinyjs.yml from disk, returning a validated config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()
	return decodeConfig(file, absPath)
}

// ParseConfig decodes configuration text. Relative entries resolve against
// the directory of path.
func ParseConfig(data []byte, path string) (*Config, error) {
	return decodeConfig(strings.NewReader(string(data)), path)
}

func decodeConfig(r io.Reader, path string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", path)
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg, issues := raw.toConfig(path)
	if err := cfg.validate(issues); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks from start towards the root looking for tinyjs.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

// EntryPath resolves the configured entry relative to the config file.
func (c *Config) EntryPath() string {
	if c == nil || c.Entry == "" {
		return ""
	}
	entry := filepath.FromSlash(c.Entry)
	if filepath.IsAbs(entry) || c.Path == "" {
		return filepath.Clean(entry)
	}
	return filepath.Join(filepath.Dir(c.Path), entry)
}

// SetGlobal adds or replaces one external binding, keeping declaration order.
func (c *Config) SetGlobal(name string, value any) {
	if c.Globals == nil {
		c.Globals = make(map[string]any)
	}
	if _, exists := c.Globals[name]; !exists {
		c.GlobalOrder = append(c.GlobalOrder, name)
	}
	c.Globals[name] = value
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedGlobals are bound by the interpreter itself.
var reservedGlobals = map[string]struct{}{
	"this": {}, "undefined": {}, "NaN": {}, "Infinity": {}, "module": {}, "exports": {},
}

// ValidateGlobalName reports why name cannot be used as an external binding.
func ValidateGlobalName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%q is not a valid identifier", name)
	}
	if _, reserved := reservedGlobals[name]; reserved {
		return fmt.Errorf("%q is reserved by the interpreter", name)
	}
	return nil
}

func (c *Config) validate(issues []string) error {
	errs := ValidationError{Issues: issues}
	if c.Entry != "" && strings.TrimSpace(c.Entry) != c.Entry {
		errs.Issues = append(errs.Issues, "entry must not carry surrounding whitespace")
	}
	for _, name := range c.GlobalOrder {
		if err := ValidateGlobalName(name); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("globals: %v", err))
		}
	}
	if c.Limits.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "limits.max_call_depth must not be negative")
	}
	if c.Limits.MaxTimerRuns < 0 {
		errs.Issues = append(errs.Issues, "limits.max_timer_runs must not be negative")
	}
	if c.Limits.MaxSteps < 0 {
		errs.Issues = append(errs.Issues, "limits.max_steps must not be negative")
	}
	if c.Limits.Timeout < 0 {
		errs.Issues = append(errs.Issues, "limits.timeout must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type configFile struct {
	Entry   string     `yaml:"entry"`
	Format  string     `yaml:"format"`
	Globals globalMap  `yaml:"globals"`
	Limits  limitsYAML `yaml:"limits"`
}

type limitsYAML struct {
	MaxCallDepth int    `yaml:"max_call_depth"`
	MaxTimerRuns int    `yaml:"max_timer_runs"`
	MaxSteps     int    `yaml:"max_steps"`
	Timeout      string `yaml:"timeout"`
}

func (cf configFile) toConfig(path string) (*Config, []string) {
	var issues []string
	cfg := &Config{
		Path:        path,
		Entry:       cf.Entry,
		Globals:     make(map[string]any, len(cf.Globals.items)),
		GlobalOrder: make([]string, 0, len(cf.Globals.items)),
		Limits: Limits{
			MaxCallDepth: cf.Limits.MaxCallDepth,
			MaxTimerRuns: cf.Limits.MaxTimerRuns,
			MaxSteps:     cf.Limits.MaxSteps,
		},
	}
	format, err := ParseFormat(cf.Format)
	if err != nil {
		issues = append(issues, fmt.Sprintf("format: %v", err))
	}
	cfg.Format = format
	if timeout := strings.TrimSpace(cf.Limits.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			issues = append(issues, fmt.Sprintf("limits.timeout: invalid duration %q", timeout))
		}
		cfg.Limits.Timeout = d
	}
	for _, item := range cf.Globals.items {
		if _, dup := cfg.Globals[item.name]; dup {
			issues = append(issues, fmt.Sprintf("globals: %q declared more than once", item.name))
			continue
		}
		cfg.SetGlobal(item.name, item.value)
	}
	return cfg, issues
}

type globalMap struct {
	items []globalEntry
}

type globalEntry struct {
	name  string
	value any
}

func (gm *globalMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		gm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		gm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("config: globals must be a mapping")
	}
	items := make([]globalEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("config: globals must not use empty keys")
		}
		decoded, err := decodeGlobalValue(valNode)
		if err != nil {
			return fmt.Errorf("config: global %q: %w", key, err)
		}
		items = append(items, globalEntry{name: key, value: decoded})
	}
	gm.items = items
	return nil
}

// decodeGlobalValue converts a YAML node into data accepted by
// runtime.FromGo. Mapping keys must be strings.
func decodeGlobalValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeGlobalValue(node.Alias)
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case string, bool, float64, nil:
			return v, nil
		default:
			// Timestamps and binary data are passed through as text.
			return node.Value, nil
		}
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for idx, child := range node.Content {
			v, err := decodeGlobalValue(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", idx, err)
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("mapping keys must be scalars, found %s", keyNode.ShortTag())
			}
			v, err := decodeGlobalValue(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", keyNode.Value, err)
			}
			out[keyNode.Value] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of kind %s", node.ShortTag())
	}
}

// ParseGlobalAssignment parses a name=value override from the command line.
// The value is read as a YAML scalar or flow collection, so numbers, booleans
// and lists keep their type; anything else stays a string.
func ParseGlobalAssignment(arg string) (string, any, error) {
	name, raw, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok {
		return "", nil, fmt.Errorf("global %q must have the form name=value", arg)
	}
	if err := ValidateGlobalName(name); err != nil {
		return "", nil, fmt.Errorf("global: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return name, "", nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil || len(doc.Content) == 0 {
		return name, raw, nil
	}
	value, err := decodeGlobalValue(doc.Content[0])
	if err != nil {
		return name, raw, nil
	}
	return name, value, nil
}
