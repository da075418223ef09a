package beacon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config.yml
var defaultConfig []byte

var (
	// ErrUnknownKey is returned for a key other than distance or tier.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrNegative is returned when a setting would become negative.
	ErrNegative = errors.New("value must not be negative")

	// ErrNotInteger is returned for a config value that is not a YAML integer.
	ErrNotInteger = errors.New("value is not an integer")
)

// Config is the plugin's key-value settings store backed by a YAML file.
// It holds the effect radius and the minimum beacon tier.
//
// Concurrency:
// Worlds tick on their own goroutines, so the loop of one world may read the
// config while a command in another world writes it. All access is guarded.
type Config struct {
	path string

	mu     sync.RWMutex
	doc    yaml.Node
	values map[string]int
}

// LoadConfig loads the config file at path. If the file does not exist, the
// bundled default is written to path first. Keys missing from the file fall
// back to the bundled defaults.
func LoadConfig(path string) (*Config, error) {
	if err := saveDefaultConfig(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{path: path}
	if err := c.parse(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// saveDefaultConfig copies the bundled config to path unless a file exists.
func saveDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func (c *Config) parse(raw []byte) error {
	values, err := decodeValues(defaultConfig)
	if err != nil {
		return fmt.Errorf("bundled default: %w", err)
	}

	if err := yaml.Unmarshal(raw, &c.doc); err != nil {
		return err
	}
	if len(c.doc.Content) == 0 || c.doc.Content[0].Kind != yaml.MappingNode {
		// Empty file or a bare null document.
		c.doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}

	overrides, err := decodeValues(raw)
	if err != nil {
		return err
	}
	for key, v := range overrides {
		if err := validate(key, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		values[key] = v
	}

	c.values = values
	return nil
}

// decodeValues reads the top-level mapping of raw. Every value must be an
// integer scalar; yaml.v3 would otherwise truncate 2.5 to 2 when decoding
// into an int.
func decodeValues(raw []byte) (map[string]int, error) {
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, err
	}

	values := make(map[string]int, len(nodes))
	for key, n := range nodes {
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
			return nil, fmt.Errorf("%s: %w", key, ErrNotInteger)
		}
		var v int32
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: %w", key, ErrNotInteger)
		}
		values[key] = int(v)
	}
	return values, nil
}

func validate(key string, value int) error {
	if key != DistanceKey && key != TierKey {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	if value < 0 {
		return ErrNegative
	}
	return nil
}

// Path returns the location of the config file.
func (c *Config) Path() string {
	return c.path
}

// Int returns the value stored for key, or 0 for an unknown key.
func (c *Config) Int(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// Distance returns the effect radius.
func (c *Config) Distance() int {
	return c.Int(DistanceKey)
}

// Tier returns the minimum tier a beacon needs for its effects to apply.
func (c *Config) Tier() int {
	return c.Int(TierKey)
}

// SetInt stores value under key and writes the file before returning.
// The in-memory value only changes if the write succeeded.
func (c *Config) SetInt(key string, value int) error {
	if err := validate(key, value); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	undo := setMappingValue(c.doc.Content[0], key, strconv.Itoa(value))
	if err := c.save(); err != nil {
		undo()
		return err
	}

	c.values[key] = value
	return nil
}

// save writes the document to the config file. Caller must hold the lock.
func (c *Config) save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&c.doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := writeFileAtomic(c.path, buf.Bytes()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// setMappingValue replaces the scalar under key in a mapping node, keeping
// the comments of the file intact. Missing keys are appended. The returned
// func reverts the change.
func setMappingValue(m *yaml.Node, key, value string) (undo func()) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			old := *v
			v.Kind = yaml.ScalarNode
			v.Tag = "!!int"
			v.Value = value
			v.Content = nil
			return func() { *v = old }
		}
	}

	n := len(m.Content)
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: value},
	)
	return func() { m.Content = m.Content[:n] }
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.yml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
