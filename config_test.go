package beacon

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins", "beacon", "config.yml")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Distance() != 50 || c.Tier() != 1 {
		t.Fatalf("defaults = distance %d tier %d, want 50 and 1", c.Distance(), c.Tier())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(raw, defaultConfig) {
		t.Fatalf("written config differs from bundled default:\n%s", raw)
	}
}

func TestLoadConfigKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("distance: 7\ntier: 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Distance() != 7 || c.Tier() != 3 {
		t.Fatalf("loaded distance %d tier %d, want 7 and 3", c.Distance(), c.Tier())
	}
}

func TestLoadConfigMissingKeyUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tier: 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Distance() != 50 || c.Tier() != 2 {
		t.Fatalf("loaded distance %d tier %d, want 50 and 2", c.Distance(), c.Tier())
	}

	if err := c.SetInt(DistanceKey, 9); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Distance() != 9 || reloaded.Tier() != 2 {
		t.Fatalf("reloaded distance %d tier %d, want 9 and 2", reloaded.Distance(), reloaded.Tier())
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := c.SetInt(TierKey, 4); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Tier() != 4 {
		t.Fatalf("tier = %d, want 4", reloaded.Tier())
	}
}

func TestLoadConfigRejectsInvalidFiles(t *testing.T) {
	tests := map[string]string{
		"not an int":   "distance: far\n",
		"negative":     "tier: -1\n",
		"unknown key":  "radius: 5\n",
		"not a map":    "- 1\n- 2\n",
		"broken yaml":  "distance: [\n",
		"float value":  "distance: 2.5\n",
		"nested value": "distance:\n  value: 3\n",
		"quoted int":   "distance: \"3\"\n",
		"null value":   "tier:\n",
		"out of range": "distance: 3000000000\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("LoadConfig succeeded, want error")
			}
		})
	}
}

func TestLoadConfigFloatIsNotTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("distance: 2.5\ntier: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrNotInteger) {
		t.Fatalf("LoadConfig = %v, want ErrNotInteger", err)
	}
	if !strings.Contains(err.Error(), "distance") {
		t.Fatalf("error %q does not name the key", err)
	}
}

func TestConfigSetIntPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	for _, n := range []int{0, 3, 25, 1000} {
		if err := c.SetInt(DistanceKey, n); err != nil {
			t.Fatalf("SetInt(%d): %v", n, err)
		}
		if c.Distance() != n {
			t.Fatalf("Distance = %d, want %d", c.Distance(), n)
		}

		reloaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.Distance() != n {
			t.Fatalf("reloaded distance = %d, want %d", reloaded.Distance(), n)
		}
		if reloaded.Tier() != 1 {
			t.Fatalf("reloaded tier = %d, want 1", reloaded.Tier())
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "# Radius around a beacon") {
		t.Fatalf("comments were not preserved:\n%s", raw)
	}
}

func TestConfigSetIntRejects(t *testing.T) {
	c := newTestConfig(t, 10, 2)

	if err := c.SetInt("radius", 5); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetInt(radius) = %v, want ErrUnknownKey", err)
	}
	if err := c.SetInt(TierKey, -1); !errors.Is(err, ErrNegative) {
		t.Errorf("SetInt(tier, -1) = %v, want ErrNegative", err)
	}
	if c.Distance() != 10 || c.Tier() != 2 {
		t.Fatalf("config changed to distance %d tier %d", c.Distance(), c.Tier())
	}
}

func TestConfigSetIntWriteFailureKeepsValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	c.path = filepath.Join(dir, "missing", "config.yml")

	if err := c.SetInt(DistanceKey, 3); err == nil {
		t.Fatal("SetInt succeeded, want error")
	}
	if c.Distance() != 50 {
		t.Fatalf("distance = %d, want 50", c.Distance())
	}
}
