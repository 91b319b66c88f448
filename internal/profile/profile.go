// Package profile provides named, reusable symbol sets: built-in alphabets
// embedded in the binary plus user-defined profiles on disk.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Varietyz/phigo-transpiler/internal/symbols"
)

// Profile is a named symbol→replacement set.
type Profile struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Symbols     map[string]string `yaml:"symbols"`
}

// Mapping returns the profile's symbol table as a symbols.Mapping.
func (p *Profile) Mapping() symbols.Mapping {
	m := make(symbols.Mapping, len(p.Symbols))
	for k, v := range p.Symbols {
		m[k] = v
	}
	return m
}

// Load loads a profile by name. Checks built-in profiles first, then falls
// back to ~/.phigo/profiles/<name>.yaml.
func Load(name string) (*Profile, error) {
	if data, ok := builtinProfiles[name]; ok {
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse built-in profile %q: %w", name, err)
		}
		return &p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("profile %q not found (no built-in, cannot determine home dir)", name)
	}

	path := filepath.Join(home, ".phigo", "profiles", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}

	return &p, nil
}

// List returns sorted names of all available profiles (built-in + user).
func List() []string {
	seen := make(map[string]bool)
	for name := range builtinProfiles {
		seen[name] = true
	}

	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, ".phigo", "profiles")
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				name := e.Name()
				if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
					seen[name[:len(name)-len(ext)]] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that a profile is well-formed: a name, and no empty
// symbol keys (an empty key cannot be compiled into a matcher).
func Validate(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	for k := range p.Symbols {
		if k == "" {
			return fmt.Errorf("profile %q contains an empty symbol key", p.Name)
		}
	}
	return nil
}
