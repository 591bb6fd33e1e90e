package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"
)

// Profile describes one credential target: which cloud provider to drive,
// which project/subscription it lives in, and where the minted key file goes.
type Profile struct {
	Name     string   `yaml:"name"`
	Provider string   `yaml:"provider"`
	Project  string   `yaml:"project"`
	Account  string   `yaml:"account"`
	Roles    []string `yaml:"roles"`
	KeyFile  string   `yaml:"key-file"`
}

// ResolveKeyFile expands a leading ~ in the profile's key-file path. An empty
// path resolves to $HOME/.credpaste/keys/<name>.json.
func (p *Profile) ResolveKeyFile() (string, error) {
	if p.KeyFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		return filepath.Join(home, ".credpaste", "keys", p.Name+".json"), nil
	}
	path, err := homedir.Expand(p.KeyFile)
	if err != nil {
		return "", fmt.Errorf("expand key-file path: %w", err)
	}
	return path, nil
}

type Config struct {
	CurrentProfile  string     `yaml:"current-profile"`
	ProfileOverride string     `yaml:"-"`
	Profiles        []*Profile `yaml:"profiles"`
	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

func (c *Config) HasProfile(name string) bool {
	for _, profile := range c.Profiles {
		if profile.Name == name {
			return true
		}
	}
	return false
}

func (c *Config) SetCurrentProfile(name string) error {
	var oldProfile string
	if c.ActiveProfile() != nil {
		oldProfile = c.ActiveProfile().Name
	}
	for _, profile := range c.Profiles {
		if profile.Name == name {
			c.CurrentProfile = name

			if err := c.Write(); err != nil {
				// "Revert" change to the profile field, either
				// everything is successful or nothing.
				c.CurrentProfile = oldProfile
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("could not find profile with name %v", name)
}

func (c *Config) ActiveProfile() *Profile {
	if c == nil {
		return nil
	}

	toSearch := c.ProfileOverride
	if c.ProfileOverride == "" {
		toSearch = c.CurrentProfile
	}

	if toSearch == "" {
		return nil
	}

	for _, profile := range c.Profiles {
		if profile.Name == toSearch {
			// Make copy of profile struct, using a pointer leads to
			// unintended behavior where modifications on the active
			// profile are written back into the config.
			p := *profile
			return &p
		}
	}
	return nil
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(&c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	return nil
}

func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	err = decoder.Decode(&c)
	if errors.Is(err, io.EOF) {
		// A zero-byte config file is an empty config, not an error.
		return Config{configPath: resolvedPath}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	if !fileExists(cfgPath) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return cfgPath, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".credpaste", "config"), nil
}
