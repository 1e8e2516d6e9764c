package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned by Init when the file exists and force is false.
var ErrExists = errors.New("config file already exists")

// Init writes the default configuration to path.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	cfg := Default()
	if err := Write(f, &cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// listKeys hold comma-separated lists.
var listKeys = []string{"paths", "ignore", "tools"}

// Set updates key in the config file at path, creating the file when it is
// missing. The resulting file must load cleanly.
func Set(path, key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %s (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file: %w", err)
	}

	typed, err := typedValue(key, value)
	if err != nil {
		return err
	}
	file.Set(key, typed)

	// Validate the merged result before touching the file.
	check := newViper()
	if err := check.MergeConfigMap(file.AllSettings()); err != nil {
		return fmt.Errorf("merging config: %w", err)
	}
	if _, err := decode(check); err != nil {
		return err
	}

	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func typedValue(key, value string) (any, error) {
	switch {
	case slices.Contains(listKeys, key):
		return splitList([]string{value}), nil
	case key == "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("jobs must be an integer: %w", err)
		}
		return n, nil
	case key == "staged":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("staged must be a boolean: %w", err)
		}
		return b, nil
	default:
		return value, nil
	}
}
