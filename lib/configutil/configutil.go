package configutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override file for a config file,
// "mountscraper.json5" becomes "mountscraper.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.local%s", prefix, ext)
}

// readJson5 decodes a file into a generic map so that a key set to false,
// 0 or "" can still be told apart from a key that is missing.
func readJson5(path string) (map[string]any, bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(contents) == 0 {
		return nil, false, nil
	}
	var out map[string]any
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// overlay merges src into dst, every key present in src wins, nested objects
// are merged key by key.
func overlay(dst *map[string]any, src map[string]any) error {
	if *dst == nil {
		*dst = map[string]any{}
	}
	if len(src) == 0 {
		return nil
	}
	return mergo.Merge(dst, src, mergo.WithOverride)
}

func decode[T any](values map[string]any) (T, error) {
	var out T
	contents, err := json.Marshal(values)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(contents, &out)
	return out, err
}

func readLayers(name string) (map[string]any, bool, error) {
	values, found, err := readJson5(name)
	if err != nil {
		return nil, false, err
	}

	localPath := LocalPath(name)
	override, foundLocal, err := readJson5(localPath)
	if err != nil {
		return nil, false, err
	}
	if foundLocal {
		err = overlay(&values, override)
		if err != nil {
			return nil, false, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
	}
	return values, found || foundLocal, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// a key set in the local file always wins, even when it is false or empty.
// if neither exists, os.ErrNotExist is returned.
func ReadConfig[T any](name string) (T, error) {
	values, found, err := readLayers(name)
	if err != nil {
		var out T
		return out, err
	}
	out, err := decode[T](values)
	if err != nil {
		return out, err
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfigWithDefaults is ReadConfig, except that a missing file is not an
// error and every key the files leave out is taken from `defaults`.
func ReadConfigWithDefaults[T any](name string, defaults T) (T, error) {
	var out T
	contents, err := json.Marshal(defaults)
	if err != nil {
		return out, err
	}
	var values map[string]any
	err = json.Unmarshal(contents, &values)
	if err != nil {
		return out, err
	}

	layers, _, err := readLayers(name)
	if err != nil {
		return out, err
	}
	err = overlay(&values, layers)
	if err != nil {
		return out, err
	}
	return decode[T](values)
}

// ReadRecursively is ReadConfig but it goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}
