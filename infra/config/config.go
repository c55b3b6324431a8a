package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Path is the default directory of the config files.
const Path = "infra/config"

// Load reads the config for the given key from dir.
// It looks for <key>.yaml first and falls back to <key>.json.
func Load(dir, key string, v interface{}) ([]byte, error) {
	p := filepath.Join(dir, fmt.Sprintf("%s.yaml", key))
	b, err := os.ReadFile(p)
	if err == nil {
		if err := yaml.Unmarshal(b, v); err != nil {
			return nil, fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
		}
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load config for %s: %w", key, err)
	}

	p = filepath.Join(dir, fmt.Sprintf("%s.json", key))
	b, err = os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("could not load config for %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return nil, fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}
	return b, nil
}

// MustLoad loads the config for the given key
func MustLoad(dir, key string, v interface{}) []byte {
	b, err := Load(dir, key, v)
	if err != nil {
		panic(err.Error())
	}

	log.Info().Str("config", key).Str("dir", dir).Msg("loaded config")

	return b
}
