package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/drakos74/free-segments/internal/storage"
)

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal value for '%s': %w", fileName, err)
	}

	p := filepath.Join(filePath, fileName)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}

	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	return LoadFile(filepath.Join(filePath, fileName), value)
}

// LoadFile loads the payload from the file at the given path.
func LoadFile(p string, value interface{}) error {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
		}
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.CouldNotLoadErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal '%s' %s: %w", p, err.Error(), storage.CouldNotLoadErr)
	}

	return nil
}
