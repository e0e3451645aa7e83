// Package testenv loads test configuration for integration tests.
package testenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Load finds the nearest .env.test walking up from the working directory and
// applies it, overriding variables already set.
func Load() error {
	path, err := findUp(".env.test")
	if err != nil {
		return err
	}
	return LoadFile(path)
}

func LoadFile(path string) error {
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func findUp(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	for {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("env file not found: " + filename)
		}
		dir = parent
	}
}
