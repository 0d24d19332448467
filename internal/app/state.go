package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lueurxax/meeto/internal/core/domain"
)

const (
	stateFileMode = 0o600
	stateTempGlob = ".meeto-state-*"
)

// LoadState reads a meeting result written by SaveState. A missing file
// returns (nil, nil).
func LoadState(path string) (*domain.MeetingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil //nolint:nilnil // absent state is not an error
		}

		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	var meeting domain.MeetingResult
	if err := json.Unmarshal(data, &meeting); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", path, err)
	}

	return &meeting, nil
}

// SaveState writes the meeting result atomically through a temp file.
func SaveState(path string, meeting *domain.MeetingResult) error {
	data, err := json.MarshalIndent(meeting, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), stateTempGlob)
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // removed already after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write state: %w", err)
	}

	if err := tmp.Chmod(stateFileMode); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("chmod state: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}

	return nil
}
