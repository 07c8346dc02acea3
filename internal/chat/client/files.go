package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stagingPrefix - marks files which are still arriving or waiting to be saved.
const stagingPrefix = "temp_"

// StagingPath - returns location of incoming file with given declared name.
// Only the base name is used, so a peer can not point outside of staging directory.
func (e *Engine) StagingPath(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return filepath.Join(e.stagingDir, stagingPrefix+base), nil
}

// SaveReceived - copies completely received staging file to destination path.
func SaveReceived(staged, dest string) error {
	src, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("client.SaveReceived: %w", err)
	}
	defer src.Close()
	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("client.SaveReceived: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("client.SaveReceived: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("client.SaveReceived: %w", err)
	}
	return nil
}
