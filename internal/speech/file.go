package speech

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAudioFile replaces outputFile with data. The audio lands in a temp
// file first so a failed write never leaves half a file behind.
func writeAudioFile(outputFile string, data []byte) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".speech-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	if err := os.Rename(tmp.Name(), outputFile); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
