package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteReport writes rendered report content under dir, creating the
// directory at call time. The output directory is explicit configuration,
// never ambient state.
func WriteReport(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", name, err)
	}
	return path, nil
}
