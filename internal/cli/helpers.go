package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// ensureParentDir creates the directory that will hold path. It is only used
// for auxiliary artifacts; the report's own directory must already exist.
func ensureParentDir(path string) error {
	if path == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
