package director

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/lobbyreel/internal/system"
)

// DefaultScriptsDir is where generated scripts are stored
var DefaultScriptsDir = filepath.Join("internal", "scripts")

// GenerateScriptPath creates a timestamped script filename for a page
func GenerateScriptPath(dir, page string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("script_%s_%s.yaml", page, timestamp))
}

// FindLatestScript finds the most recent script file in dir
func FindLatestScript(dir string) (string, error) {
	latest, err := system.FindLatestFile(dir, ".yaml", ".yml")
	if err != nil {
		return "", fmt.Errorf("no script files found: %w", err)
	}
	return latest, nil
}
