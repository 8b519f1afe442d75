package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogStorage saves captured step output as files, one per
// (run, configuration, step), under BaseDir/<run-id>/.
type LogStorage struct {
	BaseDir string
}

func NewLogStorage(baseDir string) *LogStorage {
	return &LogStorage{BaseDir: baseDir}
}

// SaveStepLog writes the captured output for one step of one run and
// returns the log file path.
func (ls *LogStorage) SaveStepLog(runID, config, step, output string) (string, error) {
	dir := filepath.Join(ls.BaseDir, sanitize(runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s.log", sanitize(config), sanitize(step))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize strips characters that are unsafe in filenames.
func sanitize(name string) string {
	clean := ""
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			clean += string(r)
		}
	}
	if clean == "" {
		return "step"
	}
	return clean
}
