package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// dumpFileRegex matches the names given out by messageId.
var dumpFileRegex = regexp.MustCompile(`^\d{4,}-[A-Za-z0-9_.-]+\.txt$`)

// FilesystemOutput writes every message into its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates dir if needed and removes the dump files of an
// earlier run from it, every other file in dir is left alone.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !dumpFileRegex.MatchString(entry.Name()) {
			continue
		}
		err = os.Remove(filepath.Join(dir, entry.Name()))
		if err != nil {
			return FilesystemOutput{}, err
		}
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
