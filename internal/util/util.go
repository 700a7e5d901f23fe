package util

import (
	"os"
)

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates path (and parents) when missing.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
