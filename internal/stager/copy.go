package stager

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// copyFile copies a single file from src to dst, overwriting dst.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	// Preserve file permissions
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// listFiles returns the regular files directly inside dir, skipping subdirectories.
// Symlinks are followed and kept when they resolve to a regular file.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Type().IsRegular():
			files = append(files, entry.Name())
		case entry.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err == nil && info.Mode().IsRegular() {
				files = append(files, entry.Name())
			}
		}
	}
	return files, nil
}
