package backup

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// copyFile copies src to dst, creating parent directories as needed and
// keeping the source's permission bits. Symlinks are recreated, not
// followed. An existing dst is replaced.
func copyFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(dst) // clean up partial dst
		return err
	}
	return dstFile.Close()
}

// copyAll copies each slash-separated relative path from srcRoot to dstRoot.
func copyAll(srcRoot, dstRoot string, files []string) error {
	for _, f := range files {
		rel := filepath.FromSlash(f)
		if err := copyFile(filepath.Join(srcRoot, rel), filepath.Join(dstRoot, rel)); err != nil {
			return err
		}
	}
	return nil
}

// removeAll deletes each relative path under root, then prunes directories
// left empty. Missing files are fine.
func removeAll(root string, files []string) error {
	var errs []error
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		pruneEmptyDirs(root, filepath.Dir(p))
	}
	return errors.Join(errs...)
}

func pruneEmptyDirs(root, dir string) {
	for dir != root && len(dir) > len(root) {
		if err := os.Remove(dir); err != nil {
			return // not empty or not removable
		}
		dir = filepath.Dir(dir)
	}
}
