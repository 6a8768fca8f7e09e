package saveload

import (
	"os"
	"path/filepath"
)

// WriteAtomic writes f to path by first writing to a temp file in the
// same directory, then renaming over path. A concurrent reader never
// observes a partially-written save, and a crash mid-write leaves the
// previous save (or nothing) rather than a truncated one.
func WriteAtomic(path string, f File) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".saveload-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := Write(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ReadFile loads and, if necessary, migrates the save at path.
func ReadFile(path string, chain *MigratorChain) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Load(f, chain)
}
