package saveload

import (
	"path/filepath"
	"testing"
)

func TestWriteAtomicThenReadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot.sav")
	f := sampleFile()
	if err := WriteAtomic(path, f); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Metadata.SaveName != f.Metadata.SaveName {
		t.Errorf("expected save name to survive round trip, got %q", got.Metadata.SaveName)
	}
}

func TestWriteAtomicLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot.sav")
	if err := WriteAtomic(path, sampleFile()); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	entries, err := filepath.Glob(filepath.Join(dir, ".saveload-*.tmp"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no leftover temp files, found %v", entries)
	}
}
