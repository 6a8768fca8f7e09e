package saveload

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSlotRegistryRegisterAndList(t *testing.T) {
	dir := t.TempDir()
	reg, err := OpenSlotRegistry(dir)
	if err != nil {
		t.Fatalf("OpenSlotRegistry: %v", err)
	}
	defer reg.Close()

	info := SlotInfo{
		Name:        "capital-1850",
		Kind:        SlotNamed,
		FilePath:    filepath.Join(dir, "capital-1850.sav"),
		CurrentTick: 500,
		CreatedAt:   time.Unix(1000, 0).UTC(),
	}
	if err := reg.Register(info); err != nil {
		t.Fatalf("Register: %v", err)
	}
	list, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "capital-1850" {
		t.Errorf("expected one named save, got %+v", list)
	}
}

func TestSlotRegistryAutosaveRotation(t *testing.T) {
	dir := t.TempDir()
	reg, err := OpenSlotRegistry(dir)
	if err != nil {
		t.Fatalf("OpenSlotRegistry: %v", err)
	}
	defer reg.Close()

	for i := 0; i < AutosaveRetention+3; i++ {
		info := SlotInfo{
			Name:        "auto-" + itoa(i),
			Kind:        SlotAutosave,
			FilePath:    filepath.Join(dir, itoa(i)+".sav"),
			CurrentTick: uint64(i),
			CreatedAt:   time.Unix(int64(1000+i), 0).UTC(),
		}
		if err := reg.Register(info); err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
	}
	list, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != AutosaveRetention {
		t.Errorf("expected rotation to cap at %d entries, got %d", AutosaveRetention, len(list))
	}
}

func TestSlotRegistryDeleteRemovesCatalogEntry(t *testing.T) {
	dir := t.TempDir()
	reg, err := OpenSlotRegistry(dir)
	if err != nil {
		t.Fatalf("OpenSlotRegistry: %v", err)
	}
	defer reg.Close()

	path := filepath.Join(dir, "gone.sav")
	if err := reg.Register(SlotInfo{Name: "gone", Kind: SlotNamed, FilePath: path, CreatedAt: time.Unix(1, 0)}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty catalog after delete, got %+v", list)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
