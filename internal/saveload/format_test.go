package saveload

import (
	"bytes"
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

func sampleFile() File {
	return File{
		Version: packVersion(),
		Metadata: Metadata{
			SaveName:     "test-save",
			WallClockISO: "2026-07-31T00:00:00Z",
			CurrentTick:  ids.Tick(1234),
			GameSpeed:    2,
			ScenarioName: "base",
		},
		Blocks: []Block{
			{Name: "provinces", Data: []byte{1, 2, 3, 4}},
			{Name: "countries", Data: []byte{5, 6}},
		},
		CommandLog:       [][]byte{{0xAA}, {0xBB, 0xCC}},
		ExpectedChecksum: 0xDEADBEEF,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := sampleFile()
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Metadata.SaveName != f.Metadata.SaveName || got.Metadata.CurrentTick != f.Metadata.CurrentTick {
		t.Errorf("metadata mismatch: %+v", got.Metadata)
	}
	if len(got.Blocks) != 2 || got.Blocks[0].Name != "provinces" || !bytes.Equal(got.Blocks[0].Data, []byte{1, 2, 3, 4}) {
		t.Errorf("blocks mismatch: %+v", got.Blocks)
	}
	if len(got.CommandLog) != 2 || !bytes.Equal(got.CommandLog[1], []byte{0xBB, 0xCC}) {
		t.Errorf("command log mismatch: %+v", got.CommandLog)
	}
	if got.ExpectedChecksum != f.ExpectedChecksum {
		t.Errorf("checksum mismatch: got %x want %x", got.ExpectedChecksum, f.ExpectedChecksum)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("NOPE")
	if _, err := Read(&buf); err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestReadRejectsCorruptBody(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleFile()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF
	if _, err := Read(bytes.NewReader(corrupted)); err == nil {
		t.Error("expected a checksum mismatch error on corrupted body")
	}
}

func TestChecksumBLAKE3Deterministic(t *testing.T) {
	a := ChecksumBLAKE3([]byte("province-snapshot"))
	b := ChecksumBLAKE3([]byte("province-snapshot"))
	if a != b {
		t.Error("expected identical input to produce identical checksum")
	}
	c := ChecksumBLAKE3([]byte("different-snapshot"))
	if a == c {
		t.Error("expected different input to produce a different checksum")
	}
}

func TestLoadRejectsOldVersionWithoutChain(t *testing.T) {
	var buf bytes.Buffer
	f := sampleFile()
	f.Version = 0x0000
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Load(&buf, nil); err != ErrIncompatibleVersion {
		t.Errorf("expected ErrIncompatibleVersion, got %v", err)
	}
}

func TestLoadAppliesMigratorChain(t *testing.T) {
	var buf bytes.Buffer
	f := sampleFile()
	f.Version = 0x0000
	f.Metadata.SaveName = "old-format"
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}

	chain := NewMigratorChain()
	chain.Register(Migrator{
		FromVersion: 0x0000,
		ToVersion:   packVersion(),
		Apply: func(in File) (File, error) {
			in.Metadata.SaveName = "migrated"
			return in, nil
		},
	})

	got, err := Load(&buf, chain)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Metadata.SaveName != "migrated" {
		t.Errorf("expected migrator to run, got name %q", got.Metadata.SaveName)
	}
}
