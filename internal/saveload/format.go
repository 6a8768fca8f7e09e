// Package saveload implements the save file format: a magic header,
// versioned metadata, dependency-ordered subsystem blocks, a trailing
// command log, and a post-replay checksum. Writes are atomic via
// temp-file-then-rename, the body is compressed with LZ4, and the
// content is checksummed with BLAKE3.
package saveload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/archon-sim/core/internal/ids"
)

// Magic identifies a valid save file.
var Magic = [4]byte{'H', 'G', 'S', 'V'}

// VersionMajor/VersionMinor identify the on-disk format version this
// package writes; Load rejects files with an incompatible major version
// unless a migrator is registered for the gap.
const (
	VersionMajor uint16 = 1
	VersionMinor uint16 = 0
)

// ErrBadMagic is returned when a file does not begin with Magic.
var ErrBadMagic = errors.New("saveload: not an archon save file")

// ErrIncompatibleVersion is returned when no migrator path exists from
// the file's version to the current one.
var ErrIncompatibleVersion = errors.New("saveload: incompatible save version, no migrator registered")

// Metadata is the save's human-facing header: name, timestamps, and the
// tick/speed/scenario needed to resume without re-parsing the blocks.
type Metadata struct {
	SaveName     string
	WallClockISO string
	CurrentTick  ids.Tick
	GameSpeed    uint8
	ScenarioName string
}

// Block is one subsystem's serialized snapshot: a name tag and its raw
// bytes, written and read in dependency order (see BlockOrder).
type Block struct {
	Name string
	Data []byte
}

// File is the fully-assembled in-memory representation of a save,
// before compression and header framing.
type File struct {
	Version          uint16 // major<<8 | minor, as written
	Metadata         Metadata
	Blocks           []Block
	CommandLog       [][]byte // serialized commands, in application order
	ExpectedChecksum uint32
}

func packVersion() uint16 { return VersionMajor<<8 | VersionMinor }

// Write serializes f to w: magic, version, header checksum, metadata,
// blocks, command log, expected checksum, then LZ4-compresses the
// entire body (everything after the magic+version+header-checksum
// prefix) so the magic bytes stay inspectable without decompression.
func Write(w io.Writer, f File) error {
	var body bytes.Buffer
	writeString(&body, f.Metadata.SaveName)
	writeString(&body, f.Metadata.WallClockISO)
	binary.Write(&body, binary.LittleEndian, uint64(f.Metadata.CurrentTick))
	body.WriteByte(f.Metadata.GameSpeed)
	writeString(&body, f.Metadata.ScenarioName)

	binary.Write(&body, binary.LittleEndian, uint32(len(f.Blocks)))
	for _, b := range f.Blocks {
		writeString(&body, b.Name)
		binary.Write(&body, binary.LittleEndian, uint32(len(b.Data)))
		body.Write(b.Data)
	}

	binary.Write(&body, binary.LittleEndian, uint32(len(f.CommandLog)))
	for _, cmd := range f.CommandLog {
		binary.Write(&body, binary.LittleEndian, uint32(len(cmd)))
		body.Write(cmd)
	}

	binary.Write(&body, binary.LittleEndian, f.ExpectedChecksum)

	compressed, err := compressLZ4(body.Bytes())
	if err != nil {
		return err
	}

	headerChecksum := headerChecksumOf(compressed)

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, f.Version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, headerChecksum); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(compressed))); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

// Read parses a save file written by Write, verifying magic and the
// header checksum before decompressing the body. It does not reject an
// old version outright: the caller decides whether to run it through a
// MigratorChain via Load, or to treat any non-current version as fatal.
func Read(r io.Reader) (File, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return File{}, err
	}
	if magic != Magic {
		return File{}, ErrBadMagic
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return File{}, err
	}
	var headerChecksum uint32
	if err := binary.Read(r, binary.LittleEndian, &headerChecksum); err != nil {
		return File{}, err
	}
	var bodyLen uint32
	if err := binary.Read(r, binary.LittleEndian, &bodyLen); err != nil {
		return File{}, err
	}
	compressed := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return File{}, err
	}
	if headerChecksumOf(compressed) != headerChecksum {
		return File{}, errors.New("saveload: header checksum mismatch, file corrupt")
	}
	body, err := decompressLZ4(compressed)
	if err != nil {
		return File{}, err
	}
	return parseBody(version, body)
}

func parseBody(version uint16, body []byte) (File, error) {
	buf := bytes.NewReader(body)
	f := File{Version: version}

	saveName, err := readString(buf)
	if err != nil {
		return File{}, err
	}
	wallClock, err := readString(buf)
	if err != nil {
		return File{}, err
	}
	var tick uint64
	if err := binary.Read(buf, binary.LittleEndian, &tick); err != nil {
		return File{}, err
	}
	speed, err := buf.ReadByte()
	if err != nil {
		return File{}, err
	}
	scenarioName, err := readString(buf)
	if err != nil {
		return File{}, err
	}
	f.Metadata = Metadata{
		SaveName:     saveName,
		WallClockISO: wallClock,
		CurrentTick:  ids.Tick(tick),
		GameSpeed:    speed,
		ScenarioName: scenarioName,
	}

	var blockCount uint32
	if err := binary.Read(buf, binary.LittleEndian, &blockCount); err != nil {
		return File{}, err
	}
	for i := uint32(0); i < blockCount; i++ {
		name, err := readString(buf)
		if err != nil {
			return File{}, err
		}
		var n uint32
		if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
			return File{}, err
		}
		data := make([]byte, n)
		if _, err := io.ReadFull(buf, data); err != nil {
			return File{}, err
		}
		f.Blocks = append(f.Blocks, Block{Name: name, Data: data})
	}

	var cmdCount uint32
	if err := binary.Read(buf, binary.LittleEndian, &cmdCount); err != nil {
		return File{}, err
	}
	for i := uint32(0); i < cmdCount; i++ {
		var n uint32
		if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
			return File{}, err
		}
		data := make([]byte, n)
		if _, err := io.ReadFull(buf, data); err != nil {
			return File{}, err
		}
		f.CommandLog = append(f.CommandLog, data)
	}

	if err := binary.Read(buf, binary.LittleEndian, &f.ExpectedChecksum); err != nil {
		return File{}, err
	}
	return f, nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

func compressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// headerChecksumOf is used only for the fast header-level corruption check (the
// 4 bytes immediately after version); the stronger, cryptographic-strength
// digest is ChecksumBLAKE3 below, used for the post-replay determinism check.
func headerChecksumOf(data []byte) uint32 {
	h := blake3.Sum256(data)
	return binary.LittleEndian.Uint32(h[:4])
}

// ChecksumBLAKE3 computes the determinism-verification digest over
// arbitrary authoritative-state bytes (a province snapshot, the full
// command log, etc.), truncated to 32 bits to fit the save format's
// checksum field.
func ChecksumBLAKE3(data []byte) uint32 {
	h := blake3.Sum256(data)
	return binary.LittleEndian.Uint32(h[:4])
}
