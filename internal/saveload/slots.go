package saveload

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SlotKind distinguishes how a save was produced, for rotation policy.
type SlotKind string

const (
	SlotQuicksave SlotKind = "quicksave"
	SlotAutosave  SlotKind = "autosave"
	SlotNamed     SlotKind = "named"
)

// SlotRegistry tracks save files on disk in a SQLite catalog, creating
// its schema on open, so the control surface can list, rotate, and
// delete saves without scanning the save directory on every request.
type SlotRegistry struct {
	db  *sql.DB
	dir string
}

// OpenSlotRegistry opens (creating if absent) the catalog database at
// dir/slots.db and ensures its schema exists.
func OpenSlotRegistry(dir string) (*SlotRegistry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "slots.db")+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	r := &SlotRegistry{db: db, dir: dir}
	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SlotRegistry) createSchema() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS saves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		file_path TEXT NOT NULL,
		current_tick INTEGER NOT NULL,
		created_at_unix INTEGER NOT NULL
	);
	`)
	return err
}

// Close releases the underlying database handle.
func (r *SlotRegistry) Close() error { return r.db.Close() }

// SlotInfo is one catalog row.
type SlotInfo struct {
	Name        string
	Kind        SlotKind
	FilePath    string
	CurrentTick uint64
	CreatedAt   time.Time
}

// AutosaveRetention caps how many autosave slots survive a rotation;
// the oldest beyond this count are deleted from disk and the catalog.
const AutosaveRetention = 5

// QuicksaveRetention caps quicksave slots the same way, kept small since
// a quicksave is meant to be a single always-overwritten scratch slot
// plus a short rollback history.
const QuicksaveRetention = 3

// Register records a newly-written save file in the catalog and, for
// rotating kinds (autosave/quicksave), deletes the oldest entries past
// the kind's retention limit.
func (r *SlotRegistry) Register(info SlotInfo) error {
	_, err := r.db.Exec(
		`INSERT INTO saves (kind, name, file_path, current_tick, created_at_unix) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET file_path=excluded.file_path, current_tick=excluded.current_tick, created_at_unix=excluded.created_at_unix`,
		string(info.Kind), info.Name, info.FilePath, int64(info.CurrentTick), info.CreatedAt.Unix(),
	)
	if err != nil {
		return err
	}
	switch info.Kind {
	case SlotAutosave:
		return r.rotate(SlotAutosave, AutosaveRetention)
	case SlotQuicksave:
		return r.rotate(SlotQuicksave, QuicksaveRetention)
	}
	return nil
}

func (r *SlotRegistry) rotate(kind SlotKind, keep int) error {
	rows, err := r.db.Query(
		`SELECT name, file_path FROM saves WHERE kind = ? ORDER BY created_at_unix DESC`, string(kind))
	if err != nil {
		return err
	}
	defer rows.Close()

	type entry struct{ name, path string }
	var all []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.name, &e.path); err != nil {
			return err
		}
		all = append(all, e)
	}
	if len(all) <= keep {
		return nil
	}
	for _, e := range all[keep:] {
		os.Remove(e.path)
		if _, err := r.db.Exec(`DELETE FROM saves WHERE name = ?`, e.name); err != nil {
			return err
		}
	}
	return nil
}

// List returns all catalog entries, most recent first.
func (r *SlotRegistry) List() ([]SlotInfo, error) {
	rows, err := r.db.Query(
		`SELECT name, kind, file_path, current_tick, created_at_unix FROM saves ORDER BY created_at_unix DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var kind string
		var createdUnix int64
		if err := rows.Scan(&info.Name, &kind, &info.FilePath, &info.CurrentTick, &createdUnix); err != nil {
			return nil, err
		}
		info.Kind = SlotKind(kind)
		info.CreatedAt = time.Unix(createdUnix, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a save both from disk and from the catalog.
func (r *SlotRegistry) Delete(name string) error {
	var filePath string
	err := r.db.QueryRow(`SELECT file_path FROM saves WHERE name = ?`, name).Scan(&filePath)
	if err == sql.ErrNoRows {
		return fmt.Errorf("saveload: no such save %q", name)
	}
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	_, err = r.db.Exec(`DELETE FROM saves WHERE name = ?`, name)
	return err
}

// PathFor returns where a named save's file should live under the
// registry's directory, given its kind and name.
func (r *SlotRegistry) PathFor(kind SlotKind, name string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s-%s.sav", kind, name))
}
