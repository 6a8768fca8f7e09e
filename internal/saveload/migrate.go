package saveload

import "io"

// Migrator upgrades a save body from one version to the next. Migrators
// are registered at startup and chained by Load when a file's version
// trails the current one by more than zero steps.
type Migrator struct {
	FromVersion uint16
	ToVersion   uint16
	Apply       func(File) (File, error)
}

// MigratorChain holds the registered upgrade path, keyed by the version
// a migrator upgrades from.
type MigratorChain struct {
	byFromVersion map[uint16]Migrator
}

// NewMigratorChain constructs an empty chain; Archon core ships none
// today (this is the first on-disk version), but controlapi or a
// scenario pack may register one as the format evolves.
func NewMigratorChain() *MigratorChain {
	return &MigratorChain{byFromVersion: make(map[uint16]Migrator)}
}

func (c *MigratorChain) Register(m Migrator) {
	c.byFromVersion[m.FromVersion] = m
}

// Upgrade walks f.Version forward to the current packVersion(), applying
// registered migrators in sequence. It returns ErrIncompatibleVersion if
// the chain runs dry before reaching the current version.
func (c *MigratorChain) Upgrade(f File) (File, error) {
	current := packVersion()
	for f.Version != current {
		m, ok := c.byFromVersion[f.Version]
		if !ok {
			return File{}, ErrIncompatibleVersion
		}
		upgraded, err := m.Apply(f)
		if err != nil {
			return File{}, err
		}
		upgraded.Version = m.ToVersion
		f = upgraded
	}
	return f, nil
}

// Load reads a save file and brings it to the current version, running
// it through chain when the on-disk version trails. A nil chain treats
// any non-current version as ErrIncompatibleVersion.
func Load(r io.Reader, chain *MigratorChain) (File, error) {
	f, err := Read(r)
	if err != nil {
		return File{}, err
	}
	if f.Version == packVersion() {
		return f, nil
	}
	if chain == nil {
		return File{}, ErrIncompatibleVersion
	}
	return chain.Upgrade(f)
}
