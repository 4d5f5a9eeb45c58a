package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/soupgym/soupgym/internal/domain"
)

// ManifestEntry is one (archetype, seed) pair of a benchmark manifest.
type ManifestEntry struct {
	ArchetypeID string `json:"archetype_id"`
	Seed        uint64 `json:"seed"`
}

// ManifestVersion describes one manifest version's state.
type ManifestVersion struct {
	Version     string    `json:"version"`
	Frozen      bool      `json:"frozen"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Entries     int       `json:"entries"`
}

// CreateVersion registers a new, unfrozen manifest version.
func (d *DB) CreateVersion(version string) error {
	_, err := d.db.Exec(
		`INSERT INTO manifest_versions (version, created_at) VALUES (?, ?)`,
		version, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create manifest version %q: %w", version, err)
	}
	return nil
}

// Append adds an entry to an unfrozen version. Frozen versions are
// immutable: cross-run comparability depends on it.
func (d *DB) Append(version string, e ManifestEntry) error {
	frozen, err := d.versionFrozen(version)
	if err != nil {
		return err
	}
	if frozen {
		return fmt.Errorf("%q: %w", version, domain.ErrManifestFrozen)
	}
	_, err = d.db.Exec(
		`INSERT INTO manifest_entries (version, idx, archetype_id, seed)
		 VALUES (?, (SELECT COALESCE(MAX(idx)+1, 0) FROM manifest_entries WHERE version = ?), ?, ?)`,
		version, version, e.ArchetypeID, int64(e.Seed))
	if err != nil {
		return fmt.Errorf("append to manifest %q: %w", version, err)
	}
	return nil
}

// Entries returns a version's entries in manifest order.
func (d *DB) Entries(version string) ([]ManifestEntry, error) {
	if _, err := d.versionFrozen(version); err != nil {
		return nil, err
	}
	rows, err := d.db.Query(
		`SELECT archetype_id, seed FROM manifest_entries WHERE version = ? ORDER BY idx`, version)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", version, err)
	}
	defer rows.Close()

	var out []ManifestEntry
	for rows.Next() {
		var e ManifestEntry
		var seed int64
		if err := rows.Scan(&e.ArchetypeID, &seed); err != nil {
			return nil, err
		}
		e.Seed = uint64(seed)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Freeze seals a version: its canonical content hash is computed and
// stored, and all future mutation is rejected.
func (d *DB) Freeze(version string) (string, error) {
	frozen, err := d.versionFrozen(version)
	if err != nil {
		return "", err
	}
	if frozen {
		return "", fmt.Errorf("%q: %w", version, domain.ErrManifestFrozen)
	}
	entries, err := d.Entries(version)
	if err != nil {
		return "", err
	}
	hash := hashEntries(version, entries)
	if _, err := d.db.Exec(
		`UPDATE manifest_versions SET frozen = 1, content_hash = ? WHERE version = ?`,
		hash, version); err != nil {
		return "", fmt.Errorf("freeze manifest %q: %w", version, err)
	}
	return hash, nil
}

// Verify recomputes a frozen version's content hash and compares it to
// the stored one.
func (d *DB) Verify(version string) error {
	var stored string
	var frozen bool
	err := d.db.QueryRow(
		`SELECT frozen, content_hash FROM manifest_versions WHERE version = ?`, version).
		Scan(&frozen, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%q: %w", version, domain.ErrManifestNotFound)
	}
	if err != nil {
		return err
	}
	if !frozen {
		return fmt.Errorf("manifest %q is not frozen yet", version)
	}
	entries, err := d.Entries(version)
	if err != nil {
		return err
	}
	if got := hashEntries(version, entries); got != stored {
		return fmt.Errorf("%q: stored %s, recomputed %s: %w", version, stored, got, domain.ErrManifestMismatch)
	}
	return nil
}

// Versions lists all manifest versions.
func (d *DB) Versions() ([]ManifestVersion, error) {
	rows, err := d.db.Query(
		`SELECT v.version, v.frozen, v.content_hash, v.created_at,
		        (SELECT COUNT(*) FROM manifest_entries e WHERE e.version = v.version)
		 FROM manifest_versions v ORDER BY v.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ManifestVersion
	for rows.Next() {
		var v ManifestVersion
		var created int64
		if err := rows.Scan(&v.Version, &v.Frozen, &v.ContentHash, &created, &v.Entries); err != nil {
			return nil, err
		}
		v.CreatedAt = time.Unix(created, 0)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) versionFrozen(version string) (bool, error) {
	var frozen bool
	err := d.db.QueryRow(
		`SELECT frozen FROM manifest_versions WHERE version = ?`, version).Scan(&frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%q: %w", version, domain.ErrManifestNotFound)
	}
	return frozen, err
}

// hashEntries computes the canonical content hash of a manifest: sha256
// over length-prefixed fields in manifest order, so the hash is stable
// across architectures and insertion histories.
func hashEntries(version string, entries []ManifestEntry) string {
	h := sha256.New()
	writeField := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	writeField([]byte(version))
	var count [8]byte
	binary.BigEndian.PutUint64(count[:], uint64(len(entries)))
	h.Write(count[:])
	for _, e := range entries {
		writeField([]byte(e.ArchetypeID))
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], e.Seed)
		h.Write(seed[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
