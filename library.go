package vangogh

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/vangogh/vg"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// Entry describes an image held in a Library
type Entry struct {
	Name   string
	SHA1   string
	Width  uint32
	Height uint32
	Size   int64
}

// Library is a SQLite database of VanGogh images stored by name. Images are
// compressed with zstd.
type Library struct {
	db *sql.DB

	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewLibrary(file string) (*Library, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, size INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Library{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

func (l *Library) Close() error {
	l.dec.Close()
	if err := l.enc.Close(); err != nil {
		l.db.Close()
		return err
	}
	return l.db.Close()
}

// Add stores m under name, replacing any existing image with that name.
func (l *Library) Add(name string, m *vg.Image) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	if _, err := l.db.Exec("INSERT OR REPLACE INTO image (name, sha1, width, height, size, data) VALUES (?, ?, ?, ?, ?, ?)", name, sha, m.Width, m.Height, len(b), l.enc.EncodeAll(b, nil)); err != nil {
		return err
	}

	return nil
}

// Find returns the image stored under name or nil if there isn't one.
func (l *Library) Find(name string) (*vg.Image, error) {
	var sha string
	var data []byte
	switch err := l.db.QueryRow("SELECT sha1, data FROM image WHERE name = ?", name).Scan(&sha, &data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		b, err := l.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", vg.ErrCorrupt, err)
		}

		if fmt.Sprintf("%X", sha1.Sum(b)) != sha {
			return nil, fmt.Errorf("%w: checksum mismatch for \"%s\"", vg.ErrCorrupt, name)
		}

		m := new(vg.Image)
		if err := m.UnmarshalBinary(b); err != nil {
			return nil, err
		}

		return m, nil
	default:
		return nil, err
	}
}

// Remove deletes the image stored under name, reporting whether it existed.
func (l *Library) Remove(name string) (bool, error) {
	result, err := l.db.Exec("DELETE FROM image WHERE name = ?", name)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// List returns every image in the library ordered by name.
func (l *Library) List() ([]Entry, error) {
	rows, err := l.db.Query("SELECT name, sha1, width, height, size FROM image ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.SHA1, &e.Width, &e.Height, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
