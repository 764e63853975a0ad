package imgcpr

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an archive has no entry for a checksum.
var ErrNotFound = errors.New("imgcpr: not found")

// Entry describes an image held in an Archive.
type Entry struct {
	// SHA1 is the upper case hex checksum of the source file.
	SHA1   string
	Name   string
	Width  int
	Height int
	Colors int
	Method string
	// Size is the compressed size in bytes.
	Size int
}

// Archive is an sqlite database of compressed images, keyed by the checksum
// of the file they came from.
type Archive struct {
	db         *sql.DB
	compressor *Compressor
}

// NewArchive opens or creates the archive in file. New entries are
// compressed with c.
func NewArchive(file string, c *Compressor) (*Archive, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS payload (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, method TEXT NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Archive{
		db:         db,
		compressor: c,
	}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Add compresses the image in file and stores it. Adding a file whose
// contents are already stored returns the existing entry.
func (a *Archive) Add(file string) (*Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	b, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	switch e, err := a.find(sha); {
	case err == nil:
		a.compressor.logger.Printf("\"%s\" is already archived as %s\n", file, sha)
		return e, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	m, err := decodeImage(b)
	if err != nil {
		return nil, fmt.Errorf("imgcpr: %s: %w", file, err)
	}

	p, data, err := a.compressor.encode(m)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		SHA1:   sha,
		Name:   filepath.Base(file),
		Width:  int(p.Width),
		Height: int(p.Height),
		Colors: len(p.Palette),
		Method: a.compressor.config.Palette.String(),
		Size:   len(data),
	}

	if _, err := a.db.Exec("INSERT INTO payload (sha1, name, width, height, colors, method, data) VALUES (?, ?, ?, ?, ?, ?, ?)", e.SHA1, e.Name, e.Width, e.Height, e.Colors, e.Method, data); err != nil {
		return nil, err
	}
	a.compressor.logger.Printf("Archived \"%s\" as %s\n", file, sha)

	return e, nil
}

func (a *Archive) find(sha string) (*Entry, error) {
	e := new(Entry)
	switch err := a.db.QueryRow("SELECT sha1, name, width, height, colors, method, length(data) FROM payload WHERE sha1 = ?", strings.ToUpper(sha)).Scan(&e.SHA1, &e.Name, &e.Width, &e.Height, &e.Colors, &e.Method, &e.Size); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// Get returns the decompressed image stored under the checksum sha.
func (a *Archive) Get(sha string) (*image.Paletted, error) {
	var data []byte
	switch err := a.db.QueryRow("SELECT data FROM payload WHERE sha1 = ?", strings.ToUpper(sha)).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return a.compressor.Decompress(data)
	default:
		return nil, err
	}
}

// List returns every entry, ordered by name.
func (a *Archive) List() ([]Entry, error) {
	rows, err := a.db.Query("SELECT sha1, name, width, height, colors, method, length(data) FROM payload ORDER BY name, sha1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SHA1, &e.Name, &e.Width, &e.Height, &e.Colors, &e.Method, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
