package core

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS games (
    appid INTEGER PRIMARY KEY,
    name TEXT,
    playtime_forever INTEGER,
    last_played INTEGER,
    installed BOOLEAN
)`

// LibraryStore is the local relational cache of game metadata. The
// installed flag is owned by the orchestrator; playtime and last-played
// are owned by the library syncer.
type LibraryStore struct {
	db *sql.DB
}

// OpenLibraryStore opens an existing library database. A missing or
// unreadable file is ErrStoreUnavailable; run a library sync first to
// create one.
func OpenLibraryStore(path string) (*LibraryStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return openLibraryStore(path)
}

// InitLibraryStore opens the library database, creating the file and
// schema when absent. Used by the sync path, which is the only creator
// of game records.
func InitLibraryStore(path string) (*LibraryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	store, err := openLibraryStore(path)
	if err != nil {
		return nil, err
	}

	if _, err := store.db.Exec(schemaSQL); err != nil {
		store.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return store, nil
}

func openLibraryStore(path string) (*LibraryStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// SQLite allows one writer at a time; a second connection would only
	// buy us SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &LibraryStore{db: db}, nil
}

func (s *LibraryStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// MarkInstalled flips the installed flag on. Unconditional and
// idempotent; it never creates rows, records come from the syncer.
func (s *LibraryStore) MarkInstalled(appid int) error {
	return s.setInstalled(appid, true)
}

// MarkUninstalled flips the installed flag off. Unconditional and
// idempotent.
func (s *LibraryStore) MarkUninstalled(appid int) error {
	return s.setInstalled(appid, false)
}

func (s *LibraryStore) setInstalled(appid int, installed bool) error {
	_, err := s.db.Exec("UPDATE games SET installed = ? WHERE appid = ?", installed, appid)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertOwnedGame writes a record fetched from the owned-games API.
// Owned by the sync collaborator; the orchestrator never calls this.
func (s *LibraryStore) UpsertOwnedGame(appid int, name string, playtimeForever int, lastPlayed int64, installed bool) error {
	_, err := s.db.Exec(`
	INSERT OR REPLACE INTO games (appid, name, playtime_forever, last_played, installed)
	VALUES (?, ?, ?, ?, ?)`,
		appid, name, playtimeForever, lastPlayed, installed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// GameInfo is the read projection served to the front-end.
type GameInfo struct {
	Name       string
	Playtime   string
	LastPlayed string
	Status     string
	Installed  bool
}

const (
	StatusInstalled    = "Installed"
	StatusNotInstalled = "Not installed"
)

func (s *LibraryStore) GetGameInfo(appid int) (*GameInfo, error) {
	var name string
	var playtime int
	var lastPlayed int64
	var installed bool

	row := s.db.QueryRow(
		"SELECT name, playtime_forever, last_played, installed FROM games WHERE appid = ?", appid)
	err := row.Scan(&name, &playtime, &lastPlayed, &installed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: appid %d", ErrNotFound, appid)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	status := StatusNotInstalled
	if installed {
		status = StatusInstalled
	}

	return &GameInfo{
		Name:       name,
		Playtime:   formatPlaytime(playtime),
		LastPlayed: formatLastPlayed(lastPlayed),
		Status:     status,
		Installed:  installed,
	}, nil
}

func formatPlaytime(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatLastPlayed(epoch int64) string {
	if epoch == 0 {
		return "Never"
	}
	return time.Unix(epoch, 0).Format("2006-01-02 15:04")
}

// ListForSelection streams (displayLabel, appid) pairs for the selection
// front-end, not-installed games first and alphabetical within each
// group. The ordering is a UX contract, not an accident. Rows are
// scanned lazily as yield consumes them; calling again restarts the
// sequence.
func (s *LibraryStore) ListForSelection(yield func(label string, appid int) bool) error {
	rows, err := s.db.Query(
		"SELECT appid, name, installed FROM games ORDER BY installed ASC, name COLLATE NOCASE ASC")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appid int
		var name string
		var installed bool
		if err := rows.Scan(&appid, &name, &installed); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		status := StatusNotInstalled
		if installed {
			status = StatusInstalled
		}
		if !yield(fmt.Sprintf("%s [%s]", name, status), appid) {
			return nil
		}
	}

	return rows.Err()
}
