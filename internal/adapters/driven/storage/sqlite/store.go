// Package sqlite is the persistent local storage adapter. It holds the
// one piece of state that survives a restart: the login credential.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// Store is the SQLite-backed local store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the store at the given data
// directory. If dataDir is empty, defaults to ~/.study/data/study.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".study", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "study.db")

	// WAL for concurrent readers, busy timeout to ride out writer overlap
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CredentialStore returns a CredentialStore backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// credentialStore implements driven.CredentialStore over the single-row
// credentials table.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Save stores the credential, replacing any previous one.
func (s *credentialStore) Save(ctx context.Context, cred domain.Credential) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO credentials (id, access_token, token_type, email, obtained_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			email = excluded.email,
			obtained_at = excluded.obtained_at
	`, cred.AccessToken, cred.TokenType, cred.Email, cred.ObtainedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or nil if none is stored.
func (s *credentialStore) Load(ctx context.Context) (*domain.Credential, error) {
	var cred domain.Credential
	err := s.store.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, email, obtained_at
		FROM credentials WHERE id = 1
	`).Scan(&cred.AccessToken, &cred.TokenType, &cred.Email, &cred.ObtainedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading credential: %w", err)
	}
	return &cred, nil
}

// Clear removes the stored credential.
func (s *credentialStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
