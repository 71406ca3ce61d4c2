package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/custodia-labs/habitplan/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// minVersionGap keeps version timestamps strictly increasing.
const minVersionGap = int64(time.Microsecond)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.habitplan/data/habitplan.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".habitplan", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "habitplan.db")

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChatStore returns a ChatStore interface backed by this store.
func (s *Store) ChatStore() driven.ChatStore {
	return &chatStore{store: s}
}

// MessageStore returns a MessageStore interface backed by this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// VoteStore returns a VoteStore interface backed by this store.
func (s *Store) VoteStore() driven.VoteStore {
	return &voteStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// isConstraintError reports whether err is a SQLite constraint violation.
func isConstraintError(err error) bool {
	return hasPrimaryCode(err, sqlite3.SQLITE_CONSTRAINT)
}

// isBusyError reports whether err is a lock or stale-snapshot failure.
func isBusyError(err error) bool {
	return hasPrimaryCode(err, sqlite3.SQLITE_BUSY)
}

func hasPrimaryCode(err error, code int) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == code
}

func toUnixNano(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = "id, version, chat_id, user_id, title, kind, content, created_at"

// GetLatestByChat returns the latest version of a chat's document.
func (s *documentStore) GetLatestByChat(ctx context.Context, chatID, userID string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE chat_id = ? AND user_id = ?
		ORDER BY created_at DESC, version DESC
		LIMIT 1
	`, chatID, userID)
	return scanDocument(row)
}

// GetLatest returns the latest version of a document.
func (s *documentStore) GetLatest(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE id = ?
		ORDER BY version DESC
		LIMIT 1
	`, id)
	return scanDocument(row)
}

// ListVersions returns all versions of a document, oldest first.
func (s *documentStore) ListVersions(ctx context.Context, id string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE id = ?
		ORDER BY version ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying document versions: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document versions: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs, nil
}

// Create stores the first version of a new document.
func (s *documentStore) Create(ctx context.Context, doc *domain.Document) error {
	createdAt := toUnixNano(time.Now())
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, 1, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.ChatID, doc.UserID, doc.Title, doc.Kind, doc.Content, createdAt)
	if isConstraintError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	doc.Version = 1
	doc.CreatedAt = fromUnixNano(createdAt)
	return nil
}

// SaveVersion appends a version when expectedVersion is still the latest.
// The check and the insert are a single statement, so two writers holding
// the same version cannot both succeed.
func (s *documentStore) SaveVersion(ctx context.Context, doc *domain.Document, expectedVersion int) error {
	now := toUnixNano(time.Now())
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		SELECT ?, MAX(version) + 1, ?, ?, ?, ?, ?, MAX(?, MAX(created_at) + ?)
		FROM documents
		WHERE id = ?
		GROUP BY id
		HAVING MAX(version) = ?
	`, doc.ID, doc.ChatID, doc.UserID, doc.Title, doc.Kind, doc.Content, now, minVersionGap,
		doc.ID, expectedVersion)
	if isConstraintError(err) || isBusyError(err) {
		// Another writer committed first.
		return domain.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("saving document version: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving document version: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetLatest(ctx, doc.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}

	saved, err := s.GetLatest(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.Version = saved.Version
	doc.CreatedAt = saved.CreatedAt
	return nil
}

// DeleteVersionsAfter removes every version created after ts.
func (s *documentStore) DeleteVersionsAfter(ctx context.Context, id string, ts time.Time) (int, error) {
	if _, err := s.GetLatest(ctx, id); err != nil {
		return 0, err
	}

	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ? AND created_at > ?", id, toUnixNano(ts))
	if err != nil {
		return 0, fmt.Errorf("deleting document versions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting document versions: %w", err)
	}
	return int(affected), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		createdAt int64
	)
	err := row.Scan(&doc.ID, &doc.Version, &doc.ChatID, &doc.UserID,
		&doc.Title, &doc.Kind, &doc.Content, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.CreatedAt = fromUnixNano(createdAt)
	return &doc, nil
}

// ==================== Chat Store ====================

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// Save stores or replaces a chat.
func (s *chatStore) Save(ctx context.Context, chat *domain.Chat) error {
	createdAt := chat.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chats (id, user_id, title, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title
	`, chat.ID, chat.UserID, chat.Title, toUnixNano(createdAt))
	if err != nil {
		return fmt.Errorf("saving chat: %w", err)
	}
	return nil
}

// Get retrieves a chat by ID.
func (s *chatStore) Get(ctx context.Context, id string) (*domain.Chat, error) {
	var (
		chat      domain.Chat
		createdAt int64
	)
	err := s.store.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, created_at FROM chats WHERE id = ?", id,
	).Scan(&chat.ID, &chat.UserID, &chat.Title, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	chat.CreatedAt = fromUnixNano(createdAt)
	return &chat, nil
}

// ==================== Message Store ====================

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

// Save stores or replaces a message.
func (s *messageStore) Save(ctx context.Context, msg *domain.Message) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role = excluded.role,
			content = excluded.content
	`, msg.ID, msg.ChatID, msg.Role, msg.Content, toUnixNano(createdAt))
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// Get retrieves a message of a chat.
func (s *messageStore) Get(ctx context.Context, chatID, messageID string) (*domain.Message, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, chat_id, role, content, created_at FROM messages
		WHERE id = ? AND chat_id = ?
	`, messageID, chatID)
	return scanMessage(row)
}

// ListByChat returns the messages of a chat, oldest first.
func (s *messageStore) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, chat_id, role, content, created_at FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		msg       domain.Message
		createdAt int64
	)
	err := row.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning message: %w", err)
	}
	msg.CreatedAt = fromUnixNano(createdAt)
	return &msg, nil
}

// ==================== Vote Store ====================

// voteStore implements driven.VoteStore.
type voteStore struct {
	store *Store
}

var _ driven.VoteStore = (*voteStore)(nil)

// Save stores a vote, replacing any previous vote on the same message.
func (s *voteStore) Save(ctx context.Context, vote domain.Vote) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO votes (chat_id, message_id, type, is_upvoted)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id, message_id) DO UPDATE SET
			type = excluded.type,
			is_upvoted = excluded.is_upvoted
	`, vote.ChatID, vote.MessageID, string(vote.Type), vote.IsUpvoted)
	if err != nil {
		return fmt.Errorf("saving vote: %w", err)
	}
	return nil
}

// ListByChat returns the votes of a chat ordered by message id.
func (s *voteStore) ListByChat(ctx context.Context, chatID string) ([]domain.Vote, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chat_id, message_id, type, is_upvoted FROM votes
		WHERE chat_id = ?
		ORDER BY message_id ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var (
			vote     domain.Vote
			voteType string
		)
		if err := rows.Scan(&vote.ChatID, &vote.MessageID, &voteType, &vote.IsUpvoted); err != nil {
			return nil, fmt.Errorf("scanning vote: %w", err)
		}
		vote.Type = domain.VoteType(voteType)
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}
