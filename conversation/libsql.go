package conversation

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/caremesh/caremesh/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LibSQLStore is a durable ContextStore backed by an embedded libsql
// database. The rolling sequences and counters are kept as a JSON document
// per conversation row; identity and escalation state are first-class
// columns so operators can query them directly.
type LibSQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// contextDocument is the JSON shape of the context column.
type contextDocument struct {
	History         []core.HistoryEntry `json:"history"`
	PreviousIntents []string            `json:"previous_intents"`
	EmotionTrend    []string            `json:"emotion_trend"`
	TurnCount       int                 `json:"turn_count"`
	UnresolvedTurns int                 `json:"unresolved_turns"`
}

// OpenLibSQL opens (creating if necessary) an embedded libsql database at
// path and migrates its schema.
func OpenLibSQL(path string) (*LibSQLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create database directory %s: %w", dir, err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("could not create database at %s: %w", path, err)
		}
		f.Close()
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open libsql connection: %w", err)
	}

	store, err := NewLibSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewLibSQLStore wraps an already-open database and runs pending migrations.
func NewLibSQLStore(db *sql.DB) (*LibSQLStore, error) {
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &LibSQLStore{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}

// Close releases the underlying database handle.
func (s *LibSQLStore) Close() error {
	return s.db.Close()
}

// GetOrCreate returns an existing conversation snapshot or inserts a zeroed
// row, allocating a fresh identifier when none is supplied.
func (s *LibSQLStore) GetOrCreate(ctx context.Context, conversationID, customerID string, channel core.Channel) (*core.ConversationContext, error) {
	if conversationID != "" {
		cctx, err := s.load(ctx, s.db, conversationID)
		if err == nil {
			return cctx, nil
		}
		if !errors.Is(err, core.ErrConversationNotFound) {
			return nil, err
		}
	}

	id := conversationID
	if id == "" {
		id = uuid.NewString()
	}
	cctx := core.NewConversationContext(id, customerID, channel)
	doc, err := json.Marshal(contextDocument{
		History:         cctx.History,
		PreviousIntents: cctx.PreviousIntents,
		EmotionTrend:    cctx.EmotionTrend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode context: %w", err)
	}

	now := s.now().UTC()
	// Last-writer-wins on concurrent first-turn creation.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, customer_id, channel, language, context, is_escalated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET customer_id = excluded.customer_id, updated_at = excluded.updated_at`,
		id, customerID, string(channel), string(cctx.Language), string(doc), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation %s: %w", id, err)
	}
	return cctx, nil
}

// Update folds a completed turn into the stored conversation within a
// transaction, so concurrent turns on the same conversation cannot lose
// history entries.
func (s *LibSQLStore) Update(ctx context.Context, conversationID string, turn core.TurnResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	cctx, err := s.load(ctx, tx, conversationID)
	if err != nil {
		return err
	}
	cctx.ApplyTurn(turn, s.now().UTC())

	doc, err := json.Marshal(contextDocument{
		History:         cctx.History,
		PreviousIntents: cctx.PreviousIntents,
		EmotionTrend:    cctx.EmotionTrend,
		TurnCount:       cctx.TurnCount,
		UnresolvedTurns: cctx.UnresolvedTurns,
	})
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}

	escalated := 0
	if cctx.IsEscalated {
		escalated = 1
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET language = ?, context = ?, is_escalated = ?, updated_at = ?
		WHERE id = ?`,
		string(cctx.Language), string(doc), escalated, s.now().UTC(), conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation %s: %w", conversationID, err)
	}
	return tx.Commit()
}

// querier is the subset of *sql.DB / *sql.Tx used by load.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *LibSQLStore) load(ctx context.Context, q querier, conversationID string) (*core.ConversationContext, error) {
	var (
		customerID, channel, language, doc string
		escalated                          int
	)
	err := q.QueryRowContext(ctx, `
		SELECT customer_id, channel, language, context, is_escalated
		FROM conversations WHERE id = ?`, conversationID,
	).Scan(&customerID, &channel, &language, &doc, &escalated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
	}

	var d contextDocument
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return nil, fmt.Errorf("failed to decode context for %s: %w", conversationID, err)
	}

	cctx := core.NewConversationContext(conversationID, customerID, core.Channel(channel))
	cctx.Language = core.Language(language)
	if d.History != nil {
		cctx.History = d.History
	}
	if d.PreviousIntents != nil {
		cctx.PreviousIntents = d.PreviousIntents
	}
	if d.EmotionTrend != nil {
		cctx.EmotionTrend = d.EmotionTrend
	}
	cctx.TurnCount = d.TurnCount
	cctx.UnresolvedTurns = d.UnresolvedTurns
	cctx.IsEscalated = escalated != 0
	return cctx, nil
}
