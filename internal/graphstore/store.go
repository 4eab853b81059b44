package graphstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"timegraph/internal/config"
	"timegraph/internal/services"
	"timegraph/internal/transcript"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	lockTimeout    = 10 * time.Second
)

// Store persists finished transcription graphs in SQLite, keyed by
// (uri, channel). Writes from separate processes are serialized with a lock
// file next to the database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Summary describes a stored graph without loading its edges.
type Summary struct {
	URI           string
	Channel       string
	Source        string
	Edges         int
	ImportedAt    time.Time
	CorrelationID string
}

// Key returns the collection key of the summary.
func (s Summary) Key() transcript.Key {
	return transcript.Key{URI: s.URI, Channel: s.Channel}
}

// Open opens the store configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.StorePath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "graphstore", "open", "paths.store_path is not set", nil)
	}
	return OpenPath(cfg.Paths.StorePath)
}

// OpenPath initializes or connects to the database at path and applies
// migrations.
func OpenPath(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Pragmas are per connection; keep a single one so they always apply.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := store.withWriteLock(context.Background(), store.applyMigrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) withWriteLock(ctx context.Context, fn func(context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	ok, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return services.Wrap(services.ErrTransient, "graphstore", "lock", s.lock.Path(), err)
	}
	if !ok {
		return services.Wrap(services.ErrTransient, "graphstore", "lock", "store is locked by another writer", nil)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()
	return fn(ctx)
}

// Save stores graphs, replacing any stored graph with the same key. All
// graphs are written in one transaction.
func (s *Store) Save(ctx context.Context, source, correlationID string, graphs ...*transcript.Graph) error {
	return s.withWriteLock(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		timestamp := time.Now().UTC().Format(time.RFC3339Nano)
		for _, g := range graphs {
			if err := saveGraph(ctx, tx, g, source, correlationID, timestamp); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit save: %w", err)
		}
		return nil
	})
}

func saveGraph(ctx context.Context, tx *sql.Tx, g *transcript.Graph, source, correlationID, timestamp string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM graphs WHERE uri = ? AND channel = ?`, g.URI, g.Channel); err != nil {
		return fmt.Errorf("replace graph %s: %w", g.Key(), err)
	}
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO graphs (uri, channel, source, edge_count, imported_at, correlation_id)
        VALUES (?, ?, ?, ?, ?, ?)`,
		g.URI,
		g.Channel,
		nullableString(source),
		g.Len(),
		timestamp,
		nullableString(correlationID),
	)
	if err != nil {
		return fmt.Errorf("insert graph %s: %w", g.Key(), err)
	}
	graphID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (graph_id, position, from_anchor, to_anchor, kind, text, confidence)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()

	position := 0
	for edge := range g.OrderedEdges() {
		kind, text, confidence := edgeColumns(edge.Attrs)
		if _, err := stmt.ExecContext(ctx,
			graphID,
			position,
			transcript.EncodeAnchor(edge.From),
			transcript.EncodeAnchor(edge.To),
			kind,
			text,
			confidence,
		); err != nil {
			return fmt.Errorf("insert edge %d of %s: %w", position, g.Key(), err)
		}
		position++
	}
	return nil
}

// Load returns the graph stored under (uri, channel).
func (s *Store) Load(ctx context.Context, uri, channel string) (*transcript.Graph, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM graphs WHERE uri = ? AND channel = ?`, uri, channel).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "graphstore", "load", transcript.Key{URI: uri, Channel: channel}.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return s.loadEdges(ctx, id, uri, channel)
}

// Find resolves uri and channel with "" as a wildcard and loads the single
// matching graph. Several matches fail with transcript.ErrAmbiguous.
func (s *Store) Find(ctx context.Context, uri, channel string) (*transcript.Graph, error) {
	summaries, err := s.match(ctx, uri, channel)
	if err != nil {
		return nil, err
	}
	switch len(summaries) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "graphstore", "find", transcript.Key{URI: uri, Channel: channel}.String(), nil)
	case 1:
		return s.Load(ctx, summaries[0].URI, summaries[0].Channel)
	default:
		keys := make([]string, 0, len(summaries))
		for _, summary := range summaries {
			keys = append(keys, summary.Key().String())
		}
		return nil, fmt.Errorf("find %s/%s: %w: %s", uri, channel, transcript.ErrAmbiguous, strings.Join(keys, ", "))
	}
}

// List returns every stored graph ordered by uri and channel.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	return s.match(ctx, "", "")
}

// Delete removes the graph stored under (uri, channel).
func (s *Store) Delete(ctx context.Context, uri, channel string) error {
	return s.withWriteLock(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE uri = ? AND channel = ?`, uri, channel)
		if err != nil {
			return fmt.Errorf("delete graph: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete graph rows affected: %w", err)
		}
		if affected == 0 {
			return services.Wrap(services.ErrNotFound, "graphstore", "delete", transcript.Key{URI: uri, Channel: channel}.String(), nil)
		}
		return nil
	})
}

func (s *Store) match(ctx context.Context, uri, channel string) ([]Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT uri, channel, source, edge_count, imported_at, correlation_id
        FROM graphs
        WHERE (? = '' OR uri = ?) AND (? = '' OR channel = ?)
        ORDER BY uri, channel`,
		uri, uri, channel, channel,
	)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary       Summary
			source        sql.NullString
			importedAt    string
			correlationID sql.NullString
		)
		if err := rows.Scan(&summary.URI, &summary.Channel, &source, &summary.Edges, &importedAt, &correlationID); err != nil {
			return nil, fmt.Errorf("scan graph summary: %w", err)
		}
		summary.Source = source.String
		summary.CorrelationID = correlationID.String
		if ts, err := time.Parse(time.RFC3339Nano, importedAt); err == nil {
			summary.ImportedAt = ts
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graphs: %w", err)
	}
	return out, nil
}

func (s *Store) loadEdges(ctx context.Context, id int64, uri, channel string) (*transcript.Graph, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT from_anchor, to_anchor, kind, text, confidence
        FROM edges WHERE graph_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer rows.Close()

	graph := transcript.NewGraph(uri, channel)
	decoder := transcript.NewAnchorDecoder()
	for rows.Next() {
		var (
			fromValue, toValue, kind string
			text                     sql.NullString
			confidence               sql.NullFloat64
		)
		if err := rows.Scan(&fromValue, &toValue, &kind, &text, &confidence); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		from, err := decoder.Decode(fromValue)
		if err != nil {
			return nil, fmt.Errorf("decode edge of %s: %w", graph.Key(), err)
		}
		to, err := decoder.Decode(toValue)
		if err != nil {
			return nil, fmt.Errorf("decode edge of %s: %w", graph.Key(), err)
		}
		attrs, err := attrsFromColumns(kind, text, confidence)
		if err != nil {
			return nil, fmt.Errorf("decode edge of %s: %w", graph.Key(), err)
		}
		if err := graph.AddEdge(from, to, attrs); err != nil {
			return nil, fmt.Errorf("rebuild %s: %w", graph.Key(), err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return graph, nil
}

const (
	kindEmpty    = ""
	kindSpeech   = "speech"
	kindSubtitle = "subtitle"
)

func edgeColumns(attrs transcript.Attrs) (string, sql.NullString, sql.NullFloat64) {
	switch attrs.Kind {
	case transcript.AttrSpeech:
		return kindSpeech, sql.NullString{String: attrs.Text, Valid: true}, sql.NullFloat64{Float64: attrs.Confidence, Valid: true}
	case transcript.AttrSubtitle:
		return kindSubtitle, sql.NullString{String: attrs.Text, Valid: true}, sql.NullFloat64{}
	default:
		return kindEmpty, sql.NullString{}, sql.NullFloat64{}
	}
}

func attrsFromColumns(kind string, text sql.NullString, confidence sql.NullFloat64) (transcript.Attrs, error) {
	switch kind {
	case kindEmpty:
		return transcript.Attrs{}, nil
	case kindSpeech:
		return transcript.Speech(text.String, confidence.Float64), nil
	case kindSubtitle:
		return transcript.Subtitle(text.String), nil
	default:
		return transcript.Attrs{}, fmt.Errorf("unknown edge kind %q", kind)
	}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
