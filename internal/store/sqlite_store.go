package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type documentRevision struct {
	bun.BaseModel `bun:"table:document_revisions"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Version     int       `bun:"version,notnull"`
	LastUpdated string    `bun:"last_updated,notnull"`
	EventCount  int       `bun:"event_count,notnull"`
	Body        string    `bun:"body,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

// Revision describes one saved copy of the document.
type Revision struct {
	ID          int64
	LastUpdated string
	EventCount  int
}

// SQLiteStore appends every save as a new revision row; Load returns the newest.
type SQLiteStore struct {
	DB     *bun.DB
	Logger *logger.Logger
}

// OpenSQLite opens dsn through the sqlite shim driver.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", models.ErrIO, err)
	}
	// a single connection keeps in-memory databases alive and serializes writers
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewSQLiteStore creates the revisions table if needed.
func NewSQLiteStore(ctx context.Context, db *bun.DB, log *logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	_, err := db.NewCreateTable().
		Model((*documentRevision)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create revisions table: %v", models.ErrIO, err)
	}
	log.LogDocument("MIGRATE", "document_revisions", "table ready")
	return &SQLiteStore{DB: db, Logger: log}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	return s.load(ctx, s.DB)
}

func (s *SQLiteStore) load(ctx context.Context, db bun.IDB) (*models.Document, error) {
	var rev documentRevision
	err := db.NewSelect().
		Model(&rev).
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		s.Logger.LogDocument("LOAD", "document_revisions", "no revisions yet, starting empty")
		return emptyDocument(), nil
	}
	if err != nil {
		s.Logger.Warn("DOCUMENT", fmt.Sprintf("Failed to read latest revision: %v; starting empty", err))
		return emptyDocument(), nil
	}

	doc, err := decode([]byte(rev.Body))
	if errors.Is(err, models.ErrUnsupportedVersion) {
		return nil, fmt.Errorf("load revision %d: %w", rev.ID, err)
	}
	if err != nil {
		s.Logger.Warn("DOCUMENT", fmt.Sprintf("Failed to parse revision %d: %v; starting empty", rev.ID, err))
		return emptyDocument(), nil
	}

	s.Logger.LogDocument("LOAD", "document_revisions", fmt.Sprintf("revision %d, %d events", rev.ID, len(doc.Events)))
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	out, rev, err := s.insert(ctx, s.DB, doc)
	if err != nil {
		return err
	}
	s.committed(doc, out, rev)
	return nil
}

// Update reads the newest revision and appends the edited one inside a single
// transaction. doc is only marked clean once the transaction commits.
func (s *SQLiteStore) Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	var (
		doc *models.Document
		out *models.Document
		rev *documentRevision
	)
	err := s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		doc, err = s.load(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		if !doc.Dirty() {
			return nil
		}
		out, rev, err = s.insert(ctx, tx, doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rev != nil {
		s.committed(doc, out, rev)
	}
	return doc, nil
}

func (s *SQLiteStore) insert(ctx context.Context, db bun.IDB, doc *models.Document) (*models.Document, *documentRevision, error) {
	out := stamped(doc)
	data, err := encode(out)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encode document: %v", models.ErrIO, err)
	}

	rev := &documentRevision{
		Version:     out.Version,
		LastUpdated: out.LastUpdated,
		EventCount:  len(out.Events),
		Body:        string(data),
		CreatedAt:   now().UTC(),
	}
	if _, err := db.NewInsert().Model(rev).Exec(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: insert revision: %v", models.ErrIO, err)
	}
	return out, rev, nil
}

func (s *SQLiteStore) committed(doc, out *models.Document, rev *documentRevision) {
	commit(doc, out)
	s.Logger.LogDocument("SAVE", "document_revisions", fmt.Sprintf("revision %d, %d events", rev.ID, rev.EventCount))
}

// Revisions lists saved revisions, newest first.
func (s *SQLiteStore) Revisions(ctx context.Context) ([]Revision, error) {
	var rows []documentRevision
	err := s.DB.NewSelect().
		Model(&rows).
		Column("id", "last_updated", "event_count").
		OrderExpr("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list revisions: %v", models.ErrIO, err)
	}

	out := make([]Revision, len(rows))
	for i, r := range rows {
		out[i] = Revision{ID: r.ID, LastUpdated: r.LastUpdated, EventCount: r.EventCount}
	}
	return out, nil
}
