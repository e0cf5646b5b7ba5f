package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"photomanager/internal/gallery"
	"photomanager/internal/storage/migrations"
)

// MediaStore is a sqlite-backed image index modelled on the platform media
// store: one row per image with the time it was added.
type MediaStore struct {
	db   *sql.DB
	stbl sq.StatementBuilderType
}

func OpenMediaStore(ctx context.Context, dsn string) (*MediaStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &MediaStore{
		db:   db,
		stbl: sq.StatementBuilder.RunWith(db),
	}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *MediaStore) Close() error {
	return s.db.Close()
}

// Add indexes one image and returns its row id.
func (s *MediaStore) Add(ctx context.Context, uri, mimeType string, added time.Time) (int64, error) {
	res, err := s.stbl.
		Insert("images").
		Columns("uri", "mime_type", "date_added").
		Values(uri, mimeType, added.Unix()).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	return res.LastInsertId()
}

func (s *MediaStore) Enumerate(ctx context.Context) ([]gallery.AssetHandle, error) {
	rows, err := s.stbl.
		Select("id", "uri", "date_added").
		From("images").
		Where(sq.Like{"mime_type": "image/%"}).
		OrderBy("date_added DESC", "id DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("error selecting images: %w", err)
	}
	defer rows.Close()

	var handles []gallery.AssetHandle
	for rows.Next() {
		var (
			id    int64
			uri   sql.NullString
			added int64
		)
		if err := rows.Scan(&id, &uri, &added); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		if !uri.Valid || uri.String == "" {
			continue
		}
		handles = append(handles, gallery.AssetHandle{
			ID:        strconv.FormatInt(id, 10),
			URI:       uri.String,
			CreatedAt: time.Unix(added, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}

	return handles, nil
}
