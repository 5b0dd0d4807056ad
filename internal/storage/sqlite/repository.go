package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mo-legislators/internal/observability"
	"mo-legislators/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS legislators (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	term           TEXT NOT NULL,
	chamber        TEXT NOT NULL,
	district       TEXT NOT NULL,
	full_name      TEXT NOT NULL,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	party          TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	photo_url      TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	office_name    TEXT NOT NULL DEFAULT '',
	office_address TEXT NOT NULL DEFAULT '',
	office_phone   TEXT NOT NULL DEFAULT '',
	office_email   TEXT NOT NULL DEFAULT '',
	sources        TEXT NOT NULL DEFAULT '',
	checksum       TEXT NOT NULL UNIQUE,
	scraped_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_legislators_term ON legislators (term, chamber);
`

// Repository встраиваемое хранилище для локальных запусков
type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
	now            func() time.Time
}

func NewRepository(dsn string, commandTimeout time.Duration, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite не любит параллельную запись, а in-memory база живёт в одном соединении
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: commandTimeout,
		logger:         logger,
		now:            time.Now,
	}, nil
}

func (r *Repository) InsertLegislator(ctx context.Context, row *storage.LegislatorRow) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO legislators (term, chamber, district, full_name, first_name, last_name, party,
			url, photo_url, email, office_name, office_address, office_phone, office_email,
			sources, checksum, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (checksum) DO NOTHING`,
		row.Term, row.Chamber, row.District, row.FullName, row.FirstName, row.LastName, row.Party,
		row.URL, row.PhotoURL, row.Email, row.OfficeName, row.OfficeAddress, row.OfficePhone, row.OfficeEmail,
		row.Sources, row.CheckSum, r.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert legislator: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *Repository) ExistsByCheckSum(ctx context.Context, sum string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM legislators WHERE checksum = ?`, sum).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) CountByTerm(ctx context.Context, term, chamber string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM legislators WHERE term = ? AND chamber = ?`, term, chamber,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}
	return count, nil
}

// Get читает запись по контрольной сумме
func (r *Repository) Get(ctx context.Context, sum string) (*storage.LegislatorRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	row := &storage.LegislatorRow{}
	err := r.db.QueryRowContext(ctx, `
		SELECT term, chamber, district, full_name, first_name, last_name, party,
			url, photo_url, email, office_name, office_address, office_phone, office_email,
			sources, checksum
		FROM legislators WHERE checksum = ?`, sum,
	).Scan(
		&row.Term, &row.Chamber, &row.District, &row.FullName, &row.FirstName, &row.LastName, &row.Party,
		&row.URL, &row.PhotoURL, &row.Email, &row.OfficeName, &row.OfficeAddress, &row.OfficePhone, &row.OfficeEmail,
		&row.Sources, &row.CheckSum,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	return row, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
