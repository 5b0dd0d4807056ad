package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"mo-legislators/internal/observability"
	"mo-legislators/internal/storage"
)

type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
}

func NewRepository(dsn string, commandTimeout time.Duration, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Тестируем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: commandTimeout,
		logger:         logger,
	}, nil
}

// InsertLegislator добавляет запись, если записи с такой контрольной суммой ещё нет
func (r *Repository) InsertLegislator(ctx context.Context, row *storage.LegislatorRow) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	// MERGE statement для MS SQL
	query := `
		MERGE INTO TblLegislators AS target
		USING (SELECT @CheckSum AS CheckSum) AS source
		ON target.[CheckSum] = source.CheckSum
		WHEN NOT MATCHED THEN
			INSERT ([Term], [Chamber], [District], [FullName], [FirstName], [LastName], [Party],
				[URL], [PhotoURL], [Email], [OfficeName], [OfficeAddress], [OfficePhone], [OfficeEmail],
				[Sources], [CheckSum], [ScrapedAt])
			VALUES (@Term, @Chamber, @District, @FullName, @FirstName, @LastName, @Party,
				@URL, @PhotoURL, @Email, @OfficeName, @OfficeAddress, @OfficePhone, @OfficeEmail,
				@Sources, @CheckSum, SYSUTCDATETIME());
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	result, err := stmt.ExecContext(ctx,
		sql.Named("Term", row.Term),
		sql.Named("Chamber", row.Chamber),
		sql.Named("District", row.District),
		sql.Named("FullName", row.FullName),
		sql.Named("FirstName", row.FirstName),
		sql.Named("LastName", row.LastName),
		sql.Named("Party", row.Party),
		sql.Named("URL", row.URL),
		sql.Named("PhotoURL", row.PhotoURL),
		sql.Named("Email", row.Email),
		sql.Named("OfficeName", row.OfficeName),
		sql.Named("OfficeAddress", row.OfficeAddress),
		sql.Named("OfficePhone", row.OfficePhone),
		sql.Named("OfficeEmail", row.OfficeEmail),
		sql.Named("Sources", row.Sources),
		sql.Named("CheckSum", row.CheckSum),
	)
	if err != nil {
		return false, fmt.Errorf("failed to execute merge: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ExistsByCheckSum проверяет наличие записи по контрольной сумме
func (r *Repository) ExistsByCheckSum(ctx context.Context, sum string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM TblLegislators WHERE [CheckSum] = @CheckSum`,
		sql.Named("CheckSum", sum),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}

	return count > 0, nil
}

// CountByTerm считает записи палаты за срок
func (r *Repository) CountByTerm(ctx context.Context, term, chamber string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM TblLegislators WHERE [Term] = @Term AND [Chamber] = @Chamber`,
		sql.Named("Term", term),
		sql.Named("Chamber", chamber),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}

	return count, nil
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
