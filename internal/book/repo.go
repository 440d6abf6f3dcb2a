package book

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookRepo interface {
	List(ctx context.Context, limit int) ([]Book, error)
	GetByID(ctx context.Context, publicID uuid.UUID) (*Book, error)
	Create(ctx context.Context, dto *BookDTO) (*Book, error)
	Update(ctx context.Context, publicID uuid.UUID, dto *BookDTO) (*Book, error)
	Delete(ctx context.Context, publicID uuid.UUID) error
}

type bookRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewBookRepo(db *sql.DB, logger *zap.Logger) BookRepo {
	return &bookRepo{
		db:     db,
		logger: logger,
	}
}

const (
	listBooksQuery = `
					SELECT id, public_id, title, author, year, created_at, updated_at
					FROM books
					ORDER BY created_at DESC
					LIMIT $1
					`
	getBookQuery = `
					SELECT id, public_id, title, author, year, created_at, updated_at
					FROM books
					WHERE public_id = $1
					`
	insertBookQuery = `
					INSERT INTO books (title, author, year)
					VALUES ($1, $2, $3)
					RETURNING id, public_id, title, author, year, created_at, updated_at
					`
	updateBookQuery = `
					UPDATE books
					SET title = $2, author = $3, year = $4, updated_at = now()
					WHERE public_id = $1
					RETURNING id, public_id, title, author, year, created_at, updated_at
					`
	deleteBookQuery = `
					DELETE FROM books WHERE public_id = $1
					`
)

func (b *bookRepo) List(ctx context.Context, limit int) ([]Book, error) {
	rows, err := b.db.QueryContext(ctx, listBooksQuery, limit)
	if err != nil {
		b.logger.Error("failed to list books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		var bk Book
		if err := rows.Scan(&bk.ID, &bk.PublicID, &bk.Title, &bk.Author, &bk.Year, &bk.CreatedAt, &bk.UpdatedAt); err != nil {
			b.logger.Error("failed to scan book row", zap.Error(err))
			return nil, err
		}
		books = append(books, bk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (b *bookRepo) GetByID(ctx context.Context, publicID uuid.UUID) (*Book, error) {
	var bk Book
	err := b.db.QueryRowContext(ctx, getBookQuery, publicID).
		Scan(&bk.ID, &bk.PublicID, &bk.Title, &bk.Author, &bk.Year, &bk.CreatedAt, &bk.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		b.logger.Error("failed to get book", zap.String("public_id", publicID.String()), zap.Error(err))
		return nil, err
	}
	return &bk, nil
}

func (b *bookRepo) Create(ctx context.Context, dto *BookDTO) (*Book, error) {
	row := b.db.QueryRowContext(ctx, insertBookQuery,
		strings.TrimSpace(dto.Title),
		strings.TrimSpace(dto.Author),
		dto.Year,
	)

	var bk Book
	if err := row.Scan(&bk.ID, &bk.PublicID, &bk.Title, &bk.Author, &bk.Year, &bk.CreatedAt, &bk.UpdatedAt); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			b.logger.Warn("create book canceled/timed out", zap.Error(err))
			return nil, err
		}

		if isUniqueViolation(err) {
			b.logger.Debug("duplicate title", zap.String("title", dto.Title))
			return nil, ErrDuplicateTitle
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			b.logger.Error("postgres error",
				zap.String("code", string(pgErr.Code)),
				zap.String("msg", pgErr.Message),
				zap.String("detail", pgErr.Detail),
			)
			return nil, err
		}

		b.logger.Error("driver/scan error", zap.Error(err))
		return nil, err
	}

	b.logger.Debug("book created",
		zap.Int64("id", bk.ID),
		zap.String("public_id", bk.PublicID.String()),
	)
	return &bk, nil
}

func (b *bookRepo) Update(ctx context.Context, publicID uuid.UUID, dto *BookDTO) (*Book, error) {
	row := b.db.QueryRowContext(ctx, updateBookQuery,
		publicID,
		strings.TrimSpace(dto.Title),
		strings.TrimSpace(dto.Author),
		dto.Year,
	)

	var bk Book
	if err := row.Scan(&bk.ID, &bk.PublicID, &bk.Title, &bk.Author, &bk.Year, &bk.CreatedAt, &bk.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		if isUniqueViolation(err) {
			b.logger.Debug("duplicate title", zap.String("title", dto.Title))
			return nil, ErrDuplicateTitle
		}
		b.logger.Error("failed to update book", zap.String("public_id", publicID.String()), zap.Error(err))
		return nil, err
	}
	return &bk, nil
}

func (b *bookRepo) Delete(ctx context.Context, publicID uuid.UUID) error {
	res, err := b.db.ExecContext(ctx, deleteBookQuery, publicID)
	if err != nil {
		b.logger.Error("failed to delete book", zap.String("public_id", publicID.String()), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// isUniqueViolation matches the pgx/v5 driver's error type; the books table
// carries a unique index on lower(title).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
