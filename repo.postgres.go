package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	booksTable      = "books"
	colID           = "id"
	colTitle        = "title"
	colAuthor       = "author"
	dialectPostgres = "postgres"
)

// booksSchema is the single table the service owns. The store creates it
// at startup so no external migration step is needed.
const booksSchema = `CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL
)`

type postgresBookStorage struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// GetPostgresPool provides a ready to use postgres connections pool.
func GetPostgresPool(config *Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres configuration: %v", err)
	}

	if config.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = config.Postgres.MaxConns
	}
	if config.Postgres.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = config.Postgres.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %v", err)
	}

	// test connection.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return pool, nil
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
// It sets up the books table the same way the pool is verified: once, at startup.
func NewPostgresBookStorage(logger *zap.Logger, pool *pgxpool.Pool) (BookStorage, error) {
	if _, err := pool.Exec(context.Background(), booksSchema); err != nil {
		return nil, fmt.Errorf("failed to set up books table: %v", err)
	}
	return &postgresBookStorage{
		logger: logger,
		pool:   pool,
	}, nil
}

// scanBook maps one database row onto a book record. This is the only
// place where table columns and entity fields meet.
func scanBook(row pgx.Row) (Book, error) {
	var book Book
	err := row.Scan(&book.ID, &book.Title, &book.Author)
	return book, err
}

// FindAll retrieves all book records ordered by their identifier.
func (ps *postgresBookStorage) FindAll(ctx context.Context) ([]Book, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(booksTable).
		Select(colID, colTitle, colAuthor).
		Order(goqu.I(colID).Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := ps.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// FindByID retrieves a book record based on its ID.
func (ps *postgresBookStorage) FindByID(ctx context.Context, id int64) (Book, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(booksTable).
		Select(colID, colTitle, colAuthor).
		Where(goqu.Ex{colID: id}).
		ToSQL()
	if err != nil {
		return Book{}, err
	}

	book, err := scanBook(ps.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	return book, err
}

// Save inserts the book record when it carries no ID yet and lets the
// database assign one. Otherwise it upserts on the existing ID.
func (ps *postgresBookStorage) Save(ctx context.Context, book Book) (Book, error) {
	if book.ID == 0 {
		query, _, err := goqu.Dialect(dialectPostgres).
			Insert(booksTable).
			Rows(goqu.Record{colTitle: book.Title, colAuthor: book.Author}).
			Returning(goqu.C(colID)).
			ToSQL()
		if err != nil {
			return book, err
		}
		if err = ps.pool.QueryRow(ctx, query).Scan(&book.ID); err != nil {
			return book, err
		}
		return book, nil
	}

	query, _, err := goqu.Dialect(dialectPostgres).
		Insert(booksTable).
		Rows(goqu.Record{colID: book.ID, colTitle: book.Title, colAuthor: book.Author}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{colTitle: book.Title, colAuthor: book.Author})).
		ToSQL()
	if err != nil {
		return book, err
	}
	_, err = ps.pool.Exec(ctx, query)
	return book, err
}

// DeleteByID removes a book record based on its ID. Deleting an
// absent record is not an error.
func (ps *postgresBookStorage) DeleteByID(ctx context.Context, id int64) error {
	query, _, err := goqu.Dialect(dialectPostgres).
		Delete(booksTable).
		Where(goqu.Ex{colID: id}).
		ToSQL()
	if err != nil {
		return err
	}

	tag, err := ps.pool.Exec(ctx, query)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		ps.logger.Debug("storage: delete matched no record", zap.Int64("book.id", id))
	}
	return nil
}

// Count returns the total number of stored book records.
func (ps *postgresBookStorage) Count(ctx context.Context) (int64, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		From(booksTable).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var count int64
	err = ps.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}
