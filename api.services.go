package main

import (
	"context"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	FindAllBooks(ctx context.Context) ([]Book, error)
	FindBookByID(ctx context.Context, id int64) (Book, error)
	SaveBook(ctx context.Context, book Book) (Book, error)
	DeleteBookByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// BookService sits between the api handlers and the storage. Each
// method forwards 1:1 to the corresponding storage operation.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	storage BookStorage
}

func NewBookService(logger *zap.Logger, config *Config, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		storage: storage,
	}
}

func (bs *BookService) FindAllBooks(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.FindAll(ctx)
	return books, err
}

func (bs *BookService) FindBookByID(ctx context.Context, id int64) (Book, error) {
	book, err := bs.storage.FindByID(ctx, id)
	return book, err
}

func (bs *BookService) SaveBook(ctx context.Context, book Book) (Book, error) {
	return bs.storage.Save(ctx, book)
}

func (bs *BookService) DeleteBookByID(ctx context.Context, id int64) error {
	return bs.storage.DeleteByID(ctx, id)
}

func (bs *BookService) Count(ctx context.Context) (int64, error) {
	return bs.storage.Count(ctx)
}
