package main

import "context"

// Book represents a book record. The identifier is assigned by the
// datastore on first persistence and never changes afterwards.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// NewBook builds an unsaved book record. The zero ID marks
// it for insertion on the next Save call.
func NewBook(title, author string) Book {
	return Book{Title: title, Author: author}
}

// BookStorage defines possible operations on book records.
type BookStorage interface {
	FindAll(ctx context.Context) ([]Book, error)
	FindByID(ctx context.Context, id int64) (Book, error)
	Save(ctx context.Context, book Book) (Book, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
