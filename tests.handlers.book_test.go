package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// This file contains unit tests for each book api handler.

func newTestAPIHandler(t *testing.T, repo *MockBookStorage) *APIHandler {
	t.Helper()
	bs := NewBookService(zap.NewNop(), &Config{}, repo)
	return NewAPIHandler(zap.NewNop(), &Config{}, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("abc", true), bs)
}

func bookIDParams(id string) httprouter.Params {
	return httprouter.Params{httprouter.Param{Key: "id", Value: id}}
}

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := newTestAPIHandler(t, nil)
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, v, "Hello. Books store api is available. Enjoy :)")
}

// TestCreateBookHandler ensures api handler can create a book.
//
//nolint:funlen
func TestCreateBookHandler(t *testing.T) {
	t.Run("should pass: valid payload", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			SaveFunc: func(ctx context.Context, book Book) (Book, error) {
				book.ID = 7
				return book, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"title":"Catcher in the Rye","author":"J.D Salinger"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"id":7, "title":"Catcher in the Rye", "author":"J.D Salinger"}`, string(data))
	})

	t.Run("should pass: id carried by the body is ignored", func(t *testing.T) {
		var saved Book
		mockRepo := &MockBookStorage{
			SaveFunc: func(ctx context.Context, book Book) (Book, error) {
				saved = book
				book.ID = 1
				return book, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"id":999,"title":"Harry Potter","author":"J.K. Rowling"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.Equal(t, int64(0), saved.ID)
	})

	t.Run("should fail: storage insertion failure", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			SaveFunc: func(ctx context.Context, book Book) (Book, error) {
				return book, errors.New("storage failure")
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"title":"Harry Potter","author":"J.K. Rowling"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.CreateBook(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.JSONEq(t, `{"error":"failed to create the book"}`, string(data))
	})

	t.Run("should fail: unreadable payload", func(t *testing.T) {
		testCases := []struct {
			name    string
			payload []byte
		}{
			{
				name:    "not json",
				payload: []byte(`this is not json`),
			},
			{
				name:    "wrong field type",
				payload: []byte(`{"title":1, "author":"J.K. Rowling"}`),
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				api := newTestAPIHandler(t, nil)
				req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(tc.payload))
				w := httptest.NewRecorder()
				api.CreateBook(w, req, httprouter.Params{})
				res := w.Result()
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
				assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, `{"error":"Unable to read request data"}`, string(data))
			})
		}
	})

	t.Run("should fail: required field in payload", func(t *testing.T) {
		testCases := []struct {
			name     string
			payload  []byte
			expected string
		}{
			{
				name:     "missing title",
				payload:  []byte(`{"author":"J.K. Rowling"}`),
				expected: `{"error":["title: Title is mandatory"]}`,
			},
			{
				name:     "blank title",
				payload:  []byte(`{"title":"   ", "author":"J.K. Rowling"}`),
				expected: `{"error":["title: Title is mandatory"]}`,
			},
			{
				name:     "missing author",
				payload:  []byte(`{"title":"Harry Potter"}`),
				expected: `{"error":["author: Author is mandatory"]}`,
			},
			{
				name:     "missing both sorted",
				payload:  []byte(`{"title":"", "author":" "}`),
				expected: `{"error":["author: Author is mandatory","title: Title is mandatory"]}`,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				api := newTestAPIHandler(t, nil)
				req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(tc.payload))
				w := httptest.NewRecorder()
				api.CreateBook(w, req, httprouter.Params{})
				res := w.Result()
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tc.expected, string(data))

				// the error list ordering must be stable, not only set-equal.
				var envelope struct {
					Error []string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(data, &envelope))
				assert.IsNonDecreasing(t, envelope.Error)
			})
		}
	})
}

// TestGetAllBooksHandler ensures api handler can fetch all stored books.
func TestGetAllBooksHandler(t *testing.T) {
	t.Run("should pass: two stored books", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindAllFunc: func(ctx context.Context) ([]Book, error) {
				return []Book{
					{ID: 1, Title: "Catcher in the Rye", Author: "J.D Salinger"},
					{ID: 2, Title: "Harry Potter", Author: "J.K. Rowling"},
				}, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		expected := `[
			{"id":1, "title":"Catcher in the Rye", "author":"J.D Salinger"},
			{"id":2, "title":"Harry Potter", "author":"J.K. Rowling"}
		]`
		assert.JSONEq(t, expected, string(data))
	})

	t.Run("should fail: empty store answers not found", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindAllFunc: func(ctx context.Context) ([]Book, error) {
				return []Book{}, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"error":"Resource not found."}`, string(data))
	})

	t.Run("should fail: storage failure", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindAllFunc: func(ctx context.Context) ([]Book, error) {
				return nil, errors.New("storage failure")
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		w := httptest.NewRecorder()
		api.GetAllBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})
}

// TestGetOneBookHandler ensures api handler can fetch a single book.
func TestGetOneBookHandler(t *testing.T) {
	t.Run("should pass: existing book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				assert.Equal(t, int64(1), id)
				return Book{ID: 1, Title: "Catcher in the Rye", Author: "J.D Salinger"}, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		w := httptest.NewRecorder()
		api.GetOneBook(w, req, bookIDParams("1"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"id":1, "title":"Catcher in the Rye", "author":"J.D Salinger"}`, string(data))
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, ErrBookNotFound
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/42", nil)
		w := httptest.NewRecorder()
		api.GetOneBook(w, req, bookIDParams("42"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"error":"Resource not found."}`, string(data))
	})

	t.Run("should fail: non numeric id", func(t *testing.T) {
		api := newTestAPIHandler(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/books/abc", nil)
		w := httptest.NewRecorder()
		api.GetOneBook(w, req, bookIDParams("abc"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"error":"Resource not found."}`, string(data))
	})

	t.Run("should pass: count path dispatched", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			CountFunc: func(ctx context.Context) (int64, error) {
				return 2, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/count", nil)
		w := httptest.NewRecorder()
		api.GetOneBook(w, req, bookIDParams("count"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"total":2}`, string(data))
	})
}

// TestUpdateBookHandler ensures api handler can update an existing book.
func TestUpdateBookHandler(t *testing.T) {
	t.Run("should pass: existing book overwritten", func(t *testing.T) {
		var saved Book
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{ID: 1, Title: "Old title", Author: "Old author"}, nil
			},
			SaveFunc: func(ctx context.Context, book Book) (Book, error) {
				saved = book
				return book, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"id":999,"title":"Harry Potter","author":"J.K. Rowling"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/books/1", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.UpdateBook(w, req, bookIDParams("1"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"id":1, "title":"Harry Potter", "author":"J.K. Rowling"}`, string(data))
		assert.Equal(t, int64(1), saved.ID)
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, ErrBookNotFound
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"title":"Harry Potter","author":"J.K. Rowling"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/books/42", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.UpdateBook(w, req, bookIDParams("42"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"error":"Resource not found."}`, string(data))
	})

	t.Run("should fail: required field in payload", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{ID: 1, Title: "Old title", Author: "Old author"}, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		payload := []byte(`{"title":"", "author":""}`)
		req := httptest.NewRequest(http.MethodPut, "/api/books/1", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.UpdateBook(w, req, bookIDParams("1"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.JSONEq(t, `{"error":["author: Author is mandatory","title: Title is mandatory"]}`, string(data))
	})
}

// TestDeleteOneBookHandler ensures api handler can delete an existing book.
func TestDeleteOneBookHandler(t *testing.T) {
	t.Run("should pass: existing book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{ID: 1, Title: "Catcher in the Rye", Author: "J.D Salinger"}, nil
			},
			DeleteByIDFunc: func(ctx context.Context, id int64) error {
				assert.Equal(t, int64(1), id)
				return nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, bookIDParams("1"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "text/plain; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.Equal(t, "Catcher in the Rye deleted successfully", string(data))
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, ErrBookNotFound
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/42", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, bookIDParams("42"))
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.JSONEq(t, `{"error":"Resource not found."}`, string(data))
	})

	t.Run("should fail: storage deletion failure", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			FindByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{ID: 1, Title: "Catcher in the Rye", Author: "J.D Salinger"}, nil
			},
			DeleteByIDFunc: func(ctx context.Context, id int64) error {
				return errors.New("storage failure")
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
		w := httptest.NewRecorder()
		api.DeleteOneBook(w, req, bookIDParams("1"))
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})
}

// TestCountBooksHandler ensures api handler can report the stored books total.
func TestCountBooksHandler(t *testing.T) {
	t.Run("should pass: two stored books", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			CountFunc: func(ctx context.Context) (int64, error) {
				return 2, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/count", nil)
		w := httptest.NewRecorder()
		api.CountBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"total":2}`, string(data))
	})

	t.Run("should fail: empty store answers plain text", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			CountFunc: func(ctx context.Context) (int64, error) {
				return 0, nil
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/count", nil)
		w := httptest.NewRecorder()
		api.CountBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "text/plain; charset=UTF-8", res.Header.Get("Content-Type"))
		assert.Equal(t, "Book not found.", string(data))
	})

	t.Run("should fail: storage failure", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			CountFunc: func(ctx context.Context) (int64, error) {
				return 0, errors.New("storage failure")
			},
		}
		api := newTestAPIHandler(t, mockRepo)

		req := httptest.NewRequest(http.MethodGet, "/api/books/count", nil)
		w := httptest.NewRecorder()
		api.CountBooks(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})
}
