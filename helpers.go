package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

type ContextKey string

const (
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

// FieldError describes a single invalid field of a request body.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates all invalid fields of a request body.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Messages renders each field error as "<field>: <message>" and sorts
// the list lexicographically so the output is reproducible.
func (v ValidationError) Messages() []string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	sort.Strings(msgs)
	return msgs
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// ParseBookID converts the path segment into a book identifier.
func ParseBookID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// DecodeCreateOrUpdateBookRequestBody is a helper function to read the content of a book creation or update request.
func DecodeCreateOrUpdateBookRequestBody(r *http.Request, book *Book) error {
	if r.Body == nil {
		return errors.New("invalid book request body")
	}
	return json.NewDecoder(r.Body).Decode(book)
}

// ValidateBookRequestBody is a helper function to check if the content of a book
// creation or update request is valid. Title and author must not be blank.
func ValidateBookRequestBody(book *Book) error {
	var errs ValidationError
	if len(strings.TrimSpace(book.Title)) == 0 {
		errs = append(errs, FieldError{Field: "title", Message: "Title is mandatory"})
	}

	if len(strings.TrimSpace(book.Author)) == 0 {
		errs = append(errs, FieldError{Field: "author", Message: "Author is mandatory"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
