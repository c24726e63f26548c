// Package service implements the business rules of users, friendships, posts,
// the feed and token issuance. Services return *errors.AppError values that the
// HTTP layer maps onto status codes.
package service

import (
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"instaclone/backend/internal/store"
	apperrors "instaclone/backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const (
	msgRequired       = "This field is required."
	msgNoPermission   = "You do not have permission to perform this action."
	msgMaxLengthFmt   = "Ensure this field has no more than %d characters."
	msgInvalidChoice  = "\"%s\" is not a valid choice."
	msgInvalidPostRef = "Invalid pk \"%d\" - object does not exist."
)

var (
	textPolicy = bluemonday.StrictPolicy()
	validate   = validator.New()
)

// sanitizeText strips markup from user supplied free text. Entities escaped by
// the policy are decoded again since the value is stored as plain text.
func sanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(input)))
}

func tooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}

// fieldErrors collects validation messages per request field.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.Validation(f)
}

// lookupError converts a store lookup failure into an AppError.
func lookupError(err error, notFound string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(notFound)
	}
	return apperrors.Internal(err, "database error")
}

func dbError(err error) error {
	return apperrors.Internal(err, "database error")
}
