package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// paginate counts the rows matched by query and loads one ordered page of them.
// Preloads are applied to the page load only.
func paginate[T any](query *gorm.DB, order string, page, limit int, preloads ...string) ([]T, int64, error) {
	query = query.Session(&gorm.Session{})

	var totalItems int64
	if err := query.Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	pageQuery := query
	for _, preload := range preloads {
		pageQuery = pageQuery.Preload(preload)
	}

	var results []T
	if err := pageQuery.Order(order).Offset(Offset(page, limit)).Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, totalItems, nil
}
