package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio/internal/pkg/apperr"
	"portfolio/internal/pkg/validator"
)

type ptrRecord[T any] interface {
	*T
	Record
}

// Store is the persistence half of the CRUD protocol for one kind.
type Store[T any, P ptrRecord[T]] struct {
	db   *gorm.DB
	kind Kind
}

func NewStore[T any, P ptrRecord[T]](db *gorm.DB, kind Kind) *Store[T, P] {
	return &Store[T, P]{db: db, kind: kind}
}

func (s *Store[T, P]) Kind() Kind { return s.kind }

// First returns the sole row of a singleton kind.
func (s *Store[T, P]) First(ctx context.Context) (P, error) {
	var rec T
	err := s.db.WithContext(ctx).Order("id").First(&rec).Error
	if err != nil {
		return nil, s.wrap("content.First", err)
	}
	return P(&rec), nil
}

func (s *Store[T, P]) GetByID(ctx context.Context, id uint) (P, error) {
	if id == 0 {
		return nil, s.wrap("content.GetByID", gorm.ErrRecordNotFound)
	}
	var rec T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, s.wrap("content.GetByID", err)
	}
	return P(&rec), nil
}

// List returns every row, newest OrderBy first when the kind has one.
func (s *Store[T, P]) List(ctx context.Context) ([]T, error) {
	q := s.db.WithContext(ctx)
	if s.kind.OrderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.kind.OrderBy}, Desc: true})
	}

	recs := []T{}
	if err := q.Order("id").Find(&recs).Error; err != nil {
		return nil, s.wrap("content.List", err)
	}
	return recs, nil
}

// Validate applies defaults and returns every failing field, or nil.
func (s *Store[T, P]) Validate(rec P) map[string]string {
	rec.ApplyDefaults()
	return validator.Validate(rec)
}

// Upsert inserts rec when its id is 0 and updates the matching row
// otherwise. For singleton kinds an id of 0 targets the existing row.
func (s *Store[T, P]) Upsert(ctx context.Context, rec P) (P, error) {
	const op = "content.Upsert"

	if fields := s.Validate(rec); fields != nil {
		return nil, apperr.Validation(op, fields)
	}

	if s.kind.Singleton && rec.GetID() == 0 {
		existing, err := s.First(ctx)
		switch {
		case err == nil:
			rec.SetID(existing.GetID())
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	if rec.GetID() == 0 {
		if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
			return nil, s.wrap(op, err)
		}
		return rec, nil
	}

	res := s.db.WithContext(ctx).Model(rec).Select("*").Omit("id", "created_at").Updates(rec)
	if res.Error != nil {
		return nil, s.wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.wrap(op, gorm.ErrRecordNotFound)
	}
	return s.GetByID(ctx, rec.GetID())
}

func (s *Store[T, P]) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return s.wrap("content.Delete", gorm.ErrRecordNotFound)
	}
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return s.wrap("content.Delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.wrap("content.Delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Store[T, P]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.CodeNotFound, op, s.kind.Name, ErrNotFound)
	}
	return apperr.E(apperr.CodeInternal, op, fmt.Sprintf("%s query failed", s.kind.Name), err)
}
