package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// NewGORMSet builds every repository on top of one GORM connection.
func NewGORMSet(db *gorm.DB) *Set {
	return &Set{
		Users:    NewGORMUserRepository(db),
		Products: NewGORMProductRepository(db),
		Carts:    NewGORMCartRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Likes:    NewGORMLikeRepository(db),
		Reviews:  NewGORMReviewRepository(db),
	}
}

// translateGORMError maps driver level errors onto the package sentinels.
// It relies on gorm.Config.TranslateError being enabled for unique violations.
func translateGORMError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	return err
}

// gormUpdate overwrites every column of an existing row except created_at.
// Save would insert a missing row, so a plain UPDATE is issued instead.
func gormUpdate(ctx context.Context, db *gorm.DB, value any) error {
	res := db.WithContext(ctx).Select("*").Omit("created_at").Updates(value)
	if res.Error != nil {
		return translateGORMError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func gormDelete[T any](ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// gormPage counts the rows matched by query and loads one page of them, newest first.
func gormPage[T any](query *gorm.DB, offset, limit int) ([]T, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0)
	if offset < 0 {
		return rows, total, nil
	}
	find := query.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		find = find.Limit(limit)
	}
	if err := find.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-folded substring pattern for LOWER(column) LIKE ? ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
