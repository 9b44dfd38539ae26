package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const DefaultQueryTimeout = 5 * time.Second

type GormRepo struct {
	DB           *gorm.DB
	QueryTimeout time.Duration
}

func New(db *gorm.DB, queryTimeout time.Duration) *GormRepo {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &GormRepo{DB: db, QueryTimeout: queryTimeout}
}

// conn bounds a single call so a hung query is cancelled instead of pinning the request.
func (r *GormRepo) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeout := r.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return r.DB.WithContext(tctx), cancel
}
