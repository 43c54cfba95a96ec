// Package repo wraps a gorm handle with the queries the services need.
// Services that require atomicity open a gorm transaction and construct
// a Repo over the transaction handle, so there is no package-level DB.
package repo

import "gorm.io/gorm"

type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}
