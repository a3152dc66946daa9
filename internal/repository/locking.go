package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a SELECT ... FOR UPDATE row lock so check-and-mutate
// sequences on the same ingredient or session serialize instead of racing on
// a stale balance. The sqlite dialect used in tests does not support the
// clause; it serializes on a single connection instead.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
