package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by soft-deletable records with a serial id.
type Base struct {
	ID        int64      `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// BaseSimple is embedded by immutable records with a serial id.
type BaseSimple struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// BaseToken is embedded by short-lived records keyed by a random id.
type BaseToken struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
