package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UUIDPtrToPg converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func UUIDPtrToPg(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// PgToUUIDPtr converts a pgtype.UUID to *uuid.UUID (NULL -> nil).
func PgToUUIDPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

// TimePtrToPgDate converts a *time.Time to pgtype.Date (nil -> NULL).
// Only the date component is kept.
func TimePtrToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// PgDateToTimePtr converts a pgtype.Date to *time.Time (NULL -> nil).
func PgDateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
