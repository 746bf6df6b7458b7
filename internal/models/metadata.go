package models

import (
	"time"

	"rental-backend/internal/timeutil"
)

// Meta is the audit trail carried by every entity. Version starts at 1 and
// is bumped on every successful mutation.
type Meta struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
	Version   int
}

func NewMeta(by string) Meta {
	now := timeutil.Now()
	return Meta{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: by,
		UpdatedBy: by,
		Version:   1,
	}
}

// Touch records a successful mutation.
func (m *Meta) Touch(by string) {
	m.UpdatedAt = timeutil.Now()
	m.UpdatedBy = by
	m.Version++
}

func (m Meta) record(r Record) {
	r["created_at"] = m.CreatedAt.Format(time.RFC3339Nano)
	r["updated_at"] = m.UpdatedAt.Format(time.RFC3339Nano)
	r["created_by"] = m.CreatedBy
	r["updated_by"] = m.UpdatedBy
	r["version"] = m.Version
}

func metaFromRecord(r Record) (Meta, error) {
	createdAt, err := r.timeValue("created_at")
	if err != nil {
		return Meta{}, err
	}
	updatedAt, err := r.timeValue("updated_at")
	if err != nil {
		return Meta{}, err
	}
	version, err := r.intValue("version")
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		CreatedBy: r.stringValue("created_by"),
		UpdatedBy: r.stringValue("updated_by"),
		Version:   version,
	}, nil
}
