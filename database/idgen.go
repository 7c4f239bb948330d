package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IDPeriod says when a sequence's numeric suffix restarts at 1
type IDPeriod int

const (
	PeriodYearly IDPeriod = iota
	PeriodMonthly
)

// IDSpec describes one family of sequential, human-readable business ids,
// e.g. SUP-2025-00001 or CRG-202505-000042.
type IDSpec struct {
	Kind   string // sequence row key, e.g. "supplier"
	Prefix string // literal prefix, e.g. "SUP"
	Table  string // entity table holding already-issued ids
	Column string // column holding already-issued ids
	Width  int    // zero-padded suffix width
	Period IDPeriod
}

var (
	SupplierIDSpec  = IDSpec{Kind: "supplier", Prefix: "SUP", Table: "suppliers", Column: "supplier_code", Width: 5, Period: PeriodYearly}
	WarehouseIDSpec = IDSpec{Kind: "warehouse", Prefix: "WH", Table: "warehouses", Column: "warehouse_code", Width: 4, Period: PeriodYearly}
	CargoIDSpec     = IDSpec{Kind: "cargo", Prefix: "CRG", Table: "cargos", Column: "cargo_code", Width: 6, Period: PeriodMonthly}
)

// IDSequence represents id_sequences table - one monotonic counter per
// (entity kind, period). Incrementing the counter inside the creating
// transaction is what makes concurrent creators safe; the old
// scan-max-then-insert approach could hand the same number to two writers.
type IDSequence struct {
	SequenceID uint      `gorm:"primaryKey;column:sequence_id" json:"sequence_id"`
	EntityKind string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_sequences_kind_period" json:"entity_kind"`
	Period     string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_sequences_kind_period" json:"period"`
	LastValue  int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for IDSequence
func (IDSequence) TableName() string {
	return "id_sequences"
}

// periodKey formats the period component of an id for the given time
func (s IDSpec) periodKey(now time.Time) string {
	if s.Period == PeriodMonthly {
		return now.Format("200601")
	}
	return now.Format("2006")
}

// format renders a full business id from a counter value
func (s IDSpec) format(period string, n int64) string {
	return fmt.Sprintf("%s-%s-%0*d", s.Prefix, period, s.Width, n)
}

// NextSequentialID allocates the next business id for the spec's entity kind
// within the current period. It must run inside the transaction that creates
// the entity so a rolled-back creation does not burn visible gaps and
// concurrent creators serialize on the sequence row.
//
// The first allocation of a period seeds the counter from the greatest id
// already issued with that period prefix; a non-numeric suffix on that id
// fails with ErrMalformedSequence.
func NextSequentialID(tx *gorm.DB, spec IDSpec, now time.Time) (string, error) {
	period := spec.periodKey(now)

	var seq IDSequence
	err := sequenceQuery(tx, spec.Kind, period).First(&seq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		last, seedErr := seedLastValue(tx, spec, period)
		if seedErr != nil {
			return "", seedErr
		}
		seq = IDSequence{EntityKind: spec.Kind, Period: period, LastValue: last}
		// A concurrent creator can insert the row between the read above and
		// this create. The unique index makes one of them a no-op; the loser
		// falls back to the winner's row instead of failing the creation.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq)
		if result.Error != nil {
			return "", fmt.Errorf("create id sequence %s/%s: %w", spec.Kind, period, result.Error)
		}
		if result.RowsAffected == 0 {
			if err := sequenceQuery(tx, spec.Kind, period).First(&seq).Error; err != nil {
				return "", fmt.Errorf("load id sequence %s/%s: %w", spec.Kind, period, err)
			}
		}
	case err != nil:
		return "", fmt.Errorf("load id sequence %s/%s: %w", spec.Kind, period, err)
	}

	seq.LastValue++
	if err := tx.Save(&seq).Error; err != nil {
		return "", fmt.Errorf("advance id sequence %s/%s: %w", spec.Kind, period, err)
	}

	return spec.format(period, seq.LastValue), nil
}

// sequenceQuery builds a fresh lookup for one counter row
func sequenceQuery(tx *gorm.DB, kind, period string) *gorm.DB {
	query := tx.Where("entity_kind = ? AND period = ?", kind, period)
	// sqlite has no row locks and serializes writers on its own
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

// seedLastValue bootstraps a fresh period counter from ids issued before the
// sequence table existed (or before the period's first allocation).
func seedLastValue(tx *gorm.DB, spec IDSpec, period string) (int64, error) {
	prefix := fmt.Sprintf("%s-%s-", spec.Prefix, period)

	var maxID sql.NullString
	row := tx.Table(spec.Table).
		Where(spec.Column+" LIKE ?", prefix+"%").
		Select("MAX(" + spec.Column + ")").
		Row()
	if err := row.Scan(&maxID); err != nil {
		return 0, fmt.Errorf("scan max %s id: %w", spec.Kind, err)
	}
	if !maxID.Valid {
		return 0, nil
	}

	suffix := maxID.String[len(prefix):]
	n, err := strconv.ParseUint(suffix, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %s id %q", ErrMalformedSequence, spec.Kind, maxID.String)
	}
	return int64(n), nil
}
