package persistence

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versionSnapshotCallback names the query callback recording loaded versions
const versionSnapshotCallback = "salesmanager:version_snapshot"

// versioned is an aggregate written with optimistic locking
type versioned interface {
	GetID() uuid.UUID
	GetVersion() int
	IncrementVersion()
	LoadedVersion() int
	MarkLoaded()
}

// TrackVersions registers the query callback that records the version of every
// aggregate read through db. It is safe to call more than once.
func TrackVersions(db *gorm.DB) error {
	query := db.Callback().Query()
	if query.Get(versionSnapshotCallback) != nil {
		return nil
	}
	return query.After("gorm:after_query").Register(versionSnapshotCallback, snapshotVersions)
}

// trackVersions is TrackVersions for repository constructors
func trackVersions(db *gorm.DB) *gorm.DB {
	_ = TrackVersions(db)
	return db
}

func snapshotVersions(db *gorm.DB) {
	if db.Error != nil || !db.Statement.ReflectValue.IsValid() {
		return
	}
	rv := reflect.Indirect(db.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			markLoaded(rv.Index(i))
		}
	case reflect.Struct:
		markLoaded(rv)
	}
}

func markLoaded(v reflect.Value) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return
	}
	if agg, ok := v.Addr().Interface().(versioned); ok {
		agg.MarkLoaded()
	}
}

// saveVersioned runs write after checking that the stored row still carries
// the version agg was loaded at. The check and the version bump are a single
// conditional UPDATE, so of two writers holding the same version only the
// first one succeeds. New aggregates are written directly.
func saveVersioned(tx *gorm.DB, agg versioned, write func(tx *gorm.DB) error) error {
	if loaded := agg.LoadedVersion(); loaded > 0 {
		if agg.GetVersion() == loaded {
			agg.IncrementVersion()
		}
		res := tx.Model(agg).Omit(clause.Associations).
			Where("id = ? AND version = ?", agg.GetID(), loaded).
			Update("version", agg.GetVersion())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
	}
	if err := write(tx); err != nil {
		return err
	}
	agg.MarkLoaded()
	return nil
}
