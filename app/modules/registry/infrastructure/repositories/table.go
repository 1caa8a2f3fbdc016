package registrydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
	"github.com/uptrace/bun"
)

// Record is a row keyed by a surrogate id.
type Record interface {
	EntityName() string
	Key() int64
	SetKey(id int64)
	Validate() error
	References() []Reference
}

// LinkRecord is a row keyed by two foreign keys.
type LinkRecord interface {
	EntityName() string
	KeyColumns() (string, string)
	KeyValues() (int64, int64)
	SetKeyValues(a, b int64)
	Validate() error
	References() []Reference
}

// guarded rows enforce rules that span other tables. CheckWrite runs inside
// the writing transaction after the references are verified.
type guarded interface {
	CheckWrite(ctx context.Context, db bun.IDB) error
}

func checkWrite(ctx context.Context, db bun.IDB, rec any) error {
	if g, ok := rec.(guarded); ok {
		return g.CheckWrite(ctx, db)
	}
	return nil
}

// filterable rows declare which foreign key columns List may filter on.
type filterable interface {
	FilterColumns() []string
}

// Filter narrows List results. Nil fields are ignored; a field naming a column
// the table does not have is a validation error.
type Filter struct {
	SchoolID      *int64
	SportID       *int64
	EventID       *int64
	ParticipantID *int64
	Limit         int
	Offset        int
}

func (f Filter) columns() map[string]int64 {
	cols := map[string]int64{}
	if f.SchoolID != nil {
		cols["school_id"] = *f.SchoolID
	}
	if f.SportID != nil {
		cols["sport_id"] = *f.SportID
	}
	if f.EventID != nil {
		cols["event_id"] = *f.EventID
	}
	if f.ParticipantID != nil {
		cols["participant_id"] = *f.ParticipantID
	}
	return cols
}

func (f Filter) apply(q *bun.SelectQuery, entity string, allowed []string) (*bun.SelectQuery, error) {
	for col, val := range f.columns() {
		if !slices.Contains(allowed, col) {
			return nil, sportserr.Invalid(col, "cannot filter %s by %s", entity, col)
		}
		q = q.Where("? = ?", bun.Ident(col), val)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, sportserr.Invalid("limit", "limit and offset must be >= 0")
	}
	switch {
	case f.Limit > 0:
		q = q.Limit(f.Limit)
	case f.Offset > 0:
		// SQLite accepts OFFSET only after LIMIT.
		q = q.Limit(math.MaxInt32)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q, nil
}

// CheckReferences verifies that every referenced row exists.
func CheckReferences(ctx context.Context, db bun.IDB, refs []Reference) error {
	for _, r := range refs {
		ok, err := db.NewSelect().Table(r.Table).Where("id = ?", r.ID).Exists(ctx)
		if err != nil {
			return sportserr.Translate(sportserr.OpRead, r.Entity, fmt.Sprint(r.ID), err)
		}
		if !ok {
			return sportserr.NotFound(r.Entity, r.ID)
		}
	}
	return nil
}

// Table is the CRUD repository for one id-keyed model.
type Table[T any, P interface {
	*T
	Record
}] struct {
	db bun.IDB
}

// NewTable binds a table repository to its default handle.
func NewTable[T any, P interface {
	*T
	Record
}](db bun.IDB) *Table[T, P] {
	return &Table[T, P]{db: db}
}

func (t *Table[T, P]) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return t.db
}

func (t *Table[T, P]) entity() string {
	return P(new(T)).EntityName()
}

// Create validates rec, checks its references and any cross-table rule, then
// inserts it, filling rec.ID.
func (t *Table[T, P]) Create(ctx context.Context, db bun.IDB, rec P) error {
	db = t.resolveDB(db)
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := CheckReferences(ctx, db, rec.References()); err != nil {
		return err
	}
	if err := checkWrite(ctx, db, rec); err != nil {
		return err
	}
	if _, err := db.NewInsert().Model(rec).Returning("id").Exec(ctx); err != nil {
		return sportserr.Translate(sportserr.OpCreate, rec.EntityName(), "new", err)
	}
	return nil
}

// Get loads the row with the given id.
func (t *Table[T, P]) Get(ctx context.Context, db bun.IDB, id int64) (P, error) {
	db = t.resolveDB(db)
	rec := P(new(T))
	err := db.NewSelect().Model(rec).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, sportserr.Translate(sportserr.OpRead, t.entity(), fmt.Sprint(id), err)
	}
	return rec, nil
}

// List returns rows matching f ordered by id.
func (t *Table[T, P]) List(ctx context.Context, db bun.IDB, f Filter) ([]T, error) {
	db = t.resolveDB(db)
	var allowed []string
	if fc, ok := any(P(new(T))).(filterable); ok {
		allowed = fc.FilterColumns()
	}

	rows := []T{}
	q, err := f.apply(db.NewSelect().Model(&rows).OrderExpr("id ASC"), t.entity(), allowed)
	if err != nil {
		return nil, err
	}
	if err := q.Scan(ctx); err != nil {
		return nil, sportserr.Translate(sportserr.OpRead, t.entity(), "list", err)
	}
	return rows, nil
}

// Update overwrites every column of the row identified by rec's id.
func (t *Table[T, P]) Update(ctx context.Context, db bun.IDB, rec P) error {
	db = t.resolveDB(db)
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := CheckReferences(ctx, db, rec.References()); err != nil {
		return err
	}
	if err := checkWrite(ctx, db, rec); err != nil {
		return err
	}

	id := fmt.Sprint(rec.Key())
	res, err := db.NewUpdate().Model(rec).WherePK().ExcludeColumn("id").Exec(ctx)
	if err != nil {
		return sportserr.Translate(sportserr.OpUpdate, rec.EntityName(), id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sportserr.NotFound(rec.EntityName(), rec.Key())
	}
	return nil
}

// Delete removes the row with the given id. Rows still referenced through a
// restrict relation are kept and reported as a referential integrity error.
func (t *Table[T, P]) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = t.resolveDB(db)
	res, err := db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return sportserr.Translate(sportserr.OpDelete, t.entity(), fmt.Sprint(id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sportserr.NotFound(t.entity(), id)
	}
	return nil
}

// LinkTable is the repository for a model keyed by a pair of foreign keys.
type LinkTable[T any, P interface {
	*T
	LinkRecord
}] struct {
	db bun.IDB
}

// NewLinkTable binds a link repository to its default handle.
func NewLinkTable[T any, P interface {
	*T
	LinkRecord
}](db bun.IDB) *LinkTable[T, P] {
	return &LinkTable[T, P]{db: db}
}

func (t *LinkTable[T, P]) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return t.db
}

func (t *LinkTable[T, P]) proto() P {
	return P(new(T))
}

// Create validates rec, checks both referenced rows and inserts it. A second
// row with the same key pair is a DuplicateError.
func (t *LinkTable[T, P]) Create(ctx context.Context, db bun.IDB, rec P) error {
	db = t.resolveDB(db)
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := CheckReferences(ctx, db, rec.References()); err != nil {
		return err
	}
	a, b := rec.KeyValues()
	if _, err := db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return sportserr.Translate(sportserr.OpCreate, rec.EntityName(), fmt.Sprintf("(%d, %d)", a, b), err)
	}
	return nil
}

// Get loads the row keyed by (a, b).
func (t *LinkTable[T, P]) Get(ctx context.Context, db bun.IDB, a, b int64) (P, error) {
	db = t.resolveDB(db)
	rec := t.proto()
	colA, colB := rec.KeyColumns()
	err := db.NewSelect().Model(rec).
		Where("? = ?", bun.Ident(colA), a).
		Where("? = ?", bun.Ident(colB), b).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sportserr.NotFoundPair(rec.EntityName(), a, b)
	}
	if err != nil {
		return nil, sportserr.Translate(sportserr.OpRead, rec.EntityName(), fmt.Sprintf("(%d, %d)", a, b), err)
	}
	return rec, nil
}

// Exists reports whether a row keyed by (a, b) is present.
func (t *LinkTable[T, P]) Exists(ctx context.Context, db bun.IDB, a, b int64) (bool, error) {
	db = t.resolveDB(db)
	colA, colB := t.proto().KeyColumns()
	ok, err := db.NewSelect().Model((*T)(nil)).
		Where("? = ?", bun.Ident(colA), a).
		Where("? = ?", bun.Ident(colB), b).
		Exists(ctx)
	if err != nil {
		return false, sportserr.Translate(sportserr.OpRead, t.proto().EntityName(), fmt.Sprintf("(%d, %d)", a, b), err)
	}
	return ok, nil
}

// List returns rows matching f ordered by their key pair.
func (t *LinkTable[T, P]) List(ctx context.Context, db bun.IDB, f Filter) ([]T, error) {
	db = t.resolveDB(db)
	colA, colB := t.proto().KeyColumns()

	rows := []T{}
	q := db.NewSelect().Model(&rows).
		OrderExpr("? ASC", bun.Ident(colA)).
		OrderExpr("? ASC", bun.Ident(colB))
	q, err := f.apply(q, t.proto().EntityName(), []string{colA, colB})
	if err != nil {
		return nil, err
	}
	if err := q.Scan(ctx); err != nil {
		return nil, sportserr.Translate(sportserr.OpRead, t.proto().EntityName(), "list", err)
	}
	return rows, nil
}

// Update overwrites the non-key columns of the row keyed like rec.
func (t *LinkTable[T, P]) Update(ctx context.Context, db bun.IDB, rec P) error {
	db = t.resolveDB(db)
	if err := rec.Validate(); err != nil {
		return err
	}
	a, b := rec.KeyValues()
	res, err := db.NewUpdate().Model(rec).WherePK().Exec(ctx)
	if err != nil {
		return sportserr.Translate(sportserr.OpUpdate, rec.EntityName(), fmt.Sprintf("(%d, %d)", a, b), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sportserr.NotFoundPair(rec.EntityName(), a, b)
	}
	return nil
}

// Delete removes the row keyed by (a, b).
func (t *LinkTable[T, P]) Delete(ctx context.Context, db bun.IDB, a, b int64) error {
	db = t.resolveDB(db)
	proto := t.proto()
	colA, colB := proto.KeyColumns()
	res, err := db.NewDelete().Model((*T)(nil)).
		Where("? = ?", bun.Ident(colA), a).
		Where("? = ?", bun.Ident(colB), b).
		Exec(ctx)
	if err != nil {
		return sportserr.Translate(sportserr.OpDelete, proto.EntityName(), fmt.Sprintf("(%d, %d)", a, b), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sportserr.NotFoundPair(proto.EntityName(), a, b)
	}
	return nil
}
