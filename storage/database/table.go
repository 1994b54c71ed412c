package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
)

const (
	selectAllSQL  = `SELECT id, data FROM records WHERE collection = $1 ORDER BY id`
	selectOneSQL  = `SELECT id, data FROM records WHERE collection = $1 AND id = $2`
	selectLockSQL = selectOneSQL + ` FOR UPDATE`
	nextIDSQL     = `INSERT INTO record_sequences (collection, last_id) VALUES ($1, 1)
		ON CONFLICT (collection) DO UPDATE SET last_id = record_sequences.last_id + 1
		RETURNING last_id`
	insertSQL = `INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)`
	updateSQL = `UPDATE records SET data = $3, updated_at = now() WHERE collection = $1 AND id = $2`
	deleteSQL = `DELETE FROM records WHERE collection = $1 AND id = $2`
)

type row struct {
	ID   int    `db:"id"`
	Data []byte `db:"data"`
}

// Table is a records.Table stored in the `records` table under collection.
type Table[T any] struct {
	db         *sqlx.DB
	collection string
}

var _ records.Table[struct{}] = (*Table[struct{}])(nil)

func NewTable[T any](db *sqlx.DB, collection string) *Table[T] {
	return &Table[T]{db: db, collection: collection}
}

func (t *Table[T]) All(ctx context.Context) ([]T, error) {
	var rows []row
	if err := t.db.SelectContext(ctx, &rows, selectAllSQL, t.collection); err != nil {
		return nil, errors.Wrapf(err, "selecting %s", t.collection)
	}
	recs := make([]T, 0, len(rows))
	for _, r := range rows {
		rec, err := t.decode(r)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (t *Table[T]) Get(ctx context.Context, id int) (T, error) {
	var r row
	if err := t.db.GetContext(ctx, &r, selectOneSQL, t.collection, id); err != nil {
		var zero T
		return zero, t.notFound(err, id)
	}
	return t.decode(r)
}

func (t *Table[T]) Create(ctx context.Context, build func(id int) (T, error)) (T, error) {
	var rec T
	err := t.inTx(ctx, func(tx *sqlx.Tx) error {
		var id int
		if err := tx.GetContext(ctx, &id, nextIDSQL, t.collection); err != nil {
			return errors.Wrap(err, "allocating id")
		}
		var err error
		if rec, err = build(id); err != nil {
			return err
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(err, "encoding record")
		}
		_, err = tx.ExecContext(ctx, insertSQL, t.collection, id, data)
		return errors.Wrapf(err, "inserting into %s", t.collection)
	})
	return rec, err
}

func (t *Table[T]) Update(ctx context.Context, id int, fn func(rec T) (T, error)) (T, error) {
	var rec T
	err := t.inTx(ctx, func(tx *sqlx.Tx) error {
		var r row
		if err := tx.GetContext(ctx, &r, selectLockSQL, t.collection, id); err != nil {
			return t.notFound(err, id)
		}
		cur, err := t.decode(r)
		if err != nil {
			return err
		}
		if rec, err = fn(cur); err != nil {
			return err
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(err, "encoding record")
		}
		_, err = tx.ExecContext(ctx, updateSQL, t.collection, id, data)
		return errors.Wrapf(err, "updating %s", t.collection)
	})
	return rec, err
}

func (t *Table[T]) Delete(ctx context.Context, id int) error {
	res, err := t.db.ExecContext(ctx, deleteSQL, t.collection, id)
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", t.collection)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (t *Table[T]) decode(r row) (T, error) {
	var rec T
	if err := json.Unmarshal(r.Data, &rec); err != nil {
		return rec, errors.Wrapf(err, "decoding %s #%d", t.collection, r.ID)
	}
	return rec, nil
}

func (t *Table[T]) notFound(err error, id int) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return records.ErrNotFound
	}
	return errors.Wrapf(err, "selecting %s #%d", t.collection, id)
}

func (t *Table[T]) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
