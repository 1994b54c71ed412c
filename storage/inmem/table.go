// Package inmem stores the sandbox records in memory.
package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/assignment"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

type Table[T any] struct {
	mutex sync.RWMutex
	table map[int]T
	pkSeq int
}

var _ records.Table[struct{}] = (*Table[struct{}])(nil)

func NewTable[T any]() *Table[T] {
	return &Table[T]{table: make(map[int]T)}
}

// NewDB returns an empty in-memory records.DB.
func NewDB() *records.DB {
	return &records.DB{
		Accounts:    NewTable[account.Account](),
		Students:    NewTable[student.Student](),
		Teachers:    NewTable[teacher.Teacher](),
		Instruments: NewTable[instrument.Instrument](),
		Loans:       NewTable[loan.Loan](),
		Evaluations: NewTable[evaluation.Evaluation](),
		Assignments: NewTable[assignment.Assignment](),
		Tokens:      NewTable[regtoken.Token](),
	}
}

func (t *Table[T]) All(context.Context) ([]T, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	ids := make([]int, 0, len(t.table))
	for id := range t.table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	recs := make([]T, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, t.table[id])
	}
	return recs, nil
}

func (t *Table[T]) Get(_ context.Context, id int) (T, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	rec, ok := t.table[id]
	if !ok {
		return rec, records.ErrNotFound
	}
	return rec, nil
}

func (t *Table[T]) Create(_ context.Context, build func(id int) (T, error)) (T, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, err := build(t.pkSeq + 1)
	if err != nil {
		return rec, err
	}
	t.pkSeq++
	t.table[t.pkSeq] = rec
	return rec, nil
}

func (t *Table[T]) Update(_ context.Context, id int, fn func(rec T) (T, error)) (T, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	rec, ok := t.table[id]
	if !ok {
		return rec, records.ErrNotFound
	}
	rec, err := fn(rec)
	if err != nil {
		return rec, err
	}
	t.table[id] = rec
	return rec, nil
}

func (t *Table[T]) Delete(_ context.Context, id int) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[id]; !ok {
		return records.ErrNotFound
	}
	delete(t.table, id)
	return nil
}
