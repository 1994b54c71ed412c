// Package records defines the record tables of the sandbox backend and their seed data.
package records

import (
	"context"

	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/account"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/assignment"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/evaluation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/instrument"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/regtoken"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/student"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/teacher"
)

var ErrNotFound = errors.New("registro no encontrado")

// Table is a collection of records keyed by an int id assigned on creation.
type Table[T any] interface {
	All(ctx context.Context) ([]T, error) // ordered by id
	Get(ctx context.Context, id int) (T, error)
	// Create assigns the next id and stores the record build returns for it.
	Create(ctx context.Context, build func(id int) (T, error)) (T, error)
	// Update replaces record id with the result of fn, atomically.
	Update(ctx context.Context, id int, fn func(rec T) (T, error)) (T, error)
	Delete(ctx context.Context, id int) error
}

// DB groups the sandbox tables.
type DB struct {
	Accounts    Table[account.Account]
	Students    Table[student.Student]
	Teachers    Table[teacher.Teacher]
	Instruments Table[instrument.Instrument]
	Loans       Table[loan.Loan]
	Evaluations Table[evaluation.Evaluation]
	Assignments Table[assignment.Assignment]
	Tokens      Table[regtoken.Token]
}

// Collections lists the names of the tables of DB, as used for storage.
var Collections = []string{
	account.Collection,
	student.Collection,
	teacher.Collection,
	instrument.Collection,
	loan.Collection,
	evaluation.Collection,
	assignment.Collection,
	regtoken.Collection,
}

// Where returns the records of all matching pred.
func Where[T any](all []T, pred func(T) bool) []T {
	out := make([]T, 0)
	for _, rec := range all {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}
