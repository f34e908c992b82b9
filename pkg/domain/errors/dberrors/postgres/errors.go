package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/opst/todofab/pkg/domain/errors"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// requested data conflicts with a unique constraint.
type Conflict struct {
	Table      string
	Constraint string
	Cause      error
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict on %s (constraint: %s): %v", c.Table, c.Constraint, c.Cause)
}

func (c Conflict) Unwrap() []error {
	return []error{domerr.ErrConflict, c.Cause}
}

// AsConflict converts a unique violation into Conflict.
//
// Other errors are returned as they are.
func AsConflict(table string, err error) error {
	if err == nil {
		return nil
	}
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) || pgerr.Code != pgerrcode.UniqueViolation {
		return err
	}
	return Conflict{Table: table, Constraint: pgerr.ConstraintName, Cause: err}
}
