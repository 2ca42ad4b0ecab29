package store

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Fault describes a failed interaction with the database: an unreachable
// server at startup, a malformed statement, a constraint violation or a
// statement that exceeded its timeout.
type Fault struct {
	Op        string
	Statement string
	Err       error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return "store: " + f.Op + " failed"
	}
	return fmt.Sprintf("store: %s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsConnection reports whether the fault happened while establishing the
// database session.
func (f *Fault) IsConnection() bool {
	return f.Op == opConnect
}

const (
	opConnect = "connect"
	opQuery   = "query"
	opExec    = "exec"
	opInsert  = "insert"
	opScan    = "scan"
)

func newFault(op, statement string, err error) error {
	return pkgerrors.WithStack(&Fault{Op: op, Statement: statement, Err: err})
}

// AsFault extracts the *Fault wrapped in err, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
