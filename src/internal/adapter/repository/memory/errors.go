package memory

import "errors"

var (
	errOutsideUnitOfWork = errors.New("memory store: write outside unit of work")
	errAccountNotLocked  = errors.New("memory store: account must be locked before it is written")
)
