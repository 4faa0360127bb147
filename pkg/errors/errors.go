package errors

import "errors"

// ErrOptimisticLock is returned by version-guarded updates when the row was
// modified by another writer since it was read.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")
