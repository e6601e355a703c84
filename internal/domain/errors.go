package domain

import "errors"

// ErrNotFound marks a keyed lookup or filtered aggregation that matched no
// records. Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("not found")
