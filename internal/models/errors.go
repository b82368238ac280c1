package models

import "errors"

// ErrDuplicateRecord is returned by storage backends when a write would
// break a uniqueness rule (username, or owner+date+window).
var ErrDuplicateRecord = errors.New("duplicate record")
