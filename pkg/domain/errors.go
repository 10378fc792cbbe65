package domain

import "errors"

// ErrSessionNotFound is returned by cache adapters when no web session is stored under a key.
var ErrSessionNotFound = errors.New("session not found")
