package database

import "errors"

// ErrNotReady is returned by Ping when the database cannot be reached.
var ErrNotReady = errors.New("database not ready")
