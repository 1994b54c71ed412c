// Package local implements the client's durable local storage: a flat string key/value store
// shared by the session store and the navigation context.
package local

import "github.com/pkg/errors"

// Store is a durable string key/value store. Writes are last-writer-wins.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool, error)
	// Set stores value under key, durably, before returning.
	Set(key, value string) error
	// Remove deletes keys; missing keys are ignored.
	Remove(keys ...string) error
}

var ErrClosed = errors.New("local storage closed")
