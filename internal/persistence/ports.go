// Package persistence defines the channel the household document travels
// through: a single logical path that is written whole and watched for
// changes.
package persistence

import (
	"context"
	"errors"
)

// DefaultPath is the logical path the document lives at.
const DefaultPath = "appState"

var ErrClosed = errors.New("persistence store closed")

// Delivery is one observation of the stored document. Present is false
// when nothing has been stored at the path yet.
type Delivery struct {
	Doc     []byte
	Present bool
}

// Ports for document backends.
type (
	Reader interface {
		// Get returns the raw document at path and whether one exists.
		Get(ctx context.Context, path string) ([]byte, bool, error)
	}

	Writer interface {
		// Put replaces whatever is stored at path with doc.
		Put(ctx context.Context, path string, doc []byte) error
	}

	// Watcher delivers the current document immediately and again on every
	// later change. Watch blocks until ctx is done.
	Watcher interface {
		Watch(ctx context.Context, path string, fn func(Delivery)) error
	}

	Store interface {
		Reader
		Writer
		Watcher
		Close() error
	}
)
