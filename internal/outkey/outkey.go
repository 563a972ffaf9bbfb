// Package outkey maps message metadata onto object-store keys. Keys are a
// pure function of (timestamp, sender, short id): reprocessing a redelivered
// message overwrites its record instead of duplicating it.
package outkey

import (
	"fmt"
	"time"
)

// Key is the storage location of one enriched record: a date-partition
// directory and a filename.
type Key struct {
	Directory string
	Filename  string
}

// Build derives the key from message metadata alone. The timestamp is
// rendered in UTC so the key does not depend on the processing host's zone,
// and never on the wall clock.
func Build(timestamp int64, sender, shortID string) Key {
	t := time.Unix(timestamp, 0).UTC()
	return Key{
		Directory: t.Format("2006-01-02"),
		Filename:  fmt.Sprintf("%s-%s-%s.json", sender, t.Format("15-04-05"), shortID),
	}
}

// Object joins directory and filename into the flat-namespace object name.
func (k Key) Object() string {
	return k.Directory + "/" + k.Filename
}
