// Package storage persists extracted course batches for the downstream app.
//
// The store is a small JSON key/value file (storage.json) in a data
// directory. A batch is written under the fixed key "enrollmate_courses"
// together with an RFC 3339 timestamp under "enrollmate_timestamp", replacing
// the previous batch. The default location is ~/.local/share/enrollmate/.
package storage
