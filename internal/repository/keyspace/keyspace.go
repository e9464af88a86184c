// Package keyspace names the store keys and the index of one collection:
// documents live under "<name>:<collection>:doc:<id>", the vector index is
// "<name>:<collection>:idx".
package keyspace

import "strings"

// Keyspace identifies one database/collection pair in the store.
type Keyspace struct {
	name       string
	collection string
}

// New creates a keyspace for the given database name and collection.
func New(name, collection string) Keyspace {
	return Keyspace{name: name, collection: collection}
}

// Name returns the database name.
func (k Keyspace) Name() string { return k.name }

// Collection returns the collection name.
func (k Keyspace) Collection() string { return k.collection }

// DocPrefix returns the key prefix shared by all documents.
func (k Keyspace) DocPrefix() string {
	return k.name + ":" + k.collection + ":doc:"
}

// DocKey returns the store key of a document.
func (k Keyspace) DocKey(id string) string {
	return k.DocPrefix() + id
}

// DocID strips the document prefix from a store key.
func (k Keyspace) DocID(key string) string {
	return strings.TrimPrefix(key, k.DocPrefix())
}

// IndexName returns the vector index name.
func (k Keyspace) IndexName() string {
	return k.name + ":" + k.collection + ":idx"
}
