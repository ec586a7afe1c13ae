// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides access to the portal's document store. Content,
// users, profiles and events live in schema-less collections; reads are
// best-effort snapshots and writes are unconditional upserts.
package store

import "context"

// Error is the error type for store operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound Error = "document not found"

	// ErrUnavailable indicates the store could not be reached or rejected
	// the operation. Callers surface it as a generic fetch failure and do
	// not retry.
	ErrUnavailable Error = "store unavailable"
)

// Predicate is an exact-match field constraint evaluated store-side.
// Only fields the predicates target are assumed to be indexed.
type Predicate struct {
	Field string
	Value any
}

// Store is the document store contract. Documents are addressed by
// collection name and id; Query returns documents in store (natural) order.
//
// There are no transactions and no optimistic-concurrency checks: concurrent
// writers to the same document silently last-write-wins.
type Store interface {
	// Get decodes the document with the given id into out.
	// Returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string, out any) error

	// Query decodes all documents matching every predicate into out, which
	// must be a pointer to a slice. No predicates means the full collection.
	Query(ctx context.Context, collection string, predicates []Predicate, out any) error

	// Put upserts the document under the given id. An empty id asks the
	// store to assign one; the effective id is returned.
	Put(ctx context.Context, collection, id string, doc any) (string, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
