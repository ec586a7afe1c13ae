// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore is an in-memory Store implementation used in tests and for
// local development without a MongoDB instance. Documents are held as
// BSON-encoded bytes so tag handling matches the real store, and insertion
// order per collection doubles as the natural (store) order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	order       map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
		order:       make(map[string][]string),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	raw, ok := docs[id]
	if !ok {
		return ErrNotFound
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// Query implements Store. out must be a pointer to a slice.
func (s *MemoryStore) Query(_ context.Context, collection string, predicates []Predicate, out any) error {
	outV := reflect.ValueOf(out)
	if outV.Kind() != reflect.Ptr || outV.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("query result must be a pointer to a slice, got %T", out)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sliceV := outV.Elem()
	sliceV.SetLen(0)
	elemType := sliceV.Type().Elem()

	for _, id := range s.order[collection] {
		raw, ok := s.collections[collection][id]
		if !ok {
			continue
		}
		if !matches(raw, predicates) {
			continue
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return fmt.Errorf("decoding document %s/%s: %w", collection, id, err)
		}
		sliceV = reflect.Append(sliceV, elem.Elem())
	}

	outV.Elem().Set(sliceV)
	return nil
}

// matches evaluates exact-match predicates against the raw document.
func matches(raw []byte, predicates []Predicate) bool {
	if len(predicates) == 0 {
		return true
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for _, p := range predicates {
		got, ok := fields[p.Field]
		if !ok {
			return false
		}
		if !looseEqual(got, p.Value) {
			return false
		}
	}
	return true
}

// looseEqual compares a decoded BSON value against a predicate value,
// tolerating the numeric widening BSON decoding introduces.
func looseEqual(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gv, wv := reflect.ValueOf(got), reflect.ValueOf(want)
	if gv.CanInt() && wv.CanInt() {
		return gv.Int() == wv.Int()
	}
	if gv.CanFloat() && wv.CanFloat() {
		return gv.Float() == wv.Float()
	}
	return false
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, collection, id string, doc any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("decoding document: %w", err)
	}
	fields["_id"] = id
	raw, err = bson.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("re-encoding document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	if _, exists := s.collections[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	s.collections[collection][id] = raw
	return id, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if docs, ok := s.collections[collection]; ok {
		delete(docs, id)
	}
	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}
