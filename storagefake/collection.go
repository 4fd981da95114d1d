// Package storagefake implements a minimal in-memory stand-in for the
// storage collaborator of spec.md §6: late-materialization blocks
// invoke collection.readDocumentWithCallback(trx, localDocId,
// callback), with the callback writing into an Output Row register.
// The engine never touches storage directly; this package exists to
// give the late-materialized executors/limit variant (and tests) a
// concrete, drivable collaborator since the real storage engine is out
// of scope (spec.md §1).
//
// Grounded directly on spec.md §6's interface description - vfilter
// has no storage-engine concept to generalize from; justified
// stdlib-only (sync.RWMutex-guarded map) for the same reason as
// txfake: the real collaborator is explicitly out of scope.
package storagefake

import (
	"context"
	"sync"

	"github.com/arangodb/aql-engine/aqlerrors"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/txfake"
)

// Collection is an in-memory map from document id to value.
type Collection struct {
	mu   sync.RWMutex
	docs map[string]aqlvalue.Value
}

// NewCollection builds an empty Collection.
func NewCollection() *Collection {
	return &Collection{docs: map[string]aqlvalue.Value{}}
}

// Put seeds localDocID with value, for test setup.
func (c *Collection) Put(localDocID string, value aqlvalue.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[localDocID] = value.Clone()
}

// ReadDocumentWithCallback resolves localDocID and invokes callback
// with its value, failing if trx is non-nil and inactive or the
// document does not exist (spec.md §6).
func (c *Collection) ReadDocumentWithCallback(ctx context.Context, trx *txfake.Handle, localDocID string, callback func(aqlvalue.Value) error) error {
	if trx != nil && !trx.Active() {
		return aqlerrors.Wrap(aqlerrors.ErrInternal, "storagefake: read on inactive transaction")
	}
	c.mu.RLock()
	v, ok := c.docs[localDocID]
	c.mu.RUnlock()
	if !ok {
		return aqlerrors.Wrap(aqlerrors.ErrInternal, "storagefake: no such document %q", localDocID)
	}
	return callback(v.Clone())
}

// FetchDocument implements executors/limit.DocumentFetcher, the direct
// collaborator the late-materialized Limit variant calls through, by
// adapting the callback-shaped ReadDocumentWithCallback to a plain
// request/response call.
func (c *Collection) FetchDocument(ctx context.Context, docID string) (aqlvalue.Value, error) {
	var result aqlvalue.Value
	err := c.ReadDocumentWithCallback(ctx, nil, docID, func(v aqlvalue.Value) error {
		result = v
		return nil
	})
	return result, err
}
