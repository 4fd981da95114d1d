// Package txfake implements a minimal in-memory stand-in for the
// transaction collaborator of spec.md §6: a handle exposing
// insert/update/remove/read, each returning an
// OperationResult{OK, ErrorCode, ErrorMessage, Slice}. The real
// transaction engine is out of scope (spec.md §1). No operator in this
// module writes through it; storagefake.Collection takes a Handle only
// to check that the transaction is still active, and this package's
// own tests exercise its error results.
//
// Grounded directly on spec.md §6's interface description - the
// teacher (vfilter) has no transaction concept at all, so there is no
// teacher analogue to generalize from here; justified stdlib-only
// (sync.Mutex-guarded map) since the real collaborator is explicitly
// out of scope and only a stand-in is required.
package txfake

import (
	"sync"

	"github.com/arangodb/aql-engine/aqlvalue"
)

// OperationResult is the per-document outcome of a modification call,
// per spec.md §6/§7.
type OperationResult struct {
	OK           bool
	ErrorCode    int
	ErrorMessage string
	Slice        aqlvalue.Value
}

// Handle is a transaction over a single in-memory document store,
// keyed by document id.
type Handle struct {
	mu     sync.Mutex
	active bool
	docs   map[string]aqlvalue.Value
}

// New begins a transaction over a fresh document store.
func New() *Handle {
	return &Handle{active: true, docs: map[string]aqlvalue.Value{}}
}

// Active reports whether the transaction has not yet been committed or
// aborted.
func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Commit ends the transaction successfully.
func (h *Handle) Commit() { h.end() }

// Abort ends the transaction, discarding its effects (the in-memory
// store itself is not rolled back; callers that need isolation should
// start a fresh Handle per attempt).
func (h *Handle) Abort() { h.end() }

func (h *Handle) end() {
	h.mu.Lock()
	h.active = false
	h.mu.Unlock()
}

func (h *Handle) inactiveResult() OperationResult {
	return OperationResult{OK: false, ErrorCode: 1, ErrorMessage: "txfake: transaction is not active"}
}

// Insert stores value under docID, failing if it already exists.
func (h *Handle) Insert(docID string, value aqlvalue.Value) OperationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active {
		return h.inactiveResult()
	}
	if _, exists := h.docs[docID]; exists {
		return OperationResult{OK: false, ErrorCode: 2, ErrorMessage: "txfake: document already exists"}
	}
	h.docs[docID] = value.Clone()
	return OperationResult{OK: true, Slice: value.Clone()}
}

// Update overwrites docID's value, failing if it does not exist.
func (h *Handle) Update(docID string, value aqlvalue.Value) OperationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active {
		return h.inactiveResult()
	}
	if _, exists := h.docs[docID]; !exists {
		return OperationResult{OK: false, ErrorCode: 3, ErrorMessage: "txfake: document not found"}
	}
	h.docs[docID] = value.Clone()
	return OperationResult{OK: true, Slice: value.Clone()}
}

// Remove deletes docID, failing if it does not exist.
func (h *Handle) Remove(docID string) OperationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active {
		return h.inactiveResult()
	}
	if _, exists := h.docs[docID]; !exists {
		return OperationResult{OK: false, ErrorCode: 3, ErrorMessage: "txfake: document not found"}
	}
	delete(h.docs, docID)
	return OperationResult{OK: true}
}

// Read fetches docID's current value, failing if it does not exist.
func (h *Handle) Read(docID string) OperationResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active {
		return h.inactiveResult()
	}
	v, exists := h.docs[docID]
	if !exists {
		return OperationResult{OK: false, ErrorCode: 3, ErrorMessage: "txfake: document not found"}
	}
	return OperationResult{OK: true, Slice: v.Clone()}
}
