package txfake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arangodb/aql-engine/aqlvalue"
)

func TestInsertThenReadRoundTrips(t *testing.T) {
	h := New()
	res := h.Insert("doc/1", aqlvalue.Int(42))
	assert.True(t, res.OK)

	res = h.Read("doc/1")
	assert.True(t, res.OK)
	v, ok := res.Slice.AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestInsertTwiceFails(t *testing.T) {
	h := New()
	assert.True(t, h.Insert("doc/1", aqlvalue.Int(1)).OK)
	res := h.Insert("doc/1", aqlvalue.Int(2))
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.ErrorMessage)
}

func TestUpdateMissingDocumentFails(t *testing.T) {
	h := New()
	res := h.Update("doc/missing", aqlvalue.Int(1))
	assert.False(t, res.OK)
}

func TestRemoveThenReadFails(t *testing.T) {
	h := New()
	h.Insert("doc/1", aqlvalue.Int(1))
	assert.True(t, h.Remove("doc/1").OK)
	assert.False(t, h.Read("doc/1").OK)
}

func TestOperationsAfterCommitFail(t *testing.T) {
	h := New()
	h.Insert("doc/1", aqlvalue.Int(1))
	h.Commit()
	assert.False(t, h.Active())

	res := h.Insert("doc/2", aqlvalue.Int(2))
	assert.False(t, res.OK)
	res = h.Read("doc/1")
	assert.False(t, res.OK)
}
