package storagefake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/txfake"
)

func TestReadDocumentWithCallbackInvokesCallbackWithStoredValue(t *testing.T) {
	c := NewCollection()
	c.Put("doc/1", aqlvalue.Int(7))

	var got aqlvalue.Value
	err := c.ReadDocumentWithCallback(context.Background(), nil, "doc/1", func(v aqlvalue.Value) error {
		got = v
		return nil
	})
	require.NoError(t, err)
	n, ok := got.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(7), n)
}

func TestReadDocumentWithCallbackFailsOnMissingDocument(t *testing.T) {
	c := NewCollection()
	err := c.ReadDocumentWithCallback(context.Background(), nil, "doc/missing", func(aqlvalue.Value) error { return nil })
	assert.Error(t, err)
}

func TestReadDocumentWithCallbackFailsOnInactiveTransaction(t *testing.T) {
	c := NewCollection()
	c.Put("doc/1", aqlvalue.Int(1))
	trx := txfake.New()
	trx.Commit()

	err := c.ReadDocumentWithCallback(context.Background(), trx, "doc/1", func(aqlvalue.Value) error { return nil })
	assert.Error(t, err)
}

func TestFetchDocumentImplementsLimitDocumentFetcher(t *testing.T) {
	c := NewCollection()
	c.Put("doc/9", aqlvalue.Int(99))

	v, err := c.FetchDocument(context.Background(), "doc/9")
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(99), n)
}
