// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type memStore map[string][]byte

func (m memStore) Get(key []byte) ([]byte, error) {
	if v, ok := m[string(key)]; ok {
		return v, nil
	}
	return nil, errNotFound
}

func (m memStore) Has(key []byte) (bool, error) {
	_, ok := m[string(key)]
	return ok, nil
}

func (m memStore) IsNotFound(err error) bool { return errors.Is(err, errNotFound) }

func (m memStore) Put(key, val []byte) error {
	m[string(key)] = val
	return nil
}

func (m memStore) Delete(key []byte) error {
	delete(m, string(key))
	return nil
}

func (m memStore) Bulk() Bulk {
	return &memBulk{store: m, ops: make(map[string][]byte)}
}

// memBulk buffers writes, a nil value marks a deletion.
type memBulk struct {
	store memStore
	ops   map[string][]byte
}

func (b *memBulk) Put(key, val []byte) error {
	b.ops[string(key)] = val
	return nil
}

func (b *memBulk) Delete(key []byte) error {
	b.ops[string(key)] = nil
	return nil
}

func (b *memBulk) Len() int { return len(b.ops) }

func (b *memBulk) Write() error {
	for k, v := range b.ops {
		if v == nil {
			delete(b.store, k)
		} else {
			b.store[k] = v
		}
	}
	return nil
}

func TestBucket(t *testing.T) {
	src := memStore{}
	store := Bucket("s").NewStore(src)

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	assert.Equal(t, []byte("v"), src["sk"])

	val, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	has, err := store.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	_, err = store.Get([]byte("missing"))
	assert.True(t, store.IsNotFound(err))

	require.NoError(t, store.Delete([]byte("k")))
	_, ok := src["sk"]
	assert.False(t, ok)
}

func TestBucketBulk(t *testing.T) {
	src := memStore{}
	bulk := Bucket("b").NewStore(src).Bulk()

	require.NoError(t, bulk.Put([]byte("1"), []byte("one")))
	require.NoError(t, bulk.Put([]byte("2"), []byte("two")))
	assert.Equal(t, 2, bulk.Len())
	assert.Empty(t, src)

	require.NoError(t, bulk.Write())
	assert.Equal(t, []byte("one"), src["b1"])
	assert.Equal(t, []byte("two"), src["b2"])
}

func TestBucketIsolation(t *testing.T) {
	src := memStore{}
	a := Bucket("a").NewStore(src)
	b := Bucket("b").NewStore(src)

	require.NoError(t, a.Put([]byte("k"), []byte("1")))
	has, err := b.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)

	bulk := b.Bulk()
	require.NoError(t, bulk.Delete([]byte("k")))
	require.NoError(t, bulk.Write())
	assert.Equal(t, []byte("1"), src["ak"])
}
