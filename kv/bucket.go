// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket namespaces the keys of a store under a fixed prefix.
type Bucket string

// prefixed returns a fresh key, the source may retain it.
func (b Bucket) prefixed(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewStore returns the view of src under the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucket: b, src: src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.prefixed(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.prefixed(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.bucket.prefixed(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.bucket.prefixed(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{bucket: s.bucket, bulk: s.src.Bulk()}
}

type bucketBulk struct {
	bucket Bucket
	bulk   Bulk
}

func (b *bucketBulk) Put(key, val []byte) error { return b.bulk.Put(b.bucket.prefixed(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.bulk.Delete(b.bucket.prefixed(key)) }
func (b *bucketBulk) Len() int                  { return b.bulk.Len() }
func (b *bucketBulk) Write() error              { return b.bulk.Write() }
