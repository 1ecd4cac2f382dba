// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/kv"
	"github.com/xode-dao/xode-staking/stackedmap"
	"github.com/xode-dao/xode-staking/xode"
)

const (
	storageBucket = kv.Bucket("s")
	cacheSize     = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr xode.Address
	key  xode.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, len(k.addr)+len(k.key)), k.addr[:]...), k.key[:]...)
}

// State manages the storage of all builtin modules, keyed by module address and slot.
// Changes stay in memory, revisionable through checkpoints, until Commit.
type State struct {
	db    kv.Store
	cache *lru.Cache // committed values
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create a state object over the given store.
func New(db kv.Store) *State {
	cache, _ := lru.New(cacheSize)
	s := &State{
		db:    storageBucket.NewStore(db),
		cache: cache,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.committedGetter)
}

func (s *State) committedGetter(key storageKey) ([]byte, bool, error) {
	if cached, ok := s.cache.Get(key); ok {
		raw := cached.([]byte)
		return raw, len(raw) > 0, nil
	}
	raw, err := s.db.Get(key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, &Error{err}
		}
		raw = nil
	}
	s.cache.Add(key, raw)
	return raw, len(raw) > 0, nil
}

// GetRawStorage returns the raw value stored at the given slot, nil if absent.
func (s *State) GetRawStorage(addr xode.Address, key xode.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetRawStorage sets the raw value of the given slot, an empty value deletes it.
func (s *State) SetRawStorage(addr xode.Address, key xode.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, bytes.Clone(raw))
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr xode.Address, key xode.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(addr xode.Address, key xode.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 0 || revision > s.sm.Depth() {
		panic("invalid revision")
	}
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Commit writes all pending changes to the underlying store atomically, and returns the number of touched slots.
func (s *State) Commit() (int, error) {
	var (
		order   []storageKey
		changes = make(map[storageKey][]byte)
	)
	s.sm.Journal(func(key storageKey, raw []byte) bool {
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = raw
		return true
	})

	bulk := s.db.Bulk()
	for _, key := range order {
		raw := changes[key]
		var err error
		if len(raw) == 0 {
			err = bulk.Delete(key.dbKey())
		} else {
			err = bulk.Put(key.dbKey(), raw)
		}
		if err != nil {
			return 0, &Error{errors.Wrap(err, "commit")}
		}
	}
	if err := bulk.Write(); err != nil {
		return 0, &Error{errors.Wrap(err, "commit")}
	}
	for _, key := range order {
		s.cache.Add(key, changes[key])
	}
	s.reset()
	return len(order), nil
}
