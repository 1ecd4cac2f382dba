// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/xode-dao/xode-staking/xode"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for builtin modules. Values are rlp encoded, the slot
// of a key is blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos xode.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos xode.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) xode.Bytes32 {
	return xode.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored for key. The zero value is returned if absent, nil for pointer types.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	m.context.useRead()
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		return decode(raw, &value)
	})
	return
}

// Set stores the value for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	m.context.useWrite()
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.useWrite()
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func decode[V any](raw []byte, value *V) error {
	if len(raw) == 0 {
		return nil
	}
	if reflect.TypeOf(*value) != nil && reflect.TypeOf(*value).Kind() == reflect.Ptr {
		*value = reflect.New(reflect.TypeOf(*value).Elem()).Interface().(V)
		return rlp.DecodeBytes(raw, *value)
	}
	return rlp.DecodeBytes(raw, value)
}
