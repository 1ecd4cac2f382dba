// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/xode-dao/xode-staking/xode"
)

// Raw is a single storage slot holding an rlp encoded value.
type Raw[V any] struct {
	context *Context
	pos     xode.Bytes32
}

func NewRaw[V any](context *Context, pos xode.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value if the slot is empty.
func (r *Raw[V]) Get() (value V, err error) {
	r.context.useRead()
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		return decode(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	r.context.useWrite()
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (r *Raw[V]) Delete() {
	r.context.useWrite()
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}
