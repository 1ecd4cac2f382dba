// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/xode"
)

// Origin is the caller of a dispatchable, as authenticated by the host.
type Origin struct {
	signer *xode.Address
}

// Signed is an origin authenticated as account.
func Signed(account xode.Address) Origin {
	return Origin{signer: &account}
}

// None is an unsigned origin, for example an inherent.
func None() Origin {
	return Origin{}
}

// Signer returns the signing account, or ErrBadOrigin if the origin is unsigned.
func (o Origin) Signer() (xode.Address, error) {
	if o.signer == nil || o.signer.IsZero() {
		return xode.Address{}, reverts.ErrBadOrigin
	}
	return *o.signer, nil
}
