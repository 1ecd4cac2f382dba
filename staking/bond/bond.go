// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bond

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/log"
	"github.com/xode-dao/xode-staking/staking/reverts"
	"github.com/xode-dao/xode-staking/xode"
)

var logger = log.WithContext("pkg", "bond")

// ErrInsufficientFunds must be matched, through errors.Is, by a Ledger that cannot reserve an amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger holds the funds of the accounts. Reserved funds back the bond of a candidate.
type Ledger interface {
	Reserve(account xode.Address, amount *uint256.Int) error
	Unreserve(account xode.Address, amount *uint256.Int) error
}

type Kind uint8

const (
	KindNone   Kind = iota
	KindTopUp       // reserve the difference
	KindRefund      // unreserve the difference
)

func (k Kind) String() string {
	switch k {
	case KindTopUp:
		return "top-up"
	case KindRefund:
		return "refund"
	default:
		return "none"
	}
}

// Instruction is the ledger operation needed to move a bond from one amount to another.
type Instruction struct {
	Kind   Kind
	Amount *uint256.Int
}

// Plan computes the instruction moving a bond from `from` to `to`.
func Plan(from, to *uint256.Int) Instruction {
	switch from.Cmp(to) {
	case -1:
		return Instruction{Kind: KindTopUp, Amount: new(uint256.Int).Sub(to, from)}
	case 1:
		return Instruction{Kind: KindRefund, Amount: new(uint256.Int).Sub(from, to)}
	default:
		return Instruction{Kind: KindNone, Amount: new(uint256.Int)}
	}
}

// Adapter turns absolute bond targets into ledger deltas.
type Adapter struct {
	ledger Ledger
}

func NewAdapter(ledger Ledger) *Adapter {
	return &Adapter{ledger: ledger}
}

// Move reserves or unreserves the difference between from and to. A ledger reporting
// ErrInsufficientFunds is surfaced as reverts.ErrInsufficientBalance.
func (a *Adapter) Move(account xode.Address, from, to *uint256.Int) error {
	ins := Plan(from, to)

	var err error
	switch ins.Kind {
	case KindNone:
		return nil
	case KindTopUp:
		err = a.ledger.Reserve(account, ins.Amount)
	case KindRefund:
		err = a.ledger.Unreserve(account, ins.Amount)
	}
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			logger.Debug("bond rejected by ledger", "account", account, "kind", ins.Kind, "amount", ins.Amount, "err", err)
			return reverts.ErrInsufficientBalance
		}
		return errors.Wrapf(err, "ledger %s", ins.Kind)
	}
	logger.Debug("moved bond", "account", account, "kind", ins.Kind, "amount", ins.Amount)
	return nil
}
