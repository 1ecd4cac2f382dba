// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances is an in-state reference ledger with free and reserved balances per account.
package balances

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/staking/bond"
	"github.com/xode-dao/xode-staking/storage"
	"github.com/xode-dao/xode-staking/xode"
)

var slotAccounts = xode.BytesToBytes32([]byte("accounts"))

type Account struct {
	Free     *uint256.Int
	Reserved *uint256.Int
}

func (a *Account) isEmpty() bool {
	return a == nil || (a.Free.IsZero() && a.Reserved.IsZero())
}

// Balances implements bond.Ledger over the state.
type Balances struct {
	accounts *storage.Mapping[xode.Address, *Account]
}

var _ bond.Ledger = (*Balances)(nil)

func New(sctx *storage.Context) *Balances {
	return &Balances{
		accounts: storage.NewMapping[xode.Address, *Account](sctx, slotAccounts),
	}
}

func (b *Balances) get(account xode.Address) (*Account, error) {
	a, err := b.accounts.Get(account)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", account)
	}
	if a == nil {
		return &Account{Free: new(uint256.Int), Reserved: new(uint256.Int)}, nil
	}
	return a, nil
}

func (b *Balances) set(account xode.Address, a *Account) error {
	if a.isEmpty() {
		b.accounts.Delete(account)
		return nil
	}
	return b.accounts.Set(account, a)
}

func (b *Balances) Free(account xode.Address) (*uint256.Int, error) {
	a, err := b.get(account)
	if err != nil {
		return nil, err
	}
	return a.Free, nil
}

func (b *Balances) Reserved(account xode.Address) (*uint256.Int, error) {
	a, err := b.get(account)
	if err != nil {
		return nil, err
	}
	return a.Reserved, nil
}

// Deposit credits the free balance of the account.
func (b *Balances) Deposit(account xode.Address, amount *uint256.Int) error {
	a, err := b.get(account)
	if err != nil {
		return err
	}
	free, overflow := new(uint256.Int).AddOverflow(a.Free, amount)
	if overflow {
		return errors.Errorf("balance overflow for %s", account)
	}
	a.Free = free
	return b.set(account, a)
}

// Reserve moves amount from the free to the reserved balance.
func (b *Balances) Reserve(account xode.Address, amount *uint256.Int) error {
	a, err := b.get(account)
	if err != nil {
		return err
	}
	if a.Free.Lt(amount) {
		return errors.Wrapf(bond.ErrInsufficientFunds, "reserve %s with free balance %s", amount, a.Free)
	}
	a.Free = new(uint256.Int).Sub(a.Free, amount)
	a.Reserved = new(uint256.Int).Add(a.Reserved, amount)
	return b.set(account, a)
}

// Unreserve moves amount from the reserved back to the free balance.
func (b *Balances) Unreserve(account xode.Address, amount *uint256.Int) error {
	a, err := b.get(account)
	if err != nil {
		return err
	}
	if a.Reserved.Lt(amount) {
		return errors.Wrapf(bond.ErrInsufficientFunds, "unreserve %s with reserved balance %s", amount, a.Reserved)
	}
	a.Reserved = new(uint256.Int).Sub(a.Reserved, amount)
	a.Free = new(uint256.Int).Add(a.Free, amount)
	return b.set(account, a)
}
