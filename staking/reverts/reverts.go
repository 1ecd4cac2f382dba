// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a dispatch failure caused by the caller. The dispatch is rolled back and the
// error is reported to the host as the result of the call.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

var (
	ErrAlreadyRegistered   = New("candidate already registered")
	ErrNotRegistered       = New("candidate not registered")
	ErrInsufficientBalance = New("insufficient balance")
	ErrCandidateListFull   = New("candidate list full")
	ErrBadOrigin           = New("bad origin")
	ErrBondOverflow        = New("bond exceeds 128 bits")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
