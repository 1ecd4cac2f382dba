// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xode

import (
	"encoding"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the length of an account id, in bytes.
const AddressLength = 32

// Address identifies an account. Both candidates and storage namespaces are addressed with it.
type Address [AddressLength]byte

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// AbbrevString returns the shortened form used in log lines.
func (a Address) AbbrevString() string {
	s := a.String()
	return s[:10] + "…" + s[len(s)-4:]
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a 0x prefixed hex string into an Address.
func ParseAddress(s string) (Address, error) {
	if !strings.HasPrefix(strings.ToLower(s), "0x") {
		return Address{}, errors.New("invalid prefix")
	}
	if len(s) != AddressLength*2+2 {
		return Address{}, errors.New("invalid length")
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, err
	}
	return BytesToAddress(b), nil
}

func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress converts bytes slice into address.
// If b is larger than address length, b will be cropped (from the left).
// If b is smaller than address length, b will be extended (from the left).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}
