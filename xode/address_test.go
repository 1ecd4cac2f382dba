// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("candidate"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("1234")
	assert.EqualError(t, err, "invalid prefix")

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	assert.Panics(t, func() { MustParseAddress("0xzz") })
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte{1, 2, 3})

	text, err := addr.MarshalText()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestBytesToAddress(t *testing.T) {
	long := make([]byte, AddressLength+4)
	long[len(long)-1] = 7
	assert.Equal(t, byte(7), BytesToAddress(long)[AddressLength-1])
	assert.Equal(t, byte(9), BytesToAddress([]byte{9})[AddressLength-1])
}

func TestBlake2b(t *testing.T) {
	a := Blake2b([]byte("a"), []byte("b"))
	b := Blake2b([]byte("ab"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Blake2b([]byte("ba")))
}
