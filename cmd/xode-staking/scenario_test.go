// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xode-dao/xode-staking/xode"
)

var (
	demo1 = xode.MustParseAddress("0x0000000000000000000000000000000000000000000000000000000000000a01")
	demo2 = xode.MustParseAddress("0x0000000000000000000000000000000000000000000000000000000000000a02")
	demo3 = xode.MustParseAddress("0x0000000000000000000000000000000000000000000000000000000000000a03")
	demo4 = xode.MustParseAddress("0x0000000000000000000000000000000000000000000000000000000000000a04")
)

func TestDemoScenario(t *testing.T) {
	sc, err := loadScenario("")
	require.NoError(t, err)

	assert.Len(t, sc.Accounts, 4)
	assert.Equal(t, demo1, sc.Accounts[0].Address)
	assert.Equal(t, "100000000000000000", sc.Accounts[0].Balance.Dec())
	assert.Len(t, sc.Actions, 10)

	bonds := sc.ActionsAt(2)
	require.Len(t, bonds, 2)
	assert.Equal(t, Action{Block: 2, Call: callBond, Account: demo1, Amount: uint256.NewInt(11e15)}, bonds[0])
	assert.Equal(t, demo2, bonds[1].Account)

	assert.Len(t, sc.ActionsAt(1), 4)
	assert.Empty(t, sc.ActionsAt(4))
	assert.Empty(t, sc.ActionsAt(1000))
}

func TestParseScenario(t *testing.T) {
	t.Run("sorted by block", func(t *testing.T) {
		sc, err := parseScenario([]byte(`
actions:
  - {block: 5, call: online, account: "0x0000000000000000000000000000000000000000000000000000000000000a01"}
  - {block: 2, call: register, account: "0x0000000000000000000000000000000000000000000000000000000000000a02"}
  - {block: 5, call: offline, account: "0x0000000000000000000000000000000000000000000000000000000000000a03"}
`))
		require.NoError(t, err)
		require.Len(t, sc.Actions, 3)
		assert.Equal(t, uint32(2), sc.Actions[0].Block)
		assert.Equal(t, callOnline, sc.Actions[1].Call)
		assert.Equal(t, callOffline, sc.Actions[2].Call)
	})

	t.Run("missing balance", func(t *testing.T) {
		sc, err := parseScenario([]byte(`
accounts:
  - address: "0x0000000000000000000000000000000000000000000000000000000000000a01"
`))
		require.NoError(t, err)
		assert.True(t, sc.Accounts[0].Balance.IsZero())
	})

	tests := []struct {
		name string
		data string
		err  string
	}{
		{"unknown call", `actions: [{block: 1, call: slash, account: "0x0000000000000000000000000000000000000000000000000000000000000a01"}]`, "unknown call"},
		{"bond without amount", `actions: [{block: 1, call: bond, account: "0x0000000000000000000000000000000000000000000000000000000000000a01"}]`, "bond without amount"},
		{"missing address", `accounts: [{balance: "1"}]`, "missing address"},
		{"bad address", `accounts: [{address: "0x0a01"}]`, "invalid length"},
		{"unknown field", `foo: 1`, "field foo not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScenario([]byte(tt.data))
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`accounts: [{address: "0x0000000000000000000000000000000000000000000000000000000000000a01", balance: "5"}]`), 0o600))

	sc, err := loadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(5), sc.Accounts[0].Balance)

	_, err = loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read scenario file")
}
