// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/xode-dao/xode-staking/state"
	"github.com/xode-dao/xode-staking/weight"
	"github.com/xode-dao/xode-staking/xode"
)

// Context binds a module address to the state, and meters every storage access.
type Context struct {
	address xode.Address
	state   *state.State
	meter   *weight.Meter
}

func NewContext(address xode.Address, state *state.State, meter *weight.Meter) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() xode.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Meter() *weight.Meter {
	return c.meter
}

func (c *Context) useRead() {
	c.meter.Read(1)
}

func (c *Context) useWrite() {
	c.meter.Write(1)
}
