// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package access

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crosslinktech/crosslink-relay/relay"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// Control gates admin operations behind explicit role grants. The deployer
// address holds RoleAdmin from the start; roles are only ever granted or
// revoked, never implicit.
type Control struct {
	mu    sync.RWMutex
	roles map[Role]map[common.Address]struct{}
}

func NewControl(admin common.Address) *Control {
	c := &Control{
		roles: make(map[Role]map[common.Address]struct{}),
	}
	c.roles[RoleAdmin] = map[common.Address]struct{}{admin: {}}
	return c
}

func (c *Control) Grant(caller common.Address, role Role, account common.Address) error {
	if err := c.Require(caller, RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	members, ok := c.roles[role]
	if !ok {
		members = make(map[common.Address]struct{})
		c.roles[role] = members
	}
	members[account] = struct{}{}
	return nil
}

func (c *Control) Revoke(caller common.Address, role Role, account common.Address) error {
	if err := c.Require(caller, RoleAdmin); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.roles[role], account)
	return nil
}

func (c *Control) Has(account common.Address, role Role) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.roles[role][account]
	return ok
}

// Require returns ErrUnauthorised unless account holds role. RoleAdmin
// satisfies any role check.
func (c *Control) Require(account common.Address, role Role) error {
	if c.Has(account, role) {
		return nil
	}
	if role != RoleAdmin && c.Has(account, RoleAdmin) {
		return nil
	}
	return relay.ErrUnauthorised
}
