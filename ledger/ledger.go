// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrPermitExpired         = errors.New("permit expired")
	ErrInvalidPermit         = errors.New("invalid permit signature")
)

// Transferor moves value between two accounts. Both Ledger and Journal
// satisfy it, so fee logic can run directly or under a rollback journal.
type Transferor interface {
	Transfer(from, to common.Address, amount *big.Int) error
}

// Ledger tracks balances and allowances for one asset. Implementations must
// be safe for concurrent use.
type Ledger interface {
	BalanceOf(account common.Address) *big.Int
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
	Approve(owner, spender common.Address, amount *big.Int) error
	Allowance(owner, spender common.Address) *big.Int
	Mint(to common.Address, amount *big.Int) error
	Burn(from common.Address, amount *big.Int) error
}

// Journal records ledger movements so a multi-step operation can be undone
// when a later step fails. Components apply transfers through the journal
// and either discard it on success or roll it back.
type Journal struct {
	ledger Ledger
	moves  []move
}

type move struct {
	from, to common.Address
	amount   *big.Int
}

func NewJournal(l Ledger) *Journal {
	return &Journal{ledger: l}
}

func (j *Journal) Transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := j.ledger.Transfer(from, to, amount); err != nil {
		return err
	}
	j.moves = append(j.moves, move{from: from, to: to, amount: new(big.Int).Set(amount)})
	return nil
}

// Rollback reverses all recorded movements in reverse order.
func (j *Journal) Rollback() {
	for i := len(j.moves) - 1; i >= 0; i-- {
		m := j.moves[i]
		// reversing a completed transfer cannot fail: the recipient holds
		// at least the transferred amount
		_ = j.ledger.Transfer(m.to, m.from, m.amount)
	}
	j.moves = nil
}
