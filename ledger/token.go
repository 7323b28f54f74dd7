// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TokenLedger is an in-memory Ledger with ERC20 pull semantics. TaxBps, when
// non-zero, simulates a fee-on-transfer token by shaving a proportional cut
// off every transfer; wrappers are expected to reject such tokens.
type TokenLedger struct {
	mu sync.Mutex

	symbol     string
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	nonces     map[common.Address]uint64

	TaxBps uint64
}

func NewTokenLedger(symbol string) *TokenLedger {
	return &TokenLedger{
		symbol:     symbol,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
		nonces:     make(map[common.Address]uint64),
	}
}

func (t *TokenLedger) Symbol() string {
	return t.symbol
}

func (t *TokenLedger) BalanceOf(account common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.balance(account))
}

func (t *TokenLedger) Transfer(from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.transfer(from, to, amount)
}

func (t *TokenLedger) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := t.allowance(from, spender)
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	if err := t.transfer(from, to, amount); err != nil {
		return err
	}

	allowance.Sub(allowance, amount)
	return nil
}

func (t *TokenLedger) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[common.Address]*big.Int)
		t.allowances[owner] = spenders
	}
	spenders[spender] = new(big.Int).Set(amount)
	return nil
}

func (t *TokenLedger) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.allowance(owner, spender))
}

func (t *TokenLedger) Mint(to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.balance(to).Add(t.balance(to), amount)
	return nil
}

func (t *TokenLedger) Burn(from common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	balance := t.balance(from)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	balance.Sub(balance, amount)
	return nil
}

// Permit grants spender an allowance authorized by the owner's signature
// over (owner, spender, amount, nonce, deadline). The permit must be
// consumed before the owner's funds are pulled; permit success does not
// imply sufficient balance.
func (t *TokenLedger) Permit(owner, spender common.Address, amount *big.Int, deadline uint64, nowUnix uint64, sig []byte) error {
	if deadline < nowUnix {
		return ErrPermitExpired
	}

	t.mu.Lock()
	nonce := t.nonces[owner]
	t.mu.Unlock()

	digest := permitDigest(t.symbol, owner, spender, amount, nonce, deadline)
	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return ErrInvalidPermit
	}
	if crypto.PubkeyToAddress(*pub) != owner {
		return ErrInvalidPermit
	}

	t.mu.Lock()
	t.nonces[owner] = nonce + 1
	t.mu.Unlock()

	return t.Approve(owner, spender, amount)
}

func (t *TokenLedger) PermitNonce(owner common.Address) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.nonces[owner]
}

// PermitDigest exposes the signing digest so callers can produce permits.
func (t *TokenLedger) PermitDigest(owner, spender common.Address, amount *big.Int, nonce uint64, deadline uint64) []byte {
	return permitDigest(t.symbol, owner, spender, amount, nonce, deadline)
}

func permitDigest(symbol string, owner, spender common.Address, amount *big.Int, nonce uint64, deadline uint64) []byte {
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	uint64Type, _ := abi.NewType("uint64", "", nil)
	stringType, _ := abi.NewType("string", "", nil)
	args := abi.Arguments{
		{Type: stringType},
		{Type: addressType},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint64Type},
		{Type: uint64Type},
	}
	b, _ := args.Pack(symbol, owner, spender, amount, nonce, deadline)
	return crypto.Keccak256(b)
}

func (t *TokenLedger) balance(account common.Address) *big.Int {
	b, ok := t.balances[account]
	if !ok {
		b = new(big.Int)
		t.balances[account] = b
	}
	return b
}

func (t *TokenLedger) allowance(owner, spender common.Address) *big.Int {
	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[common.Address]*big.Int)
		t.allowances[owner] = spenders
	}
	a, ok := spenders[spender]
	if !ok {
		a = new(big.Int)
		spenders[spender] = a
	}
	return a
}

func (t *TokenLedger) transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	fromBalance := t.balance(from)
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	received := new(big.Int).Set(amount)
	if t.TaxBps > 0 {
		tax := new(big.Int).Mul(amount, new(big.Int).SetUint64(t.TaxBps))
		tax.Div(tax, big.NewInt(100_000))
		received.Sub(received, tax)
	}

	fromBalance.Sub(fromBalance, amount)
	t.balance(to).Add(t.balance(to), received)
	return nil
}
