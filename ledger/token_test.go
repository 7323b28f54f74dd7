// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package ledger_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/ledger"
)

type TokenLedgerTestSuite struct {
	suite.Suite

	token *ledger.TokenLedger
	alice common.Address
	bob   common.Address
}

func TestRunTokenLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(TokenLedgerTestSuite))
}

func (s *TokenLedgerTestSuite) SetupTest() {
	s.token = ledger.NewTokenLedger("USDC")
	s.alice = common.HexToAddress("0x01")
	s.bob = common.HexToAddress("0x02")
	_ = s.token.Mint(s.alice, big.NewInt(1000))
}

func (s *TokenLedgerTestSuite) Test_Transfer_InsufficientBalance() {
	err := s.token.Transfer(s.alice, s.bob, big.NewInt(1001))

	s.ErrorIs(err, ledger.ErrInsufficientBalance)
	s.Equal(big.NewInt(1000), s.token.BalanceOf(s.alice))
}

func (s *TokenLedgerTestSuite) Test_Transfer_MovesBalance() {
	err := s.token.Transfer(s.alice, s.bob, big.NewInt(400))

	s.Nil(err)
	s.Equal(big.NewInt(600), s.token.BalanceOf(s.alice))
	s.Equal(big.NewInt(400), s.token.BalanceOf(s.bob))
}

func (s *TokenLedgerTestSuite) Test_TransferFrom_WithoutAllowance() {
	err := s.token.TransferFrom(s.bob, s.alice, s.bob, big.NewInt(100))

	s.ErrorIs(err, ledger.ErrInsufficientAllowance)
}

func (s *TokenLedgerTestSuite) Test_TransferFrom_ConsumesAllowance() {
	_ = s.token.Approve(s.alice, s.bob, big.NewInt(300))

	err := s.token.TransferFrom(s.bob, s.alice, s.bob, big.NewInt(200))

	s.Nil(err)
	s.Equal(big.NewInt(100), s.token.Allowance(s.alice, s.bob))
	s.Equal(big.NewInt(200), s.token.BalanceOf(s.bob))
}

func (s *TokenLedgerTestSuite) Test_Burn_InsufficientBalance() {
	err := s.token.Burn(s.alice, big.NewInt(1001))

	s.ErrorIs(err, ledger.ErrInsufficientBalance)
}

func (s *TokenLedgerTestSuite) Test_Transfer_FeeOnTransferTax() {
	s.token.TaxBps = 1000 // 1%

	err := s.token.Transfer(s.alice, s.bob, big.NewInt(1000))

	s.Nil(err)
	s.Equal(big.NewInt(0), s.token.BalanceOf(s.alice))
	s.Equal(big.NewInt(990), s.token.BalanceOf(s.bob))
}

func (s *TokenLedgerTestSuite) Test_Permit_ValidSignature() {
	key, _ := crypto.GenerateKey()
	owner := crypto.PubkeyToAddress(key.PublicKey)

	digest := s.token.PermitDigest(owner, s.bob, big.NewInt(500), 0, 100)
	sig, err := crypto.Sign(digest, key)
	s.Nil(err)

	err = s.token.Permit(owner, s.bob, big.NewInt(500), 100, 50, sig)

	s.Nil(err)
	s.Equal(big.NewInt(500), s.token.Allowance(owner, s.bob))
	s.Equal(uint64(1), s.token.PermitNonce(owner))
}

func (s *TokenLedgerTestSuite) Test_Permit_Expired() {
	err := s.token.Permit(s.alice, s.bob, big.NewInt(500), 100, 101, []byte{})

	s.ErrorIs(err, ledger.ErrPermitExpired)
}

func (s *TokenLedgerTestSuite) Test_Permit_WrongSigner() {
	key, _ := crypto.GenerateKey()

	digest := s.token.PermitDigest(s.alice, s.bob, big.NewInt(500), 0, 100)
	sig, err := crypto.Sign(digest, key)
	s.Nil(err)

	err = s.token.Permit(s.alice, s.bob, big.NewInt(500), 100, 50, sig)

	s.ErrorIs(err, ledger.ErrInvalidPermit)
}

func (s *TokenLedgerTestSuite) Test_Permit_ReplayedSignature() {
	key, _ := crypto.GenerateKey()
	owner := crypto.PubkeyToAddress(key.PublicKey)

	digest := s.token.PermitDigest(owner, s.bob, big.NewInt(500), 0, 100)
	sig, err := crypto.Sign(digest, key)
	s.Nil(err)

	s.Nil(s.token.Permit(owner, s.bob, big.NewInt(500), 100, 50, sig))

	// nonce advanced, the same signature no longer recovers to the owner
	err = s.token.Permit(owner, s.bob, big.NewInt(500), 100, 50, sig)
	s.ErrorIs(err, ledger.ErrInvalidPermit)
}

type JournalTestSuite struct {
	suite.Suite

	token *ledger.TokenLedger
	alice common.Address
	bob   common.Address
}

func TestRunJournalTestSuite(t *testing.T) {
	suite.Run(t, new(JournalTestSuite))
}

func (s *JournalTestSuite) SetupTest() {
	s.token = ledger.NewTokenLedger("USDC")
	s.alice = common.HexToAddress("0x01")
	s.bob = common.HexToAddress("0x02")
	_ = s.token.Mint(s.alice, big.NewInt(1000))
}

func (s *JournalTestSuite) Test_Rollback_RestoresBalances() {
	journal := ledger.NewJournal(s.token)

	s.Nil(journal.Transfer(s.alice, s.bob, big.NewInt(300)))
	s.Nil(journal.Transfer(s.bob, s.alice, big.NewInt(100)))

	journal.Rollback()

	s.Equal(big.NewInt(1000), s.token.BalanceOf(s.alice))
	s.Equal(big.NewInt(0), s.token.BalanceOf(s.bob))
}

func (s *JournalTestSuite) Test_Transfer_FailedMoveNotJournaled() {
	journal := ledger.NewJournal(s.token)

	s.NotNil(journal.Transfer(s.alice, s.bob, big.NewInt(2000)))

	journal.Rollback()

	s.Equal(big.NewInt(1000), s.token.BalanceOf(s.alice))
}
