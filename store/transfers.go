// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sygmaprotocol/sygma-core/store"

	"github.com/crosslinktech/crosslink-relay/relay"
)

// TransferRecord preserves the parameters of one logical transfer so it can
// be re-announced through a different adapter set with exactly the original
// values.
type TransferRecord struct {
	TransferID  common.Hash
	Recipient   common.Address
	Amount      *big.Int
	DestChainID uint64
	Unwrap      bool
}

// TransferStore persists transfer records and delivery markers. Records are
// never pruned automatically; a resend may be needed arbitrarily long after
// the original dispatch.
type TransferStore struct {
	db store.KeyValueReaderWriter
}

func NewTransferStore(db store.KeyValueReaderWriter) *TransferStore {
	return &TransferStore{db: db}
}

func (s *TransferStore) SaveTransfer(controller common.Address, r *TransferRecord) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.SetByKey(transferKey(controller, r.TransferID), b)
}

func (s *TransferStore) GetTransfer(controller common.Address, id common.Hash) (*TransferRecord, error) {
	b, err := s.db.GetByKey(transferKey(controller, id))
	if err != nil {
		return nil, relay.ErrUnknownTransfer
	}

	r := new(TransferRecord)
	if err := json.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// MarkDelivered records an inbound delivery id for the given scope. The
// scope separates adapter-level transport ids from controller-level transfer
// ids.
func (s *TransferStore) MarkDelivered(scope common.Address, id common.Hash) error {
	return s.db.SetByKey(deliveredKey(scope, id), []byte{1})
}

func (s *TransferStore) IsDelivered(scope common.Address, id common.Hash) bool {
	b, err := s.db.GetByKey(deliveredKey(scope, id))
	return err == nil && len(b) > 0
}

// UnmarkDelivered clears a delivery marker that was staged for a credit that
// did not complete.
func (s *TransferStore) UnmarkDelivered(scope common.Address, id common.Hash) error {
	return s.db.SetByKey(deliveredKey(scope, id), nil)
}

// SaveNonce persists the controller's transfer nonce. Transfer ids derive
// from it, so it must survive restarts or an id could be reissued.
func (s *TransferStore) SaveNonce(controller common.Address, nonce uint64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, nonce)
	return s.db.SetByKey(nonceKey(controller), b)
}

// GetNonce returns the last persisted nonce for the controller, or zero if
// none was stored yet.
func (s *TransferStore) GetNonce(controller common.Address) uint64 {
	b, err := s.db.GetByKey(nonceKey(controller))
	if err != nil || len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func transferKey(controller common.Address, id common.Hash) []byte {
	return []byte(fmt.Sprintf("transfer:%s:%s", controller.Hex(), id.Hex()))
}

func deliveredKey(scope common.Address, id common.Hash) []byte {
	return []byte(fmt.Sprintf("delivered:%s:%s", scope.Hex(), id.Hex()))
}

func nonceKey(controller common.Address) []byte {
	return []byte(fmt.Sprintf("nonce:%s", controller.Hex()))
}
