package relay

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sygmaprotocol/sygma-core/relayer/message"
)

const (
	TransferRequestMessage = "TransferRequestMessage"
	ResendRequestMessage   = "ResendRequestMessage"
)

// TransferRequestData carries an API-initiated transfer into the controller
// message handler.
type TransferRequestData struct {
	ErrChn chan error `json:"-"`

	Controller  common.Address
	Caller      common.Address
	Recipient   common.Address
	Amount      *big.Int
	Unwrap      bool
	Adapters    []common.Address
	Fees        []*big.Int
	Options     [][]byte
	Source      uint64
	Destination uint64
}

func NewTransferRequestMessage(source, destination uint64, data *TransferRequestData) *message.Message {
	return &message.Message{
		Source:      source,
		Destination: destination,
		Data:        data,
		Type:        TransferRequestMessage,
		Timestamp:   time.Now(),
	}
}

// ResendRequestData re-announces a recorded transfer through a new adapter
// set without moving principal again.
type ResendRequestData struct {
	ErrChn chan error `json:"-"`

	Controller common.Address
	Caller     common.Address
	TransferID common.Hash
	Adapters   []common.Address
	Fees       []*big.Int
	Options    [][]byte
	Source     uint64
}

func NewResendRequestMessage(source uint64, data *ResendRequestData) *message.Message {
	return &message.Message{
		Source:    source,
		Data:      data,
		Type:      ResendRequestMessage,
		Timestamp: time.Now(),
	}
}
