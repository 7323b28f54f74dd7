package relay

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// BridgedMessage is the canonical envelope carried inside every
// bridge-specific payload. The envelope, not the transport frame, is what is
// authenticated end to end.
type BridgedMessage struct {
	Message          []byte
	OriginController common.Address
	DestController   common.Address
}

var envelopeArgs abi.Arguments

func init() {
	bytesType, _ := abi.NewType("bytes", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	envelopeArgs = abi.Arguments{
		{Name: "message", Type: bytesType},
		{Name: "originController", Type: addressType},
		{Name: "destController", Type: addressType},
	}
}

// EncodeBridgedMessage ABI-encodes the envelope for transport.
func EncodeBridgedMessage(m *BridgedMessage) ([]byte, error) {
	return envelopeArgs.Pack(m.Message, m.OriginController, m.DestController)
}

// DecodeBridgedMessage decodes a payload produced by EncodeBridgedMessage.
// The round trip is exact.
func DecodeBridgedMessage(payload []byte) (*BridgedMessage, error) {
	values, err := envelopeArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}

	m := new(BridgedMessage)
	m.Message = values[0].([]byte)
	m.OriginController = values[1].(common.Address)
	m.DestController = values[2].(common.Address)
	return m, nil
}
