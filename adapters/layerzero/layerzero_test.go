// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package layerzero_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/adapters/layerzero"
	"github.com/crosslinktech/crosslink-relay/relay"
)

type fakeEndpoint struct {
	fee *big.Int
	err error

	dstEid   uint32
	receiver common.Hash
	message  []byte
	paidFee  *big.Int
}

func (f *fakeEndpoint) Quote(ctx context.Context, dstEid uint32, message []byte, gasLimit uint64) (*big.Int, error) {
	return f.fee, f.err
}

func (f *fakeEndpoint) Send(ctx context.Context, dstEid uint32, receiver common.Hash, message []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	f.dstEid = dstEid
	f.receiver = receiver
	f.message = message
	f.paidFee = fee
	return common.HexToHash("0xbb"), f.err
}

type TransportTestSuite struct {
	suite.Suite

	endpoint     *fakeEndpoint
	endpointAddr common.Address
	transport    *layerzero.Transport
}

func TestRunTransportTestSuite(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}

func (s *TransportTestSuite) SetupTest() {
	s.endpoint = &fakeEndpoint{fee: big.NewInt(150000)}
	s.endpointAddr = common.HexToAddress("0x0c")
	s.transport = layerzero.NewTransport(s.endpoint, s.endpointAddr)
}

func (s *TransportTestSuite) Test_Send_PadsReceiverTo32Bytes() {
	destination := common.HexToAddress("0x02")

	id, err := s.transport.Send(
		context.Background(), 30101, destination, []byte{0xde, 0xad},
		big.NewInt(150000), 200_000,
	)

	s.Nil(err)
	s.Equal(common.HexToHash("0xbb"), id)
	s.Equal(uint32(30101), s.endpoint.dstEid)
	s.Equal(common.BytesToHash(destination.Bytes()), s.endpoint.receiver)
	s.Equal([]byte{0xde, 0xad}, s.endpoint.message)
	s.Equal(big.NewInt(150000), s.endpoint.paidFee)
}

func (s *TransportTestSuite) Test_VerifyOrigin_WrongCaller() {
	evidence, err := layerzero.EncodeEvidence(&layerzero.Evidence{
		SrcEid:  30101,
		Sender:  common.BytesToHash(common.HexToAddress("0x03").Bytes()),
		GUID:    common.HexToHash("0xaa"),
		Message: []byte{0xde, 0xad},
		Caller:  common.HexToAddress("0xbad"),
	})
	s.Nil(err)

	_, err = s.transport.VerifyOrigin(context.Background(), evidence)

	s.ErrorIs(err, relay.ErrUnauthorised)
}

func (s *TransportTestSuite) Test_VerifyOrigin_MalformedEvidence() {
	_, err := s.transport.VerifyOrigin(context.Background(), []byte("not json"))

	s.ErrorIs(err, relay.ErrInvalidParams)
}

func (s *TransportTestSuite) Test_VerifyOrigin_ValidDelivery() {
	sender := common.HexToAddress("0x03")
	evidence, err := layerzero.EncodeEvidence(&layerzero.Evidence{
		SrcEid:  30101,
		Sender:  common.BytesToHash(sender.Bytes()),
		Nonce:   7,
		GUID:    common.HexToHash("0xaa"),
		Message: []byte{0xde, 0xad},
		Caller:  s.endpointAddr,
	})
	s.Nil(err)

	delivery, err := s.transport.VerifyOrigin(context.Background(), evidence)

	s.Nil(err)
	s.Equal(uint64(30101), delivery.OriginDomain)
	s.Equal(sender, delivery.OriginSender)
	s.Equal(common.HexToHash("0xaa"), delivery.DeliveryID)
	s.Equal([]byte{0xde, 0xad}, delivery.Payload)
}
