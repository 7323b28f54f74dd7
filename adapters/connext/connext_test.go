// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package connext_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/adapters/connext"
	"github.com/crosslinktech/crosslink-relay/relay"
)

type fakeConnext struct {
	fee *big.Int
	err error

	destDomain uint32
	to         common.Address
	callData   []byte
	relayerFee *big.Int
}

func (f *fakeConnext) QuoteRelayerFee(ctx context.Context, destDomain uint32) (*big.Int, error) {
	return f.fee, f.err
}

func (f *fakeConnext) XCall(ctx context.Context, destDomain uint32, to common.Address, callData []byte, relayerFee *big.Int) (common.Hash, error) {
	f.destDomain = destDomain
	f.to = to
	f.callData = callData
	f.relayerFee = relayerFee
	return common.HexToHash("0xbb"), f.err
}

type TransportTestSuite struct {
	suite.Suite

	client    *fakeConnext
	endpoint  common.Address
	transport *connext.Transport
}

func TestRunTransportTestSuite(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}

func (s *TransportTestSuite) SetupTest() {
	s.client = &fakeConnext{fee: big.NewInt(150000)}
	s.endpoint = common.HexToAddress("0x0e")
	s.transport = connext.NewTransport(s.client, s.endpoint)
}

func (s *TransportTestSuite) Test_Send_DispatchesXCall() {
	destination := common.HexToAddress("0x02")

	id, err := s.transport.Send(
		context.Background(), 1886350457, destination, []byte{0xde, 0xad},
		big.NewInt(150000), 200_000,
	)

	s.Nil(err)
	s.Equal(common.HexToHash("0xbb"), id)
	s.Equal(uint32(1886350457), s.client.destDomain)
	s.Equal(destination, s.client.to)
	s.Equal([]byte{0xde, 0xad}, s.client.callData)
	s.Equal(big.NewInt(150000), s.client.relayerFee)
}

func (s *TransportTestSuite) Test_VerifyOrigin_WrongCaller() {
	evidence, err := connext.EncodeEvidence(&connext.Evidence{
		TransferID:   common.HexToHash("0xaa"),
		OriginSender: common.HexToAddress("0x03"),
		Origin:       1886350457,
		CallData:     []byte{0xde, 0xad},
		Caller:       common.HexToAddress("0xbad"),
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
	evidence, err := connext.EncodeEvidence(&connext.Evidence{
		TransferID:   common.HexToHash("0xaa"),
		OriginSender: sender,
		Origin:       1886350457,
		CallData:     []byte{0xde, 0xad},
		Caller:       s.endpoint,
	})
	s.Nil(err)

	delivery, err := s.transport.VerifyOrigin(context.Background(), evidence)

	s.Nil(err)
	s.Equal(uint64(1886350457), delivery.OriginDomain)
	s.Equal(sender, delivery.OriginSender)
	s.Equal(common.HexToHash("0xaa"), delivery.DeliveryID)
	s.Equal([]byte{0xde, 0xad}, delivery.Payload)
}
