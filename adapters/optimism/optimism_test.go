// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package optimism_test

import (
	"context"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/adapters/optimism"
	"github.com/crosslinktech/crosslink-relay/relay"
)

type fakeMessenger struct {
	xDomainSender common.Address
	err           error

	target   common.Address
	message  []byte
	gasLimit uint32
}

func (f *fakeMessenger) SendMessage(ctx context.Context, target common.Address, message []byte, gasLimit uint32) error {
	f.target = target
	f.message = message
	f.gasLimit = gasLimit
	return f.err
}

func (f *fakeMessenger) XDomainMessageSender(ctx context.Context) (common.Address, error) {
	return f.xDomainSender, f.err
}

type TransportTestSuite struct {
	suite.Suite

	messenger     *fakeMessenger
	messengerAddr common.Address
	transport     *optimism.Transport
}

func TestRunTransportTestSuite(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}

func (s *TransportTestSuite) SetupTest() {
	s.messenger = &fakeMessenger{xDomainSender: common.HexToAddress("0x03")}
	s.messengerAddr = common.HexToAddress("0x0b")
	s.transport = optimism.NewTransport(s.messenger, s.messengerAddr, 10)
}

func (s *TransportTestSuite) Test_Send_RejectsNonPeerDomain() {
	_, err := s.transport.Send(
		context.Background(), 99, common.HexToAddress("0x02"), []byte{0xde, 0xad},
		new(big.Int), 200_000,
	)

	s.ErrorIs(err, relay.ErrInvalidParams)
}

func (s *TransportTestSuite) Test_Send_DispatchesToPeer() {
	destination := common.HexToAddress("0x02")

	id, err := s.transport.Send(
		context.Background(), 10, destination, []byte{0xde, 0xad},
		new(big.Int), 200_000,
	)

	s.Nil(err)
	s.Equal(common.Hash{}, id)
	s.Equal(destination, s.messenger.target)
	s.Equal([]byte{0xde, 0xad}, s.messenger.message)
	s.Equal(uint32(200_000), s.messenger.gasLimit)
}

func (s *TransportTestSuite) Test_VerifyOrigin_WrongCaller() {
	evidence, err := optimism.EncodeEvidence(&optimism.Evidence{
		Nonce:    7,
		CallData: []byte{0xde, 0xad},
		Caller:   common.HexToAddress("0xbad"),
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
	callData := []byte{0xde, 0xad}
	evidence, err := optimism.EncodeEvidence(&optimism.Evidence{
		Nonce:    7,
		CallData: callData,
		Caller:   s.messengerAddr,
	})
	s.Nil(err)

	delivery, err := s.transport.VerifyOrigin(context.Background(), evidence)

	s.Nil(err)
	s.Equal(uint64(10), delivery.OriginDomain)
	s.Equal(common.HexToAddress("0x03"), delivery.OriginSender)
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, 7)
	s.Equal(crypto.Keccak256Hash(nonce, callData), delivery.DeliveryID)
	s.Equal(callData, delivery.Payload)
}
