// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package adapters_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/crosslinktech/crosslink-relay/access"
	"github.com/crosslinktech/crosslink-relay/adapters"
	mock_adapters "github.com/crosslinktech/crosslink-relay/adapters/mock"
	"github.com/crosslinktech/crosslink-relay/cache"
	"github.com/crosslinktech/crosslink-relay/ledger"
	"github.com/crosslinktech/crosslink-relay/relay"
	"github.com/crosslinktech/crosslink-relay/store"
)

type memoryKV struct {
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) GetByKey(key []byte) ([]byte, error) {
	b, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("key not found")
	}
	return b, nil
}

func (m *memoryKV) SetByKey(key []byte, value []byte) error {
	m.data[string(key)] = value
	return nil
}

type AdapterTestSuite struct {
	suite.Suite

	adapter       *adapters.Adapter
	mockTransport *mock_adapters.MockTransport
	mockHandler   *mock_adapters.MockInboundHandler
	native        *ledger.TokenLedger
	deliveries    *cache.DeliveryCache

	admin        common.Address
	caller       common.Address
	feeRecipient common.Address
	adapterAddr  common.Address
	trustedAddr  common.Address
	destination  common.Address
	controller   common.Address
}

func TestRunAdapterTestSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func (s *AdapterTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockTransport = mock_adapters.NewMockTransport(ctrl)
	s.mockHandler = mock_adapters.NewMockInboundHandler(ctrl)

	s.admin = common.HexToAddress("0x01")
	s.caller = common.HexToAddress("0x02")
	s.feeRecipient = common.HexToAddress("0x03")
	s.adapterAddr = common.HexToAddress("0x04")
	s.trustedAddr = common.HexToAddress("0x05")
	s.destination = common.HexToAddress("0x06")
	s.controller = common.HexToAddress("0x07")

	s.native = ledger.NewTokenLedger("ETH")
	_ = s.native.Mint(s.caller, big.NewInt(10_000))

	s.deliveries = cache.NewDeliveryCache(s.adapterAddr, store.NewTransferStore(newMemoryKV()))

	acl := access.NewControl(s.admin)

	var err error
	s.adapter, err = adapters.NewAdapter(
		adapters.Config{
			Name:         "mocknet",
			Address:      s.adapterAddr,
			FeeBps:       1000, // 1%
			MinimumGas:   big.NewInt(50),
			FeeRecipient: s.feeRecipient,
			OptionsKind:  adapters.OptionsRefundGas,
		},
		s.mockTransport,
		s.native,
		s.deliveries,
		acl,
		nil,
	)
	s.Nil(err)

	s.Nil(s.adapter.SetDomainIDs(s.admin, []uint64{5}, []uint64{100}))
	s.Nil(s.adapter.SetTrustedAdapter(s.admin, 100, s.trustedAddr))
	s.adapter.RegisterController(s.controller, s.mockHandler)
}

func (s *AdapterTestSuite) TearDownTest() {
	s.deliveries.Stop()
}

func (s *AdapterTestSuite) envelope(msg []byte) []byte {
	payload, err := relay.EncodeBridgedMessage(&relay.BridgedMessage{
		Message:          msg,
		OriginController: s.trustedAddr,
		DestController:   s.controller,
	})
	s.Nil(err)
	return payload
}

func (s *AdapterTestSuite) Test_RelayMessage_UnsupportedChain() {
	_, err := s.adapter.RelayMessage(
		context.Background(), s.caller, 999, s.destination, big.NewInt(100), nil, []byte("msg"),
	)

	s.ErrorIs(err, relay.ErrInvalidParams)
}

func (s *AdapterTestSuite) Test_RelayMessage_FeeTooLow() {
	s.mockTransport.EXPECT().Quote(gomock.Any(), uint64(5), gomock.Any(), uint64(0)).Return(big.NewInt(1000), nil)

	// required = 1000 transport + 10 protocol + 50 minimum gas
	_, err := s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, big.NewInt(1059), nil, []byte("msg"),
	)

	var feeErr *relay.FeeTooLowError
	s.True(errors.As(err, &feeErr))
	s.Equal(big.NewInt(1060), feeErr.Required)
	s.Equal(big.NewInt(10_000), s.native.BalanceOf(s.caller))
	s.Equal(big.NewInt(0), s.native.BalanceOf(s.feeRecipient))
}

func (s *AdapterTestSuite) Test_RelayMessage_RefundExactness() {
	s.mockTransport.EXPECT().Quote(gomock.Any(), uint64(5), gomock.Any(), uint64(0)).Return(big.NewInt(1000), nil)
	s.mockTransport.EXPECT().Send(gomock.Any(), uint64(5), s.trustedAddr, gomock.Any(), big.NewInt(1000), uint64(0)).
		Return(common.HexToHash("0xaa"), nil)

	id, err := s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, big.NewInt(1500), nil, []byte("msg"),
	)

	s.Nil(err)
	s.Equal(common.HexToHash("0xaa"), id)
	// the 440 excess over the 1060 requirement came straight back
	s.Equal(big.NewInt(8940), s.native.BalanceOf(s.caller))
	// protocol fee plus flat minimum gas
	s.Equal(big.NewInt(60), s.native.BalanceOf(s.feeRecipient))
	// nothing stranded in escrow
	s.Equal(big.NewInt(0), s.native.BalanceOf(s.adapterAddr))
}

func (s *AdapterTestSuite) Test_RelayMessage_ExplicitRefundAddress() {
	refund := common.HexToAddress("0x42")
	options, err := adapters.EncodeOptions(adapters.OptionsRefundGas, &adapters.Options{
		Refund:   refund,
		GasLimit: 200_000,
	})
	s.Nil(err)

	s.mockTransport.EXPECT().Quote(gomock.Any(), uint64(5), gomock.Any(), uint64(200_000)).Return(big.NewInt(1000), nil)
	s.mockTransport.EXPECT().Send(gomock.Any(), uint64(5), s.trustedAddr, gomock.Any(), big.NewInt(1000), uint64(200_000)).
		Return(common.HexToHash("0xaa"), nil)

	_, err = s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, big.NewInt(1500), options, []byte("msg"),
	)

	s.Nil(err)
	s.Equal(big.NewInt(440), s.native.BalanceOf(refund))
	s.Equal(big.NewInt(8500), s.native.BalanceOf(s.caller))
}

func (s *AdapterTestSuite) Test_RelayMessage_TransportFailureRollsBack() {
	s.mockTransport.EXPECT().Quote(gomock.Any(), uint64(5), gomock.Any(), uint64(0)).Return(big.NewInt(1000), nil)
	s.mockTransport.EXPECT().Send(gomock.Any(), uint64(5), s.trustedAddr, gomock.Any(), big.NewInt(1000), uint64(0)).
		Return(common.Hash{}, errors.New("bridge offline"))

	_, err := s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, big.NewInt(1500), nil, []byte("msg"),
	)

	var transportErr *relay.TransportError
	s.True(errors.As(err, &transportErr))
	s.Equal("mocknet", transportErr.Transport)
	s.Equal(big.NewInt(10_000), s.native.BalanceOf(s.caller))
	s.Equal(big.NewInt(0), s.native.BalanceOf(s.feeRecipient))
}

func (s *AdapterTestSuite) Test_RelayMessage_Paused() {
	s.Nil(s.adapter.Pause(s.admin))

	_, err := s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, big.NewInt(1500), nil, []byte("msg"),
	)

	s.ErrorIs(err, relay.ErrPaused)
}

func (s *AdapterTestSuite) Test_QuoteMessage_MatchesRelayRequirement() {
	s.mockTransport.EXPECT().Quote(gomock.Any(), uint64(5), gomock.Any(), uint64(0)).Return(big.NewInt(1000), nil).Times(2)

	quote, err := s.adapter.QuoteMessage(context.Background(), 100, nil, []byte("msg"))
	s.Nil(err)
	s.Equal(big.NewInt(1060), quote)

	// exactly the quoted value must go through with zero refund
	s.mockTransport.EXPECT().Send(gomock.Any(), uint64(5), s.trustedAddr, gomock.Any(), big.NewInt(1000), uint64(0)).
		Return(common.HexToHash("0xaa"), nil)

	_, err = s.adapter.RelayMessage(
		context.Background(), s.caller, 100, s.destination, quote, nil, []byte("msg"),
	)
	s.Nil(err)
	s.Equal(big.NewInt(8940), s.native.BalanceOf(s.caller))
}

func (s *AdapterTestSuite) Test_ReceiveMessage_UntrustedOrigin() {
	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 5,
		OriginSender: common.HexToAddress("0x99"),
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      s.envelope([]byte("msg")),
	}, nil)

	err := s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))

	s.ErrorIs(err, relay.ErrUnauthorised)
}

func (s *AdapterTestSuite) Test_ReceiveMessage_UnknownOriginDomain() {
	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 77,
		OriginSender: s.trustedAddr,
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      s.envelope([]byte("msg")),
	}, nil)

	err := s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))

	s.ErrorIs(err, relay.ErrInvalidParams)
}

func (s *AdapterTestSuite) Test_ReceiveMessage_DispatchesToController() {
	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 5,
		OriginSender: s.trustedAddr,
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      s.envelope([]byte("msg")),
	}, nil)
	s.mockHandler.EXPECT().ReceiveMessage(
		gomock.Any(), s.adapterAddr, []byte("msg"), uint64(100), s.trustedAddr,
	).Return(nil)

	err := s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))

	s.Nil(err)
}

func (s *AdapterTestSuite) Test_ReceiveMessage_ReplayRejected() {
	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 5,
		OriginSender: s.trustedAddr,
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      s.envelope([]byte("msg")),
	}, nil).Times(2)
	s.mockHandler.EXPECT().ReceiveMessage(
		gomock.Any(), s.adapterAddr, []byte("msg"), uint64(100), s.trustedAddr,
	).Return(nil)

	s.Nil(s.adapter.ReceiveMessage(context.Background(), []byte("evidence")))

	err := s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))
	s.ErrorIs(err, relay.ErrAlreadyDelivered)
}

func (s *AdapterTestSuite) Test_ReceiveMessage_HandlerErrorNotRecorded() {
	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 5,
		OriginSender: s.trustedAddr,
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      s.envelope([]byte("msg")),
	}, nil).Times(2)
	gomock.InOrder(
		s.mockHandler.EXPECT().ReceiveMessage(
			gomock.Any(), s.adapterAddr, []byte("msg"), uint64(100), s.trustedAddr,
		).Return(errors.New("limit exceeded")),
		s.mockHandler.EXPECT().ReceiveMessage(
			gomock.Any(), s.adapterAddr, []byte("msg"), uint64(100), s.trustedAddr,
		).Return(nil),
	)

	s.NotNil(s.adapter.ReceiveMessage(context.Background(), []byte("evidence")))

	// the failed delivery was not recorded, redelivery succeeds
	s.Nil(s.adapter.ReceiveMessage(context.Background(), []byte("evidence")))
}

func (s *AdapterTestSuite) Test_ReceiveMessage_UnknownController() {
	payload, err := relay.EncodeBridgedMessage(&relay.BridgedMessage{
		Message:          []byte("msg"),
		OriginController: s.trustedAddr,
		DestController:   common.HexToAddress("0x98"),
	})
	s.Nil(err)

	s.mockTransport.EXPECT().VerifyOrigin(gomock.Any(), []byte("evidence")).Return(&adapters.Delivery{
		OriginDomain: 5,
		OriginSender: s.trustedAddr,
		DeliveryID:   common.HexToHash("0xbb"),
		Payload:      payload,
	}, nil)

	err = s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))

	s.ErrorIs(err, relay.ErrNotWhitelisted)
}

func (s *AdapterTestSuite) Test_ReceiveMessage_Paused() {
	s.Nil(s.adapter.Pause(s.admin))

	err := s.adapter.ReceiveMessage(context.Background(), []byte("evidence"))

	s.ErrorIs(err, relay.ErrPaused)
}

func (s *AdapterTestSuite) Test_SetDomainIDs_LengthMismatch() {
	err := s.adapter.SetDomainIDs(s.admin, []uint64{1, 2}, []uint64{100})

	s.ErrorIs(err, relay.ErrLengthMismatch)
}

func (s *AdapterTestSuite) Test_SetDomainIDs_NonAdmin() {
	err := s.adapter.SetDomainIDs(s.caller, []uint64{1}, []uint64{100})

	s.ErrorIs(err, relay.ErrUnauthorised)
}

func (s *AdapterTestSuite) Test_IsChainIDSupported() {
	s.True(s.adapter.IsChainIDSupported(100))
	s.False(s.adapter.IsChainIDSupported(999))

	s.Nil(s.adapter.SetTrustedAdapter(s.admin, 100, common.Address{}))
	s.False(s.adapter.IsChainIDSupported(100))
}
