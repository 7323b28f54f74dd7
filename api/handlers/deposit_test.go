package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/crosslinktech/crosslink-relay/api/handlers"
)

const (
	callerHex    = "0x92E9fC5Ba65B13B438bcD7A215Baf1C7689880a9"
	recipientHex = "0x4F4495243837681061C4743b74B3eEdf548D56A5"
)

type fakeDepositor struct {
	id  common.Hash
	err error

	caller      common.Address
	recipient   common.Address
	amount      *big.Int
	destChainID uint64
	data        []byte
}

func (f *fakeDepositor) Deposit(ctx context.Context, caller, recipient common.Address, amount *big.Int, destChainID uint64, data []byte) (common.Hash, error) {
	f.caller = caller
	f.recipient = recipient
	f.amount = amount
	f.destChainID = destChainID
	f.data = data
	return f.id, f.err
}

type DepositHandlerTestSuite struct {
	suite.Suite

	depositor *fakeDepositor
	handler   *handlers.DepositHandler
}

func TestRunDepositHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DepositHandlerTestSuite))
}

func (s *DepositHandlerTestSuite) SetupTest() {
	s.depositor = &fakeDepositor{id: common.HexToHash("0xabc1")}
	s.handler = handlers.NewDepositHandler(s.depositor)
}

func (s *DepositHandlerTestSuite) request(body map[string]interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	return httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader(raw))
}

func (s *DepositHandlerTestSuite) Test_HandleDeposit_InvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/deposits", bytes.NewReader([]byte("invalid")))
	recorder := httptest.NewRecorder()

	s.handler.HandleDeposit(recorder, req)

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *DepositHandlerTestSuite) Test_HandleDeposit_InvalidCaller() {
	recorder := httptest.NewRecorder()

	s.handler.HandleDeposit(recorder, s.request(map[string]interface{}{
		"caller":      "not-an-address",
		"recipient":   recipientHex,
		"amount":      "3000",
		"destChainId": 10,
	}))

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *DepositHandlerTestSuite) Test_HandleDeposit_MissingAmount() {
	recorder := httptest.NewRecorder()

	s.handler.HandleDeposit(recorder, s.request(map[string]interface{}{
		"caller":      callerHex,
		"recipient":   recipientHex,
		"destChainId": 10,
	}))

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *DepositHandlerTestSuite) Test_HandleDeposit_DepositorError() {
	s.depositor.err = fmt.Errorf("transfer amount exceeds balance")
	recorder := httptest.NewRecorder()

	s.handler.HandleDeposit(recorder, s.request(map[string]interface{}{
		"caller":      callerHex,
		"recipient":   recipientHex,
		"amount":      "3000",
		"destChainId": 10,
	}))

	s.Equal(http.StatusInternalServerError, recorder.Code)
}

func (s *DepositHandlerTestSuite) Test_HandleDeposit_ForwardsDeposit() {
	recorder := httptest.NewRecorder()

	s.handler.HandleDeposit(recorder, s.request(map[string]interface{}{
		"caller":      callerHex,
		"recipient":   recipientHex,
		"amount":      "3000",
		"destChainId": 10,
		"data":        "0xdeadbeef",
	}))

	s.Equal(http.StatusAccepted, recorder.Code)
	s.Equal(common.HexToAddress(callerHex), s.depositor.caller)
	s.Equal(common.HexToAddress(recipientHex), s.depositor.recipient)
	s.Equal(big.NewInt(3000), s.depositor.amount)
	s.Equal(uint64(10), s.depositor.destChainID)
	s.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, s.depositor.data)

	resp := &handlers.DepositResponse{}
	s.Nil(json.Unmarshal(recorder.Body.Bytes(), resp))
	s.Equal(common.HexToHash("0xabc1").Hex(), resp.DepositId)
}
