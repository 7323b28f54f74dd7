package relay

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidParams is returned when a caller or admin supplies malformed
	// or unconfigured input. The call has no effect.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnauthorised is returned when the claimed origin of a call or
	// message fails a trust check.
	ErrUnauthorised = errors.New("unauthorised")
	// ErrNotWhitelisted is returned when a caller is not part of the
	// component's whitelist.
	ErrNotWhitelisted = errors.New("not whitelisted")
	// ErrLengthMismatch is returned when parallel adapter/fee/option slices
	// differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrPaused is returned when the component has been paused by an admin.
	ErrPaused = errors.New("paused")
	// ErrFeeTransferFailed is returned when a fee or refund payout cannot be
	// completed. The whole operation is aborted.
	ErrFeeTransferFailed = errors.New("fee transfer failed")
	// ErrFeeOnTransferToken is returned when a token delivers less than the
	// requested amount on pull.
	ErrFeeOnTransferToken = errors.New("fee-on-transfer token not supported")
	// ErrLimitExceeded is returned when a transfer would breach the
	// configured per-chain ceiling.
	ErrLimitExceeded = errors.New("transfer limit exceeded")
	// ErrAlreadyDelivered is returned on a duplicate inbound delivery id.
	ErrAlreadyDelivered = errors.New("message already delivered")
	// ErrUnknownTransfer is returned when a resend references a transfer id
	// with no recorded parameters.
	ErrUnknownTransfer = errors.New("unknown transfer")
	// ErrInvalidProof is returned when transport evidence fails validation.
	ErrInvalidProof = errors.New("invalid proof")
)

// FeeTooLowError is returned when the supplied value does not cover the
// transport fee plus the protocol fee.
type FeeTooLowError struct {
	Required *big.Int
	Supplied *big.Int
}

func (e *FeeTooLowError) Error() string {
	return fmt.Sprintf("fee too low: required %s, supplied %s", e.Required, e.Supplied)
}

// TransportError wraps a failure of the underlying bridge transport,
// preserving the transport's own reason.
type TransportError struct {
	Transport string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %s", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UntrustedOriginError reports an inbound message whose verified origin does
// not match the trusted adapter configured for the origin chain.
type UntrustedOriginError struct {
	ChainID uint64
	Origin  common.Address
}

func (e *UntrustedOriginError) Error() string {
	return fmt.Sprintf("origin %s not trusted for chain %d", e.Origin, e.ChainID)
}

func (e *UntrustedOriginError) Unwrap() error {
	return ErrUnauthorised
}
