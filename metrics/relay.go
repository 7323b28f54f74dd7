package metrics

import (
	"context"
	"math/big"

	"go.opentelemetry.io/otel/metric"
)

// RelayMetrics tracks the relay pipeline. A nil receiver is a no-op so
// metrics stay optional in tests and library use.
type RelayMetrics struct {
	opts metric.MeasurementOption

	relayedCounter  metric.Int64Counter
	deliveryCounter metric.Int64Counter
	replayCounter   metric.Int64Counter
	feeHistogram    metric.Float64Histogram
}

// NewRelayMetrics initializes metrics for relay dispatch and delivery
func NewRelayMetrics(meter metric.Meter, opts metric.MeasurementOption) (*RelayMetrics, error) {
	relayedCounter, err := meter.Int64Counter(
		"relayer.MessagesRelayed",
		metric.WithDescription("Number of outbound messages handed to a bridge transport"),
	)
	if err != nil {
		return nil, err
	}

	deliveryCounter, err := meter.Int64Counter(
		"relayer.MessagesDelivered",
		metric.WithDescription("Number of inbound messages dispatched to a controller"),
	)
	if err != nil {
		return nil, err
	}

	replayCounter, err := meter.Int64Counter(
		"relayer.ReplaysRejected",
		metric.WithDescription("Number of duplicate inbound deliveries rejected by the replay guard"),
	)
	if err != nil {
		return nil, err
	}

	feeHistogram, err := meter.Float64Histogram("relayer.RelayFee")
	if err != nil {
		return nil, err
	}

	return &RelayMetrics{
		opts:            opts,
		relayedCounter:  relayedCounter,
		deliveryCounter: deliveryCounter,
		replayCounter:   replayCounter,
		feeHistogram:    feeHistogram,
	}, nil
}

func (m *RelayMetrics) TrackRelay(adapter string, destChainID uint64, fee *big.Int) {
	if m == nil {
		return
	}

	m.relayedCounter.Add(context.Background(), 1, m.opts)
	f, _ := new(big.Float).SetInt(fee).Float64()
	m.feeHistogram.Record(context.Background(), f, m.opts)
}

func (m *RelayMetrics) TrackDelivery(adapter string, originChainID uint64) {
	if m == nil {
		return
	}

	m.deliveryCounter.Add(context.Background(), 1, m.opts)
}

func (m *RelayMetrics) TrackReplayRejected(adapter string) {
	if m == nil {
		return
	}

	m.replayCounter.Add(context.Background(), 1, m.opts)
}
