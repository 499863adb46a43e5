package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	tracerName = "github.com/fd1az/campus-rewards/business/wallet/app"
	meterName  = "github.com/fd1az/campus-rewards/business/wallet/app"
)

type sessionMetrics struct {
	connectAttempts  metric.Int64Counter
	connectionState  metric.Int64Gauge
	rewards          metric.Int64Counter
	balanceRefreshes metric.Int64Counter
}

func newSessionMetrics() (*sessionMetrics, error) {
	meter := otel.Meter(meterName)
	m := &sessionMetrics{}
	var err error

	m.connectAttempts, err = meter.Int64Counter(
		"wallet_connect_attempts_total",
		metric.WithDescription("Wallet connect attempts by mode and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.connectionState, err = meter.Int64Gauge(
		"wallet_connection_state",
		metric.WithDescription("Wallet connection state (0=disconnected, 1=connecting, 2=connected)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return nil, err
	}

	m.rewards, err = meter.Int64Counter(
		"wallet_rewards_total",
		metric.WithDescription("Rewards recorded by status"),
		metric.WithUnit("{reward}"),
	)
	if err != nil {
		return nil, err
	}

	m.balanceRefreshes, err = meter.Int64Counter(
		"wallet_balance_refresh_total",
		metric.WithDescription("Balance recomputations"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
