package metrics

import (
	"fmt"
	"testing"

	"auction-engine/internal/auctionerrors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveBid(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		label string
	}{
		{name: "accepted", err: nil, label: "accepted"},
		{name: "too_low", err: fmt.Errorf("wrapped: %w", auctionerrors.ErrBidTooLow), label: "bid_too_low"},
		{name: "funds", err: auctionerrors.ErrInsufficientFunds, label: "insufficient_funds"},
		{name: "unknown", err: fmt.Errorf("boom"), label: "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := testutil.ToFloat64(BidsTotal.WithLabelValues(tc.label))
			ObserveBid(tc.err)
			require.Equal(t, before+1, testutil.ToFloat64(BidsTotal.WithLabelValues(tc.label)))
		})
	}
}

func TestTime(t *testing.T) {
	end := Time("test_op")
	end()
	require.Equal(t, 1, testutil.CollectAndCount(commandHistogram, "auction_engine_command_seconds"))
}
