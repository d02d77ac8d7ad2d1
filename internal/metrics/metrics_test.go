package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCheckout(t *testing.T) {
	before := testutil.ToFloat64(checkouts.WithLabelValues(CheckoutEmpty))

	RecordCheckout(CheckoutEmpty)
	RecordCheckout(CheckoutEmpty)

	assert.Equal(t, before+2, testutil.ToFloat64(checkouts.WithLabelValues(CheckoutEmpty)))
}

func TestRequestFinished(t *testing.T) {
	RequestStarted()
	RequestFinished("GET", "", "404", 0.01)

	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}
