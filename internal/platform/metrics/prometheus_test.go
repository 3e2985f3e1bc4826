package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerAcceptsHyphenatedServiceName(t *testing.T) {
	var m *Manager
	require.NotPanics(t, func() {
		m = NewManager("marketplace-service")
	})

	m.ListingsCreatedTotal.Inc()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "marketplace_service_listings_created_total")
}

func TestNewManagerRegistersAllMetrics(t *testing.T) {
	m := NewManager("marketplace")

	m.ListingsCreatedTotal.Inc()
	m.ListingsSoldTotal.Inc()
	m.FeedConsumesTotal.WithLabelValues("like").Inc()
	m.FeedUndosTotal.Inc()
	m.WishlistAddsTotal.Inc()
	m.APIErrorsTotal.WithLabelValues("/feed", "Bad Request").Inc()
	m.APILatency.WithLabelValues("/feed").Observe(0.02)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}
