package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/supby/appbridge2mqtt/internal/types"
)

func TestRouteFixedEndpoints(t *testing.T) {
	guard := routingGuard{fixedEndpointCount: 2}

	assert.Equal(t, routeShortCircuit, guard.route(types.AttributePath{Endpoint: 0, Cluster: 6, Attribute: 0}))
	assert.Equal(t, routeShortCircuit, guard.route(types.AttributePath{Endpoint: 1, Cluster: 1290, Attribute: 0}))
}

func TestRouteDynamicEndpoints(t *testing.T) {
	guard := routingGuard{fixedEndpointCount: 2}

	assert.Equal(t, routeDelegate, guard.route(types.AttributePath{Endpoint: 2}))
	assert.Equal(t, routeDelegate, guard.route(types.AttributePath{Endpoint: 5, Cluster: 1290}))
	assert.Equal(t, routeDelegate, guard.route(types.AttributePath{Endpoint: 65535}))
}

func TestRouteZeroFixedEndpointsDelegatesAll(t *testing.T) {
	guard := routingGuard{fixedEndpointCount: 0}

	assert.Equal(t, routeDelegate, guard.route(types.AttributePath{Endpoint: 0}))
}
