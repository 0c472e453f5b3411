package bridge

import "github.com/supby/appbridge2mqtt/internal/types"

type route int

const (
	// routeShortCircuit: the endpoint is statically defined, answer with the
	// empty string without contacting the endpoint manager.
	routeShortCircuit route = iota
	routeDelegate
)

type routingGuard struct {
	fixedEndpointCount uint16
}

func (g routingGuard) route(path types.AttributePath) route {
	if path.Endpoint < g.fixedEndpointCount {
		return routeShortCircuit
	}

	return routeDelegate
}
