package bridge

import (
	"context"

	"github.com/supby/appbridge2mqtt/internal/types"
)

// AttributeReader serves attribute reads for the whole endpoint address space.
// Endpoints below the fixed endpoint count are answered with the empty string,
// which makes the caller fall back to its generated defaults; reads for
// dynamically registered endpoints are delegated to the endpoint manager.
// A failure of any kind on the delegated path collapses to the same empty
// string, never to an error.
type AttributeReader interface {
	Read(ctx context.Context, path types.AttributePath) string
	SubscribeOnAttributeRead(callback func(rec types.AttributeReadRecord))
}
