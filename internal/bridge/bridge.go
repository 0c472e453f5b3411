package bridge

import (
	"context"
	"time"

	"github.com/supby/appbridge2mqtt/internal/clusterdef"
	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/endpointmgr"
	"github.com/supby/appbridge2mqtt/internal/logger"
	"github.com/supby/appbridge2mqtt/internal/types"
)

type delegateBridge struct {
	guard           routingGuard
	manager         endpointmgr.Manager
	clusterDefs     clusterdef.ClusterDefService
	onAttributeRead func(rec types.AttributeReadRecord)
	logger          logger.Logger
}

func NewAttributeReader(
	cfg *configuration.Configuration,
	manager endpointmgr.Manager,
	clusterDefs clusterdef.ClusterDefService) AttributeReader {

	ret := delegateBridge{
		guard:       routingGuard{fixedEndpointCount: cfg.AppPlatformConfiguration.FixedEndpointCount},
		manager:     manager,
		clusterDefs: clusterDefs,
		logger:      logger.GetLogger("[Attribute Bridge]", cfg.LogLevel),
	}

	return &ret
}

func (b *delegateBridge) SubscribeOnAttributeRead(callback func(rec types.AttributeReadRecord)) {
	b.onAttributeRead = callback
}

func (b *delegateBridge) Read(ctx context.Context, path types.AttributePath) string {
	if b.guard.route(path) == routeShortCircuit {
		// Blank result makes the caller apply its generated defaults.
		return ""
	}

	b.logger.Debug("Read called for endpoint %d cluster %d (%v) attribute %d",
		path.Endpoint, path.Cluster, b.clusterDefs.GetById(path.Cluster).Name, path.Attribute)

	sess, err := b.manager.Attach(ctx)
	if err != nil {
		b.logger.Error("Error attaching to endpoint manager: %v", err)
		return ""
	}
	defer sess.Detach()

	value := sess.ReadAttribute(ctx, int32(path.Endpoint), int32(path.Cluster), int32(path.Attribute))
	if sess.Faulted() {
		b.logger.Error("Endpoint manager fault reading endpoint %d cluster %d attribute %d: %v",
			path.Endpoint, path.Cluster, path.Attribute, sess.Fault())
		sess.ClearFault()
		return ""
	}

	if value == nil {
		// The manager answered without a value and without raising a fault.
		b.logger.Warn("Endpoint manager returned no value for endpoint %d cluster %d attribute %d",
			path.Endpoint, path.Cluster, path.Attribute)
		return ""
	}
	defer value.Release()

	ret := value.CopyString()

	b.logger.Debug("Read got response %v", ret)

	if b.onAttributeRead != nil {
		b.onAttributeRead(types.AttributeReadRecord{
			Endpoint:  path.Endpoint,
			Cluster:   path.Cluster,
			Attribute: path.Attribute,
			Value:     ret,
			ReadAt:    time.Now(),
		})
	}

	return ret
}
