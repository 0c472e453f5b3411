package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/supby/appbridge2mqtt/internal/bridge"
	"github.com/supby/appbridge2mqtt/internal/clusterdef"
	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/db"
	"github.com/supby/appbridge2mqtt/internal/endpointmgr"
	"github.com/supby/appbridge2mqtt/internal/logger"
	"github.com/supby/appbridge2mqtt/internal/mqtt"
	"github.com/supby/appbridge2mqtt/internal/router"
	"github.com/supby/appbridge2mqtt/internal/types"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logger.GetLogger("[main]", logger.LogLevelError)

	var configFile = flag.String("c", "./configuration.yaml", "path to config file name")
	flag.Parse()

	configService, err := configuration.Init(*configFile)
	if err != nil {
		logger.Error("Configuration initialization error: %v\n", err)
		os.Exit(1)
	}

	cfg := configService.GetConfiguration()

	store, err := db.NewAttributeStore("./data")
	if err != nil {
		logger.Error("db initialization error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	clusterDefService := clusterdef.New("./clusterdef/clusterdef.json")

	manager, err := endpointmgr.NewMQTTManager(cfg.ManagerConfiguration, cfg.LogLevel)
	if err != nil {
		logger.Error("endpoint manager initialization error: %v\n", err)
		os.Exit(1)
	}
	defer manager.Dispose()

	mqttClient, mqttDisconnect := mqtt.NewClient(&cfg)
	defer mqttDisconnect()

	mqttRouter := router.NewMQTTRouter(configService, mqttClient, store)
	attributeReader := bridge.NewAttributeReader(&cfg, manager, clusterDefService)

	setupSubscriptions(ctx, mqttRouter, attributeReader, clusterDefService, store)

	waitForInterruptSignal()

	logger.Info("exiting app...")
}

func setupSubscriptions(
	ctx context.Context,
	mqttRouter router.MQTTRouter,
	attributeReader bridge.AttributeReader,
	clusterDefService clusterdef.ClusterDefService,
	store db.AttributeStore) {

	mqttRouter.SubscribeOnReadMessage(func(msg types.AttributeReadMessage) {
		path := types.AttributePath{
			Endpoint:  msg.Endpoint,
			Cluster:   msg.Cluster,
			Attribute: msg.Attribute,
		}

		value := attributeReader.Read(ctx, path)

		clusterDef := clusterDefService.GetById(msg.Cluster)
		mqttRouter.PublishReadResponse(path, mqtt.AttributeReadResponseMessage{
			Endpoint:      msg.Endpoint,
			Cluster:       msg.Cluster,
			ClusterName:   clusterDef.Name,
			Attribute:     msg.Attribute,
			AttributeName: clusterDef.Attributes[msg.Attribute].Name,
			Value:         value,
			Default:       value == "",
		})
	})

	attributeReader.SubscribeOnAttributeRead(func(rec types.AttributeReadRecord) {
		go store.SaveRecord(context.Background(), db.AttributeRecord{
			Endpoint:  rec.Endpoint,
			Cluster:   rec.Cluster,
			Attribute: rec.Attribute,
			Value:     rec.Value,
			UpdatedAt: rec.ReadAt,
		})
	})
}

func waitForInterruptSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	defer func() {
		signal.Stop(sigchan)
	}()
	<-sigchan
}
