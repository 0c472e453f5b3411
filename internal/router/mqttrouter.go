package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/db"
	"github.com/supby/appbridge2mqtt/internal/logger"
	"github.com/supby/appbridge2mqtt/internal/mqtt"
	"github.com/supby/appbridge2mqtt/internal/types"
)

const (
	MQTT_ATTRIBUTE_READ = "read"
	MQTT_ATTRIBUTES     = "attributes"
	MQTT_GET_ATTRIBUTES = "get_attributes"
	MQTT_GATEWAY        = "gateway"
)

type mqttRouter struct {
	mqttClient           mqtt.MqttClient
	configurationService configuration.ConfigurationService
	store                db.AttributeStore
	onReadMessage        func(msg types.AttributeReadMessage)
	logger               logger.Logger
}

func NewMQTTRouter(
	configurationService configuration.ConfigurationService,
	mqttClient mqtt.MqttClient,
	store db.AttributeStore) MQTTRouter {

	ret := mqttRouter{
		mqttClient:           mqttClient,
		configurationService: configurationService,
		store:                store,
		logger:               logger.GetLogger("[MQTT Router]", configurationService.GetConfiguration().LogLevel),
	}

	mqttClient.Subscribe(ret.mqttMessage)

	return &ret
}

func (h *mqttRouter) PublishReadResponse(path types.AttributePath, msg interface{}) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal read response: %v", err)
		return
	}

	h.mqttClient.Publish(fmt.Sprintf("%d/%s", path.Endpoint, MQTT_ATTRIBUTES), jsonData)
}

func (h *mqttRouter) PublishGatewayMessage(msg interface{}, subtopic string) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal gateway message: %v", err)
		return
	}

	h.mqttClient.Publish(fmt.Sprintf("%s/%s", MQTT_GATEWAY, subtopic), jsonData)
}

func (h *mqttRouter) SubscribeOnReadMessage(callback func(msg types.AttributeReadMessage)) {
	h.onReadMessage = callback
}

func (h *mqttRouter) mqttMessage(topic string, message []byte) {
	topicParts := strings.Split(topic, "/")
	if len(topicParts) < 3 {
		return
	}

	if topicParts[1] == MQTT_GATEWAY {
		h.handleGatewayMessage(topicParts[2], message)
		return
	}

	h.handleEndpointMessage(topicParts[1], topicParts[2], message)
}

func (h *mqttRouter) handleGatewayMessage(command string, message []byte) {
	if command == MQTT_GET_ATTRIBUTES {
		h.publishStoredAttributes()
	}
}

func (h *mqttRouter) publishStoredAttributes() {
	records, err := h.store.GetRecords(context.Background())
	if err != nil {
		h.logger.Error("Error reading stored attributes: %v", err)
		return
	}

	h.PublishGatewayMessage(records, MQTT_ATTRIBUTES)
}

func (h *mqttRouter) handleEndpointMessage(endpointStr string, command string, message []byte) {
	if command != MQTT_ATTRIBUTE_READ {
		return
	}

	endpoint, err := strconv.ParseUint(endpointStr, 10, 16)
	if err != nil {
		h.logger.Error("Error parsing endpoint id '%v': %v", endpointStr, err)
		return
	}

	var readMsg mqtt.AttributeReadMessage
	if err := json.Unmarshal(message, &readMsg); err != nil {
		h.logger.Error("Error unmarshal READ message: %v", err)
		return
	}

	h.logger.Debug("READ message received. Endpoint:%v, Cluster:%v, Attribute:%v", endpoint, readMsg.Cluster, readMsg.Attribute)

	if h.onReadMessage != nil {
		h.onReadMessage(types.AttributeReadMessage{
			Endpoint:  uint16(endpoint),
			Cluster:   readMsg.Cluster,
			Attribute: readMsg.Attribute,
		})
	}
}
