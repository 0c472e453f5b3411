package mqtt

import (
	"fmt"
	"log"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/logger"
)

type MqttClient interface {
	Dispose()
	Publish(subTopic string, data []byte)
	Subscribe(callback func(topic string, message []byte))
	UnSubscribe()
}

func NewClient(config *configuration.Configuration) (MqttClient, func()) {
	retClient := defaultMqttClient{
		configuration: config,
		logger:        logger.GetLogger("[MQTT Client]", config.LogLevel),
	}

	mqttlib.ERROR = log.New(retClient.logger.GetWriter(), "[MQTT Client]", 0)

	opts := mqttlib.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", config.MqttConfiguration.Address, config.MqttConfiguration.Port))
	opts.SetClientID(config.MqttConfiguration.RootTopic)
	opts.SetUsername(config.MqttConfiguration.Username)
	opts.SetPassword(config.MqttConfiguration.Password)
	opts.AutoReconnect = true
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)
	opts.OnConnect = func(client mqttlib.Client) {
		retClient.logger.Info("Connected")
	}
	opts.OnConnectionLost = func(client mqttlib.Client, err error) {
		retClient.logger.Warn("Connect lost: %v", err)
	}

	innerClient := mqttlib.NewClient(opts)

	if token := innerClient.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}

	if token := innerClient.Subscribe(fmt.Sprintf("%s/#", config.MqttConfiguration.RootTopic), 0, retClient.onMessageReceived); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}

	retClient.logger.Info("Connected to MQTT on '%v:%v'", config.MqttConfiguration.Address, config.MqttConfiguration.Port)
	innerClient.Publish(fmt.Sprintf("%v/gateway/status", config.MqttConfiguration.RootTopic), 0, false, "Online")

	retClient.innerClient = innerClient

	return &retClient, func() { retClient.Dispose() }
}

type defaultMqttClient struct {
	innerClient     mqttlib.Client
	configuration   *configuration.Configuration
	logger          logger.Logger
	messageCallback func(topic string, message []byte)
}

func (cl *defaultMqttClient) Dispose() {
	cl.innerClient.Disconnect(250)
}

func (cl *defaultMqttClient) Publish(subTopic string, data []byte) {
	cl.innerClient.Publish(fmt.Sprintf("%s/%s", cl.configuration.MqttConfiguration.RootTopic, subTopic), 0, false, data)
}

func (cl *defaultMqttClient) Subscribe(callback func(topic string, message []byte)) {
	cl.messageCallback = callback
}

func (cl *defaultMqttClient) UnSubscribe() {
	cl.messageCallback = nil
}

func (cl *defaultMqttClient) onMessageReceived(client mqttlib.Client, msg mqttlib.Message) {
	if cl.messageCallback != nil {
		go cl.messageCallback(msg.Topic(), msg.Payload())
	}
}
