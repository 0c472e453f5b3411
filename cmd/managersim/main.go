// managersim is a standalone stand-in for the external endpoint manager.
// It answers attribute read requests from a yaml-defined table, so the bridge
// can be exercised end to end without a real application runtime.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"gopkg.in/yaml.v2"
)

type attributeEntry struct {
	Endpoint  int32  `yaml:"endpoint"`
	Cluster   int32  `yaml:"cluster"`
	Attribute int32  `yaml:"attribute"`
	Value     string `yaml:"value"`
	Fail      string `yaml:"fail"` // non-empty: raise this fault instead of answering
}

type simConfiguration struct {
	Address      string           `yaml:"address"`
	Port         uint16           `yaml:"port"`
	Username     string           `yaml:"username"`
	Password     string           `yaml:"password"`
	RequestTopic string           `yaml:"requesttopic"`
	Attributes   []attributeEntry `yaml:"attributes"`
}

type readRequestMessage struct {
	RequestID     string
	ResponseTopic string
	Endpoint      int32
	Cluster       int32
	Attribute     int32
}

type readResponseMessage struct {
	RequestID string
	Value     *string
	Error     string
}

type attributeKey struct {
	endpoint, cluster, attribute int32
}

func main() {
	var configFile = flag.String("c", "./managersim.yaml", "path to config file name")
	flag.Parse()

	cfg := simConfiguration{
		Address:      "localhost",
		Port:         1883,
		RequestTopic: "appmanager/read",
	}

	data, err := os.ReadFile(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatal(err)
	}

	attributes := make(map[attributeKey]attributeEntry)
	for _, entry := range cfg.Attributes {
		attributes[attributeKey{entry.Endpoint, entry.Cluster, entry.Attribute}] = entry
	}

	opts := mqttlib.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Address, cfg.Port))
	opts.SetClientID("managersim")
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.AutoReconnect = true

	client := mqttlib.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}
	defer client.Disconnect(250)

	handler := func(c mqttlib.Client, msg mqttlib.Message) {
		var req readRequestMessage
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			log.Printf("Error unmarshal read request: %v\n", err)
			return
		}

		resp := readResponseMessage{RequestID: req.RequestID}

		entry, ok := attributes[attributeKey{req.Endpoint, req.Cluster, req.Attribute}]
		switch {
		case !ok:
			// Unknown attribute: answer without a value and without a fault.
		case entry.Fail != "":
			resp.Error = entry.Fail
		default:
			value := entry.Value
			resp.Value = &value
		}

		jsonData, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Error Marshal read response: %v\n", err)
			return
		}

		log.Printf("read endpoint=%d cluster=%d attribute=%d -> value=%v error=%q\n",
			req.Endpoint, req.Cluster, req.Attribute, resp.Value, resp.Error)

		c.Publish(req.ResponseTopic, 0, false, jsonData)
	}

	if token := client.Subscribe(cfg.RequestTopic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}

	log.Printf("managersim serving %d attributes on '%v'\n", len(attributes), cfg.RequestTopic)

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	<-sigchan
}
