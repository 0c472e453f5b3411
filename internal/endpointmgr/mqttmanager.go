package endpointmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/logger"
)

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

type mqttManager struct {
	innerClient   mqttlib.Client
	cfg           configuration.ManagerConfiguration
	responseTopic string
	logger        logger.Logger
	pending       map[string]chan readResponseMessage
	mtx           sync.Mutex
}

func NewMQTTManager(cfg configuration.ManagerConfiguration, logLevel int) (Manager, error) {
	log := logger.GetLogger("[Endpoint Manager]", logLevel)

	opts := mqttlib.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Address, cfg.Port))
	opts.SetClientID(fmt.Sprintf("appbridge2mqtt-%v", uuid.NewString()))
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.AutoReconnect = true
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOrderMatters(false)
	opts.OnConnect = func(client mqttlib.Client) {
		log.Info("Connected to endpoint manager broker")
	}
	opts.OnConnectionLost = func(client mqttlib.Client, err error) {
		log.Warn("Endpoint manager broker connection lost: %v", err)
	}

	innerClient := mqttlib.NewClient(opts)
	if token := innerClient.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return newManagerWithClient(innerClient, cfg, log)
}

func newManagerWithClient(client mqttlib.Client, cfg configuration.ManagerConfiguration, log logger.Logger) (Manager, error) {
	ret := mqttManager{
		innerClient:   client,
		cfg:           cfg,
		responseTopic: fmt.Sprintf("%s/%s", cfg.ResponseTopic, uuid.NewString()),
		logger:        log,
		pending:       make(map[string]chan readResponseMessage),
	}

	if token := client.Subscribe(ret.responseTopic, 0, ret.onResponse); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return &ret, nil
}

func (m *mqttManager) Attach(ctx context.Context) (Session, error) {
	if !m.innerClient.IsConnected() {
		return nil, fmt.Errorf("endpoint manager broker is not connected")
	}

	return &mqttSession{mgr: m}, nil
}

func (m *mqttManager) Dispose() {
	m.innerClient.Disconnect(250)
}

func (m *mqttManager) onResponse(client mqttlib.Client, msg mqttlib.Message) {
	var resp readResponseMessage
	if err := json.Unmarshal(msg.Payload(), &resp); err != nil {
		m.logger.Error("Error unmarshal manager response: %v", err)
		return
	}

	m.mtx.Lock()
	ch, ok := m.pending[resp.RequestID]
	if ok {
		delete(m.pending, resp.RequestID)
	}
	m.mtx.Unlock()

	if !ok {
		m.logger.Warn("Manager response with unknown request id %v", resp.RequestID)
		return
	}

	ch <- resp
}

func (m *mqttManager) call(ctx context.Context, endpoint int32, cluster int32, attribute int32) (readResponseMessage, error) {
	req := readRequestMessage{
		RequestID:     uuid.NewString(),
		ResponseTopic: m.responseTopic,
		Endpoint:      endpoint,
		Cluster:       cluster,
		Attribute:     attribute,
	}

	ch := make(chan readResponseMessage, 1)
	m.mtx.Lock()
	m.pending[req.RequestID] = ch
	m.mtx.Unlock()

	defer func() {
		m.mtx.Lock()
		delete(m.pending, req.RequestID)
		m.mtx.Unlock()
	}()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return readResponseMessage{}, err
	}

	if token := m.innerClient.Publish(m.cfg.RequestTopic, 0, false, jsonData); token.Wait() && token.Error() != nil {
		return readResponseMessage{}, token.Error()
	}

	// A nil timeout channel blocks forever, reproducing the original
	// wait-until-the-manager-answers behaviour when no timeout is configured.
	var timeout <-chan time.Time
	if m.cfg.TimeoutSeconds > 0 {
		timer := time.NewTimer(time.Duration(m.cfg.TimeoutSeconds) * time.Second)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return readResponseMessage{}, ctx.Err()
	case <-timeout:
		return readResponseMessage{}, fmt.Errorf("endpoint manager did not answer within %d seconds", m.cfg.TimeoutSeconds)
	}
}

type mqttSession struct {
	mgr   *mqttManager
	fault error
}

func (s *mqttSession) ReadAttribute(ctx context.Context, endpoint int32, cluster int32, attribute int32) Value {
	if s.fault != nil {
		return nil
	}

	resp, err := s.mgr.call(ctx, endpoint, cluster, attribute)
	if err != nil {
		s.fault = err
		return nil
	}

	if resp.Error != "" {
		s.fault = fmt.Errorf("endpoint manager fault: %v", resp.Error)
		return nil
	}

	if resp.Value == nil {
		// The manager answered without a value and without raising a fault.
		return nil
	}

	return newManagedValue(*resp.Value)
}

func (s *mqttSession) Faulted() bool {
	return s.fault != nil
}

func (s *mqttSession) Fault() error {
	return s.fault
}

func (s *mqttSession) ClearFault() {
	s.fault = nil
}

func (s *mqttSession) Detach() {
}
