package bridge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supby/appbridge2mqtt/internal/clusterdef"
	"github.com/supby/appbridge2mqtt/internal/configuration"
	"github.com/supby/appbridge2mqtt/internal/endpointmgr"
	"github.com/supby/appbridge2mqtt/internal/types"
)

type fakeValue struct {
	data     string
	releases int
}

func (v *fakeValue) CopyString() string { return v.data }
func (v *fakeValue) Release()           { v.releases++ }

type readCall struct {
	endpoint, cluster, attribute int32
}

type fakeSession struct {
	value    endpointmgr.Value
	failWith error
	fault    error
	calls    []readCall
	cleared  int
	detached int
}

func (s *fakeSession) ReadAttribute(ctx context.Context, endpoint int32, cluster int32, attribute int32) endpointmgr.Value {
	s.calls = append(s.calls, readCall{endpoint, cluster, attribute})

	if s.fault != nil {
		return nil
	}

	if s.failWith != nil {
		s.fault = s.failWith
		return nil
	}

	return s.value
}

func (s *fakeSession) Faulted() bool { return s.fault != nil }
func (s *fakeSession) Fault() error  { return s.fault }
func (s *fakeSession) ClearFault() {
	s.cleared++
	s.fault = nil
}
func (s *fakeSession) Detach() { s.detached++ }

type fakeManager struct {
	sess      *fakeSession
	attachErr error
	attaches  int
}

func (m *fakeManager) Attach(ctx context.Context) (endpointmgr.Session, error) {
	m.attaches++

	if m.attachErr != nil {
		return nil, m.attachErr
	}

	return m.sess, nil
}

func (m *fakeManager) Dispose() {}

func newTestReader(t *testing.T, fixedEndpointCount uint16, manager endpointmgr.Manager) AttributeReader {
	t.Helper()

	cfg := configuration.Configuration{LogLevel: configuration.LogLevelDefault}
	cfg.AppPlatformConfiguration.FixedEndpointCount = fixedEndpointCount

	return NewAttributeReader(&cfg, manager, clusterdef.New(filepath.Join(t.TempDir(), "clusterdef.json")))
}

func TestReadFixedEndpointShortCircuits(t *testing.T) {
	manager := &fakeManager{sess: &fakeSession{value: &fakeValue{data: "should never be read"}}}
	reader := newTestReader(t, 2, manager)

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 0, Cluster: 6, Attribute: 0})

	assert.Equal(t, "", ret)
	assert.Equal(t, 0, manager.attaches)
}

func TestReadDelegatesToManager(t *testing.T) {
	value := &fakeValue{data: "Living Room TV"}
	sess := &fakeSession{value: value}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, "Living Room TV", ret)
	require.Len(t, sess.calls, 1)
	assert.Equal(t, readCall{5, 1290, 0}, sess.calls[0])
	assert.Equal(t, 1, value.releases)
	assert.Equal(t, 1, sess.detached)
}

func TestReadManagerFault(t *testing.T) {
	sess := &fakeSession{failWith: errors.New("manager raised")}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, "", ret)
	assert.Equal(t, 1, sess.cleared)
	assert.False(t, sess.Faulted())
	assert.Equal(t, 1, sess.detached)
}

func TestReadAfterFaultIsUnaffected(t *testing.T) {
	sess := &fakeSession{failWith: errors.New("manager raised")}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})
	assert.Equal(t, "", ret)

	sess.failWith = nil
	sess.value = &fakeValue{data: "On"}

	ret = reader.Read(context.Background(), types.AttributePath{Endpoint: 6, Cluster: 6, Attribute: 0})
	assert.Equal(t, "On", ret)
}

func TestReadNoValueNoFault(t *testing.T) {
	sess := &fakeSession{}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, "", ret)
	assert.Equal(t, 1, sess.detached)
}

func TestReadAttachError(t *testing.T) {
	reader := newTestReader(t, 2, &fakeManager{attachErr: errors.New("runtime unavailable")})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, "", ret)
}

func TestReadIsIdempotent(t *testing.T) {
	sess := &fakeSession{value: &fakeValue{data: "Living Room TV"}}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	path := types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0}

	first := reader.Read(context.Background(), path)
	second := reader.Read(context.Background(), path)

	assert.Equal(t, first, second)
	assert.Len(t, sess.calls, 2)
}

func TestReadEmptyValueMatchesSentinel(t *testing.T) {
	// An empty value from the manager is indistinguishable from a failed
	// read; both mean "apply the caller's default".
	sess := &fakeSession{value: &fakeValue{data: ""}}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	ret := reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, "", ret)
}

func TestReadNotifiesSubscriber(t *testing.T) {
	sess := &fakeSession{value: &fakeValue{data: "Living Room TV"}}
	reader := newTestReader(t, 2, &fakeManager{sess: sess})

	var rec types.AttributeReadRecord
	reader.SubscribeOnAttributeRead(func(r types.AttributeReadRecord) {
		rec = r
	})

	reader.Read(context.Background(), types.AttributePath{Endpoint: 5, Cluster: 1290, Attribute: 0})

	assert.Equal(t, uint16(5), rec.Endpoint)
	assert.Equal(t, uint32(1290), rec.Cluster)
	assert.Equal(t, "Living Room TV", rec.Value)
	assert.False(t, rec.ReadAt.IsZero())
}
