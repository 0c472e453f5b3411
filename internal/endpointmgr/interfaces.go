package endpointmgr

import "context"

// Manager is the bridge's only view of the external endpoint manager runtime.
// The handle is obtained once at setup and held for the lifetime of the bridge;
// the bridge invokes it but never owns or reinitializes it.
type Manager interface {
	// Attach obtains a calling context recognized by the manager runtime.
	// Every inbound call from native code happens on an attached session,
	// released with Detach.
	Attach(ctx context.Context) (Session, error)
	Dispose()
}

// Session is a scoped calling context on the manager runtime. A fault raised
// by the runtime sticks to the session until cleared and blocks further calls
// on it, so callers must check Faulted after every call and clear the state
// before reusing the session.
type Session interface {
	// ReadAttribute asks the manager runtime for a single attribute value.
	// It blocks until the runtime answers. A nil result means either a fault
	// was raised (Faulted reports true) or the runtime answered without a
	// value.
	ReadAttribute(ctx context.Context, endpoint int32, cluster int32, attribute int32) Value
	Faulted() bool
	Fault() error
	ClearFault()
	Detach()
}

// Value is a string-like value owned by the manager runtime.
type Value interface {
	// CopyString copies the value into a natively owned string that outlives
	// the handle.
	CopyString() string
	// Release drops the runtime's reference. Releasing twice is harmless.
	Release()
}
