package endpointmgr

type managedValue struct {
	data []byte
}

func newManagedValue(s string) *managedValue {
	return &managedValue{data: []byte(s)}
}

func (v *managedValue) CopyString() string {
	return string(v.data)
}

func (v *managedValue) Release() {
	v.data = nil
}
