package mqtt

type AttributeReadMessage struct {
	Cluster   uint32
	Attribute uint32
}

type AttributeReadResponseMessage struct {
	Endpoint      uint16
	Cluster       uint32
	ClusterName   string
	Attribute     uint32
	AttributeName string
	Value         string
	// Default reports that the bridge produced the empty sentinel and the
	// consumer should substitute its own default.
	Default bool
}
