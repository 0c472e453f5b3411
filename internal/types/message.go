package types

import "time"

// AttributePath identifies exactly one attribute instance on one endpoint.
type AttributePath struct {
	Endpoint  uint16
	Cluster   uint32
	Attribute uint32
}

type AttributeReadMessage struct {
	Endpoint  uint16
	Cluster   uint32
	Attribute uint32
}

type AttributeReadRecord struct {
	Endpoint  uint16
	Cluster   uint32
	Attribute uint32
	Value     string
	ReadAt    time.Time
}
