package db

import "time"

type AttributeRecord struct {
	Endpoint  uint16
	Cluster   uint32
	Attribute uint32
	Value     string
	UpdatedAt time.Time
}
