package clusterdef

type ClusterDefinition struct {
	ID         uint32
	Name       string
	Attributes map[uint32]AttributeDefinition
}

type AttributeDefinition struct {
	ID   uint32
	Name string
	Type string
}
