package clusterdef

import (
	"encoding/json"
	"fmt"
	"os"
)

type ClusterDefService interface {
	GetById(id uint32) ClusterDefinition
}

type jsonClusterMap map[string]jsonClusterDefinition

type jsonClusterDefinition struct {
	ID         uint32
	Attributes map[string]AttributeDefinition
}

type clusterDefService struct {
	clusters map[uint32]ClusterDefinition
}

func New(filename string) ClusterDefService {
	return &clusterDefService{
		clusters: loadFromFile(filename),
	}
}

func (s *clusterDefService) GetById(id uint32) ClusterDefinition {
	if def, ok := s.clusters[id]; ok {
		return def
	}

	return ClusterDefinition{
		ID:         id,
		Name:       fmt.Sprintf("0x%04X", id),
		Attributes: map[uint32]AttributeDefinition{},
	}
}

func loadFromFile(filename string) map[uint32]ClusterDefinition {
	ret := make(map[uint32]ClusterDefinition)

	jsonBuf, err := os.ReadFile(filename)
	if err != nil {
		return ret
	}

	var jsonLoadedMap jsonClusterMap
	if err := json.Unmarshal(jsonBuf, &jsonLoadedMap); err != nil {
		return ret
	}

	for clusterName := range jsonLoadedMap {
		jsonClusterDef := jsonLoadedMap[clusterName]

		attr := make(map[uint32]AttributeDefinition)
		for attrName := range jsonClusterDef.Attributes {
			a := jsonClusterDef.Attributes[attrName]
			a.Name = attrName
			attr[a.ID] = a
		}

		ret[jsonClusterDef.ID] = ClusterDefinition{
			ID:         jsonClusterDef.ID,
			Name:       clusterName,
			Attributes: attr,
		}
	}

	return ret
}
