package configuration

import (
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

type configurationService struct {
	filename      string
	configuration Configuration
	mtx           sync.RWMutex
}

func defaultConfiguration() Configuration {
	return Configuration{
		MqttConfiguration: MqttConfiguration{
			Address:   "localhost",
			Port:      1883,
			RootTopic: "appbridge2mqtt",
		},
		ManagerConfiguration: ManagerConfiguration{
			Address:       "localhost",
			Port:          1883,
			RequestTopic:  "appmanager/read",
			ResponseTopic: "appmanager/response",
		},
		AppPlatformConfiguration: AppPlatformConfiguration{
			FixedEndpointCount: 1,
		},
		LogLevel: LogLevelDefault,
	}
}

const LogLevelDefault = 2

func Init(filename string) (ConfigurationService, error) {
	ret := configurationService{
		filename:      filename,
		configuration: defaultConfiguration(),
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return &ret, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &ret.configuration); err != nil {
		return nil, err
	}

	return &ret, nil
}

func (s *configurationService) GetConfiguration() Configuration {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.configuration
}

func (s *configurationService) Update(updatedConfig Configuration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	data, err := yaml.Marshal(updatedConfig)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.filename, data, 0644); err != nil {
		return err
	}

	s.configuration = updatedConfig

	return nil
}
