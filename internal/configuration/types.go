package configuration

type MqttConfiguration struct {
	Address   string `yaml:"address"`
	Port      uint16 `yaml:"port"`
	RootTopic string `yaml:"roottopic"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type ManagerConfiguration struct {
	Address       string `yaml:"address"`
	Port          uint16 `yaml:"port"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	RequestTopic  string `yaml:"requesttopic"`
	ResponseTopic string `yaml:"responsetopic"`
	// TimeoutSeconds bounds a delegated read. 0 blocks until the manager
	// answers.
	TimeoutSeconds uint32 `yaml:"timeoutseconds"`
}

type AppPlatformConfiguration struct {
	// Endpoints below FixedEndpointCount are served by the platform's
	// generated attribute access and never reach the endpoint manager.
	FixedEndpointCount uint16 `yaml:"fixedendpointcount"`
}

type Configuration struct {
	MqttConfiguration        MqttConfiguration        `yaml:"mqtt"`
	ManagerConfiguration     ManagerConfiguration     `yaml:"manager"`
	AppPlatformConfiguration AppPlatformConfiguration `yaml:"appplatform"`
	LogLevel                 int                      `yaml:"loglevel"` // info=0, warn=1, error=2, debug=3
}
