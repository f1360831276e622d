package types

const (
	DefaultLogLevel   = "info"
	DefaultListenHost = "0.0.0.0"
)

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// ListenerConf 描述监听端点。端口不在此配置，由命令行参数提供。
type ListenerConf struct {
	Host string `ini:"host"`
}

// Config 是 oneshot 的统一配置结构体
type Config struct {
	LogConf      `ini:"log"`
	ListenerConf `ini:"listener"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LogConf:      LogConf{Level: DefaultLogLevel},
		ListenerConf: ListenerConf{Host: DefaultListenHost},
	}
}
