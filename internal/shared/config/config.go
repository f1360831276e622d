package config

import (
	"net"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"oneshot/internal/shared/errors"
	"oneshot/internal/shared/types"
)

const EnvLogLevel = "ONESHOT_LOG_LEVEL"

// Load 返回默认配置；fileName 非空时叠加 ini 文件，最后应用环境变量覆盖。
func Load(fileName string) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if fileName != "" {
		if err := LoadIni(cfg, fileName); err != nil {
			return nil, err
		}
	}
	overrideFromEnvString(&cfg.LogConf.Level, EnvLogLevel)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadIni 加载 ini 行为配置文件到 cfg，未出现的键保持原值。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return errors.NewError(errors.KindConfig, "failed to load config file '", fileName, "'").Base(err)
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return errors.NewError(errors.KindConfig, "failed to map config file '", fileName, "'").Base(err)
	}
	return nil
}

// Validate checks values that would otherwise fail late, after the socket exists.
func Validate(cfg *types.Config) error {
	host := strings.TrimSpace(cfg.ListenerConf.Host)
	if host == "" {
		cfg.ListenerConf.Host = types.DefaultListenHost
		return nil
	}
	if ip := net.ParseIP(host); ip == nil || ip.To4() == nil {
		return errors.NewError(errors.KindConfig, "listener host '", host, "' is not an IPv4 address")
	}
	cfg.ListenerConf.Host = host
	return nil
}

func overrideFromEnvString(target *string, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		*target = envValue
	}
}
