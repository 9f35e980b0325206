// Package config loads the daemon configuration from defaults, a YAML file,
// ONVIF_* environment variables, command-line flags and the legacy
// onvif_srvd.conf format, and turns it into a validated device context.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys shared by the loaders and the command line.
const (
	KeyServerHost   = "server.host"
	KeyServerPort   = "server.port"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
	KeyLogFile      = "logging.file"
	KeyUser         = "device.user"
	KeyPassword     = "device.password"
	KeyManufacturer = "device.manufacturer"
	KeyModel        = "device.model"
	KeyFirmware     = "device.firmware_version"
	KeySerialNumber = "device.serial_number"
	KeyHardwareID   = "device.hardware_id"
	KeyScopes       = "device.scopes"
	KeyInterfaces   = "device.interfaces"
	KeyProfiles     = "profiles"
	KeyPTZ          = "ptz"
	KeyPTZEnabled   = "ptz.enabled"
	KeyPTZTimeout   = "ptz.timeout"
)

// LoadConfig reads configuration from file and environment variables.
// An empty path searches ./onvifsrvd.yaml, ./configs and /etc/onvifsrvd;
// a missing file is not an error.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("onvifsrvd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/onvifsrvd")
	}

	// Environment variable support: ONVIF_SERVER_PORT=8000
	v.SetEnvPrefix("ONVIF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerHost, "0.0.0.0")
	v.SetDefault(KeyServerPort, 1000)
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.rate_limit.rps", 0)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyLogFile, "")

	v.SetDefault(KeyUser, "admin")
	v.SetDefault(KeyPassword, "admin")
	v.SetDefault(KeyManufacturer, "Manufacturer")
	v.SetDefault(KeyModel, "Model")
	v.SetDefault(KeyFirmware, "FirmwareVersion")
	v.SetDefault(KeySerialNumber, "SerialNumber")
	v.SetDefault(KeyHardwareID, "HardwareID")
	v.SetDefault(KeyScopes, []string{})
	v.SetDefault(KeyInterfaces, []string{})

	v.SetDefault(KeyPTZEnabled, false)
	v.SetDefault("ptz.move_continuous", "")
	v.SetDefault("ptz.move_stop", "")
	v.SetDefault("ptz.goto_preset", "")
	v.SetDefault("ptz.goto_home", "")
	v.SetDefault(KeyPTZTimeout, "3s")
}
