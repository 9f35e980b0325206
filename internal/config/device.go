package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/netif"
	"github.com/HerbHall/onvifsrvd/internal/profile"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/HerbHall/onvifsrvd/internal/server"
)

// unmarshalSection decodes the merged settings under key. UnmarshalKey on
// a parent key misses leaves bound to flags or the environment.
func unmarshalSection(v *viper.Viper, key string, out any) error {
	merged := viper.New()
	if sub, ok := v.AllSettings()[key].(map[string]any); ok {
		if err := merged.MergeConfigMap(sub); err != nil {
			return err
		}
	}
	return merged.Unmarshal(out)
}

// ServerConfig decodes the HTTP listener settings.
func ServerConfig(v *viper.Viper) (server.Config, error) {
	var cfg server.Config
	if err := unmarshalSection(v, "server", &cfg); err != nil {
		return server.Config{}, fmt.Errorf("decoding server config: %w", err)
	}
	return cfg, nil
}

// Profiles decodes the configured media profiles. Encodings are
// normalised, so "h264" and "H264" are equivalent.
func Profiles(v *viper.Viper) ([]profile.Profile, error) {
	var profiles []profile.Profile
	if err := v.UnmarshalKey(KeyProfiles, &profiles); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}
	for i := range profiles {
		if profiles[i].Encoding == "" {
			continue
		}
		enc, err := profile.ParseEncoding(string(profiles[i].Encoding))
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", profiles[i].Name, err)
		}
		profiles[i].Encoding = enc
	}
	return profiles, nil
}

// PTZCommands decodes the actuator command templates.
func PTZCommands(v *viper.Viper) (ptz.CommandSet, error) {
	var cmds ptz.CommandSet
	if err := unmarshalSection(v, KeyPTZ, &cmds); err != nil {
		return ptz.CommandSet{}, fmt.Errorf("decoding ptz: %w", err)
	}
	return cmds, nil
}

// BuildDevice assembles and validates the device context. Any error here
// is a startup failure.
func BuildDevice(v *viper.Viper) (*device.Context, error) {
	b := device.NewBuilder()
	b.Port = v.GetInt(KeyServerPort)
	b.User = v.GetString(KeyUser)
	b.Password = v.GetString(KeyPassword)
	b.Info = device.Info{
		Manufacturer:    v.GetString(KeyManufacturer),
		Model:           v.GetString(KeyModel),
		FirmwareVersion: v.GetString(KeyFirmware),
		SerialNumber:    v.GetString(KeySerialNumber),
		HardwareID:      v.GetString(KeyHardwareID),
	}

	for _, scope := range v.GetStringSlice(KeyScopes) {
		b.AddScope(scope)
	}

	for _, spec := range v.GetStringSlice(KeyInterfaces) {
		iface, err := netif.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", spec, err)
		}
		b.AddInterface(iface)
	}

	profiles, err := Profiles(v)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := b.AddProfile(p); err != nil {
			return nil, err
		}
	}

	cmds, err := PTZCommands(v)
	if err != nil {
		return nil, err
	}
	b.PTZ = cmds

	dc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("device configuration: %w", err)
	}
	return dc, nil
}
