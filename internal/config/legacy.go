package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/HerbHall/onvifsrvd/internal/profile"
)

// Legacy onvif_srvd.conf keys and the viper keys they map onto.
var legacyScalars = map[string]string{
	"user":            KeyUser,
	"password":        KeyPassword,
	"manufacturer":    KeyManufacturer,
	"model":           KeyModel,
	"firmware_ver":    KeyFirmware,
	"serial_num":      KeySerialNumber,
	"hardware_id":     KeyHardwareID,
	"log_file":        KeyLogFile,
	"move_continuous": "ptz.move_continuous",
	"move_stop":       "ptz.move_stop",
	"goto_preset":     "ptz.goto_preset",
	"goto_home":       "ptz.goto_home",
}

// Daemonisation keys accepted for compatibility and otherwise ignored.
var legacyIgnored = map[string]bool{
	"no_chdir": true,
	"no_fork":  true,
	"no_close": true,
	"pid_file": true,
}

// A profile is the run of name..type keys ending at its type key.
var legacyProfileKeys = map[string]bool{
	"name":    true,
	"width":   true,
	"height":  true,
	"url":     true,
	"snapurl": true,
	"type":    true,
}

const legacyProfileSection = "profile"

// LoadLegacy reads an onvif_srvd.conf key=value file and merges it into v.
// Scopes, interfaces and profiles are appended to those already configured;
// every other key overrides.
func LoadLegacy(path string, v *viper.Viper) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading legacy config: %w", err)
	}
	sectioned, err := sectionProfiles(data)
	if err != nil {
		return fmt.Errorf("legacy config %s: %w", path, err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:        true,
		IgnoreInlineComment: true,
		IgnoreContinuation:  true,
	}, sectioned)
	if err != nil {
		return fmt.Errorf("parsing legacy config %s: %w", path, err)
	}

	if err := applyLegacyDefaults(cfg.Section(ini.DefaultSection), v); err != nil {
		return fmt.Errorf("legacy config %s: %w", path, err)
	}

	var profiles []profile.Profile
	for _, sec := range cfg.Sections() {
		if !strings.HasPrefix(sec.Name(), legacyProfileSection+" ") {
			continue
		}
		p, err := legacyProfile(sec)
		if err != nil {
			return fmt.Errorf("legacy config %s: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	if len(profiles) > 0 {
		existing, err := Profiles(v)
		if err != nil {
			return err
		}
		v.Set(KeyProfiles, profileMaps(append(existing, profiles...)))
	}
	return nil
}

func applyLegacyDefaults(sec *ini.Section, v *viper.Viper) error {
	for _, key := range sec.Keys() {
		name := key.Name()
		switch {
		case name == "scope":
			v.Set(KeyScopes, append(v.GetStringSlice(KeyScopes), key.ValueWithShadows()...))
		case name == "ifs":
			v.Set(KeyInterfaces, append(v.GetStringSlice(KeyInterfaces), key.ValueWithShadows()...))
		case name == "ptz":
			// Any value enables PTZ except an explicit false.
			enabled, err := strconv.ParseBool(last(key.ValueWithShadows()))
			v.Set(KeyPTZEnabled, err != nil || enabled)
		case name == "port":
			raw := last(key.ValueWithShadows())
			port, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("port %q is not a number", raw)
			}
			v.Set(KeyServerPort, port)
		case legacyScalars[name] != "":
			v.Set(legacyScalars[name], last(key.ValueWithShadows()))
		case legacyIgnored[name]:
		default:
			return fmt.Errorf("unrecognized option %q", name)
		}
	}
	return nil
}

func legacyProfile(sec *ini.Section) (profile.Profile, error) {
	var b profile.Builder
	setters := map[string]func(string) error{
		"name":    b.SetName,
		"width":   b.SetWidth,
		"height":  b.SetHeight,
		"url":     b.SetURL,
		"snapurl": b.SetSnapURL,
		"type":    b.SetType,
	}
	// name first so errors on later fields carry it.
	if sec.HasKey("name") {
		if err := b.SetName(last(sec.Key("name").ValueWithShadows())); err != nil {
			return profile.Profile{}, err
		}
	}
	for _, key := range sec.Keys() {
		set := setters[key.Name()]
		if set == nil || key.Name() == "name" {
			continue
		}
		for _, val := range key.ValueWithShadows() {
			if err := set(val); err != nil {
				return profile.Profile{}, err
			}
		}
	}
	return b.Profile()
}

// sectionProfiles moves the keys of each profile into their own ini section
// so that repeated name..type groups stay apart. The type key closes a
// profile. Other keys found inside a profile go back to the default section.
func sectionProfiles(data []byte) ([]byte, error) {
	var out bytes.Buffer
	inProfile := false
	n := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			return nil, fmt.Errorf("sections are not supported: %s", trimmed)
		}
		key, _, _ := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		comment := trimmed == "" || trimmed[0] == '#' || trimmed[0] == ';'

		switch {
		case legacyProfileKeys[key] && !inProfile:
			fmt.Fprintf(&out, "[%s %d]\n", legacyProfileSection, n)
			inProfile = true
		case !legacyProfileKeys[key] && !comment && inProfile:
			fmt.Fprintf(&out, "[%s]\n", ini.DefaultSection)
			inProfile = false
		}
		out.WriteString(line)
		out.WriteByte('\n')
		if key == "type" {
			fmt.Fprintf(&out, "[%s]\n", ini.DefaultSection)
			inProfile = false
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func profileMaps(profiles []profile.Profile) []map[string]any {
	out := make([]map[string]any, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, map[string]any{
			"name":    p.Name,
			"width":   p.Width,
			"height":  p.Height,
			"url":     p.URL,
			"snapurl": p.SnapURL,
			"type":    string(p.Encoding),
		})
	}
	return out
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
