package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/onvifsrvd/internal/config"
	"github.com/HerbHall/onvifsrvd/internal/onvif"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/HerbHall/onvifsrvd/internal/server"
	"github.com/HerbHall/onvifsrvd/internal/version"
)

// flagKeys binds command-line flags to configuration keys. Flags win over
// the YAML file and the environment; a legacy conf file wins over flags.
var flagKeys = map[string]string{
	"port":            config.KeyServerPort,
	"user":            config.KeyUser,
	"password":        config.KeyPassword,
	"manufacturer":    config.KeyManufacturer,
	"model":           config.KeyModel,
	"firmware_ver":    config.KeyFirmware,
	"serial_num":      config.KeySerialNumber,
	"hardware_id":     config.KeyHardwareID,
	"scope":           config.KeyScopes,
	"ifs":             config.KeyInterfaces,
	"ptz":             config.KeyPTZEnabled,
	"move_continuous": "ptz.move_continuous",
	"move_stop":       "ptz.move_stop",
	"goto_preset":     "ptz.goto_preset",
	"goto_home":       "ptz.goto_home",
	"log-level":       config.KeyLogLevel,
	"log_file":        config.KeyLogFile,
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("onvifsrvd", pflag.ExitOnError)
	fs.String("config", "", "path to YAML configuration file")
	fs.String("conf_file", "", "path to legacy onvif_srvd.conf file")
	fs.BoolP("version", "v", false, "print version information and exit")

	fs.Int("port", 1000, "port for the ONVIF services")
	fs.String("user", "admin", "user name advertised by GetUsers")
	fs.String("password", "admin", "user password")
	fs.String("manufacturer", "Manufacturer", "device manufacturer")
	fs.String("model", "Model", "device model")
	fs.String("firmware_ver", "FirmwareVersion", "device firmware version")
	fs.String("serial_num", "SerialNumber", "device serial number")
	fs.String("hardware_id", "HardwareID", "device hardware ID")
	fs.StringArray("scope", nil, "scope URI (repeatable)")
	fs.StringArray("ifs", nil, "network interface: name, addr/prefix or addr/mask (repeatable)")

	fs.Bool("ptz", false, "enable PTZ support")
	fs.String("move_continuous", "", "actuator URL for continuous movement")
	fs.String("move_stop", "", "actuator URL for stop")
	fs.String("goto_preset", "", "actuator URL for goto preset, %t is the preset token")
	fs.String("goto_home", "", "actuator URL for goto home")

	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log_file", "", "also write logs to this file")
	return fs
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func main() {
	fs := newFlagSet()
	_ = fs.Parse(os.Args[1:])

	if show, _ := fs.GetBool("version"); show {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	configPath, _ := fs.GetString("config")
	viperCfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := bindFlags(viperCfg, fs); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	legacyPath, _ := fs.GetString("conf_file")
	if legacyPath != "" {
		if err := config.LoadLegacy(legacyPath, viperCfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(viperCfg, legacyPath, logger); err != nil {
		logger.Error("onvifsrvd failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(v *viper.Viper, legacyPath string, logger *zap.Logger) error {
	logger.Info("onvifsrvd starting", zap.String("version", version.Short()))

	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
		config.WatchConfig(v, logger.Named("config"))
	}
	if legacyPath != "" {
		logger.Info("legacy configuration loaded",
			zap.String("component", "config"),
			zap.String("source", legacyPath),
		)
		stop, err := config.WatchFile(legacyPath, logger.Named("config"))
		if err != nil {
			logger.Warn("cannot watch legacy configuration", zap.Error(err))
		} else {
			defer func() { _ = stop() }()
		}
	}

	dc, err := config.BuildDevice(v)
	if err != nil {
		return err
	}
	logger.Info("device configured",
		zap.String("component", "device"),
		zap.Int("interfaces", dc.Interfaces().Len()),
		zap.Int("profiles", len(dc.Profiles())),
		zap.Int("scopes", len(dc.Scopes())),
		zap.Bool("ptz", dc.PTZ().Enabled),
	)

	router := ptz.NewRouter(dc.PTZ(), logger.Named("ptz"),
		ptz.WithHTTPClient(&http.Client{Timeout: v.GetDuration(config.KeyPTZTimeout)}))

	dispatcher, err := onvif.NewDispatcher(logger.Named("onvif"),
		onvif.NewDeviceService(dc, logger.Named("device")),
		onvif.NewMediaService(dc, logger.Named("media")),
		onvif.NewPTZService(dc, router, logger.Named("ptz")),
	)
	if err != nil {
		return err
	}

	srvCfg, err := config.ServerConfig(v)
	if err != nil {
		return err
	}
	srv := server.New(srvCfg, dispatcher, logger.Named("server"), nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("onvifsrvd ready", zap.String("addr", srvCfg.Addr()))
	for _, g := range onvif.Groups {
		if g == onvif.GroupPTZ && !dc.PTZ().Enabled {
			continue
		}
		logger.Debug("service advertised",
			zap.String("service", g.String()),
			zap.String("path", g.Path()),
		)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("onvifsrvd stopped")
	return nil
}
