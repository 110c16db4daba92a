package providers

import (
	"emd/internal/structures"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "EMD_LOG_LEVEL")
	viper.BindEnv("upstream.baseUrl", "EMD_UPSTREAM_URL")
	viper.BindEnv("upstream.requestTimeout", "EMD_REQUEST_TIMEOUT")
	viper.BindEnv("window.defaultHours", "EMD_DEFAULT_HOURS")
	viper.BindEnv("refresh.auto", "EMD_AUTO_REFRESH")
	viper.BindEnv("refresh.interval", "EMD_REFRESH_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "EMD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "EMD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "EMD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EmailMonitorDashboard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
