package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"chd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CHD_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "CHD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "CHD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CHD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyProgressionDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CodeHeroesDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyProgressionDefaults fills in the built-in rules table for any part of
// the progression section the config file leaves out. The level curve is
// only defaulted when wholly absent, so a misconfigured curve still fails
// validation instead of being silently repaired.
func applyProgressionDefaults(conf *structures.Config) {
	defaults := structures.DefaultProgression()
	p := &conf.Progression

	if p.BaseXP == nil {
		p.BaseXP = defaults.BaseXP
	}
	if p.Bonuses == nil {
		p.Bonuses = defaults.Bonuses
	}
	if p.StreakMilestones == nil {
		p.StreakMilestones = defaults.StreakMilestones
	}
	if p.Curve.BaseXPPerLevel == 0 && p.Curve.Multiplier == 0 {
		p.Curve = defaults.Curve
	}
	if p.HistoryWindow <= 0 {
		p.HistoryWindow = defaults.HistoryWindow
	}
	if p.LeaderboardSize <= 0 {
		p.LeaderboardSize = defaults.LeaderboardSize
	}
	if p.GaugeInterval <= 0 {
		p.GaugeInterval = defaults.GaugeInterval
	}
}
