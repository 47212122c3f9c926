package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tifye/onduty/duty"
)

const EnvPrefix = "ONDUTY"

// Keys outside the shift settings that the CLI reads from the same
// viper instance.
const (
	KeyRoomsFile      = "rooms_file"
	KeyHistoryPath    = "history_path"
	KeyDiscordWebhook = "discord_webhook_url"
	KeyNoClear        = "no_clear"
)

// SetDefaults registers every known key so that environment variables
// and UnmarshalExact see them.
func SetDefaults(v *viper.Viper) {
	d := duty.DefaultSettings()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("timescale", d.Timescale)
	v.SetDefault("probability", d.Probability)
	v.SetDefault("max_anomalies", d.MaxAnomalies)
	v.SetDefault("anomaly_report_time", d.ReportSeconds)
	v.SetDefault("max_seconds", d.MaxSeconds)
	v.SetDefault("min_seconds_between_anomalies", d.MinSecondsBetweenAnomalies)

	v.SetDefault(KeyRoomsFile, "")
	v.SetDefault(KeyHistoryPath, "")
	v.SetDefault(KeyDiscordWebhook, "")
	v.SetDefault(KeyNoClear, false)
}

// Load reads the optional config file at path and ONDUTY_* environment
// overrides into v and decodes the shift settings. Unknown keys in the
// file are rejected.
func Load(v *viper.Viper, path string) (duty.Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return duty.Settings{}, fmt.Errorf("%w: read config %s: %s", duty.ErrConfig, path, err)
		}
	}

	var cfg struct {
		duty.Settings `mapstructure:",squash"`

		RoomsFile      string `mapstructure:"rooms_file"`
		HistoryPath    string `mapstructure:"history_path"`
		DiscordWebhook string `mapstructure:"discord_webhook_url"`
		NoClear        bool   `mapstructure:"no_clear"`
	}
	if err := v.UnmarshalExact(&cfg); err != nil {
		return duty.Settings{}, fmt.Errorf("%w: decode config: %s", duty.ErrConfig, err)
	}

	if err := cfg.Settings.Validate(); err != nil {
		return duty.Settings{}, err
	}
	return cfg.Settings, nil
}
