package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-track/internal/layout"
	"github.com/inodb/vibe-track/internal/render"
	"github.com/inodb/vibe-track/internal/track"
)

const configName = ".vibe-track.yaml"

// Config is the merged configuration from ~/.vibe-track.yaml, VIBE_TRACK_*
// environment variables and command-line flags.
type Config struct {
	Assembly string       `mapstructure:"assembly"`
	Track    TrackConfig  `mapstructure:"track"`
	Render   RenderConfig `mapstructure:"render"`
}

// TrackConfig holds drawing settings for transcript features.
type TrackConfig struct {
	Color           string            `mapstructure:"color"`
	UTRHeight       float64           `mapstructure:"utr_height"`
	IntronLineWidth float64           `mapstructure:"intron_line_width"`
	IntronStyle     string            `mapstructure:"intron_style"`
	MinScaledWidth  float64           `mapstructure:"min_scaled_width"`
	WidthCorrection float64           `mapstructure:"width_correction"`
	FeatureHeight   float64           `mapstructure:"feature_height"`
	Labels          bool              `mapstructure:"labels"`
	LabelColor      string            `mapstructure:"label_color"`
	LabelSize       float64           `mapstructure:"label_size"`
	CanonicalOnly   bool              `mapstructure:"canonical_only"`
	BiotypeColors   map[string]string `mapstructure:"biotype_colors"`
}

// RenderConfig holds image output settings.
type RenderConfig struct {
	Width      int    `mapstructure:"width"`
	Format     string `mapstructure:"format"`
	Background string `mapstructure:"background"`
	Workers    int    `mapstructure:"workers"`
}

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"assembly":     "assembly",
	"width":        "render.width",
	"format":       "render.format",
	"workers":      "render.workers",
	"intron-style": "track.intron_style",
	"canonical":    "track.canonical_only",
}

func setDefaults(v *viper.Viper) {
	style := track.DefaultStyle()
	lo := layout.DefaultOptions(0)
	opts := render.DefaultOptions()

	v.SetDefault("assembly", "GRCh38")
	v.SetDefault("track.color", style.Color)
	v.SetDefault("track.utr_height", style.UTRHeight)
	v.SetDefault("track.intron_line_width", style.IntronLineWidth)
	v.SetDefault("track.intron_style", style.IntronStyle.String())
	v.SetDefault("track.min_scaled_width", style.MinScaledWidth)
	v.SetDefault("track.width_correction", style.WidthCorrection)
	v.SetDefault("track.feature_height", lo.FeatureHeight)
	v.SetDefault("track.labels", style.Labels)
	v.SetDefault("track.label_size", style.LabelSize)
	v.SetDefault("track.canonical_only", false)
	v.SetDefault("render.width", opts.Width)
	v.SetDefault("render.format", string(opts.Format))
	v.SetDefault("render.background", opts.Background)
	v.SetDefault("render.workers", 0)
}

// initConfig reads the config file (if any) into the global viper instance.
func initConfig(cfgFile string) error {
	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("VIBE_TRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		cfgFile = filepath.Join(home, configName)
		if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

// bindFlags binds the flags of the running command to their config keys.
// Binding happens per invocation since several commands share keys.
func bindFlags(cmd *cobra.Command) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// loadConfig decodes the effective configuration.
func loadConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// RenderOptions converts the configuration into renderer options.
func (c Config) RenderOptions() (render.Options, error) {
	format, err := render.ParseFormat(c.Render.Format)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: render.format: %v", errUsage, err)
	}
	intron, err := track.ParseIntronStyle(c.Track.IntronStyle)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: track.intron_style: %v", errUsage, err)
	}
	if c.Render.Width <= 0 {
		return render.Options{}, fmt.Errorf("%w: render.width must be positive, got %d", errUsage, c.Render.Width)
	}

	opts := render.DefaultOptions()
	opts.Width = c.Render.Width
	opts.Format = format
	opts.Background = c.Render.Background

	opts.Style.Color = c.Track.Color
	opts.Style.UTRHeight = c.Track.UTRHeight
	opts.Style.IntronLineWidth = c.Track.IntronLineWidth
	opts.Style.IntronStyle = intron
	opts.Style.MinScaledWidth = c.Track.MinScaledWidth
	opts.Style.WidthCorrection = c.Track.WidthCorrection
	opts.Style.Labels = c.Track.Labels
	opts.Style.LabelColor = c.Track.LabelColor
	opts.Style.LabelSize = c.Track.LabelSize

	opts.Layout = layout.DefaultOptions(float64(c.Render.Width))
	opts.Layout.FeatureHeight = c.Track.FeatureHeight
	opts.Layout.CanonicalOnly = c.Track.CanonicalOnly
	mergeBiotypeColors(opts.Layout.BiotypeColors, c.Track.BiotypeColors)
	return opts, nil
}

// mergeBiotypeColors overlays configured colours onto dst. Config keys are
// lower-cased by viper, so they are matched to known biotypes ignoring case.
func mergeBiotypeColors(dst, src map[string]string) {
	for k, color := range src {
		key := k
		for known := range dst {
			if strings.EqualFold(known, k) {
				key = known
				break
			}
		}
		dst[key] = color
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-track configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-track.yaml.",
		Example: `  vibe-track config                              # show all config
  vibe-track config set track.intron_style hat     # draw introns as hats
  vibe-track config set track.biotype_colors.lncRNA "#2e8b57"
  vibe-track config get render.width               # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Printf("# Config file: %s\n", f)
	} else {
		fmt.Printf("# No config file, showing defaults. Config file: ~/%s\n", configName)
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	if err := validateSetting(key, value); err != nil {
		return err
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName)
	}

	// Only the file's own settings are written back, not defaults or
	// environment overrides.
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if _, err := os.Stat(cfgFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		v.Set(key, true)
	case "false", "no", "off":
		v.Set(key, false)
	default:
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

// validateSetting rejects values that would make every later render fail.
func validateSetting(key, value string) error {
	switch strings.ToLower(key) {
	case "track.intron_style":
		if _, err := track.ParseIntronStyle(value); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	case "render.format":
		if _, err := render.ParseFormat(value); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
