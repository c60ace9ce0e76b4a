package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/splaytext/linebuf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	configName = ".splaytext"
	configType = "yaml"
	envPrefix  = "SPLAYTEXT"
)

// settings is what viper collects from flags, environment and config file.
type settings struct {
	BlockSize       int    `mapstructure:"block_size"`
	IndexSparseness int    `mapstructure:"index_sparseness"`
	Fragmented      bool   `mapstructure:"fragmented"`
	Validate        bool   `mapstructure:"validate"`
	Encoding        string `mapstructure:"encoding"`
	Trace           bool   `mapstructure:"trace"`
}

// app carries the state shared by all commands.
type app struct {
	out      io.Writer
	settings settings
	cfg      linebuf.Config
	enc      encoding.Encoding // nil for UTF-8
}

var flagKeys = map[string]string{
	"block-size":       "block_size",
	"index-sparseness": "index_sparseness",
	"fragmented":       "fragmented",
	"validate":         "validate",
	"encoding":         "encoding",
	"trace":            "trace",
}

func (a *app) configure(cmd *cobra.Command) error {
	v := viper.New()
	v.SetDefault("block_size", linebuf.DefaultBlockSize)
	v.SetDefault("index_sparseness", linebuf.DefaultIndexSparseness)
	v.SetDefault("fragmented", false)
	v.SetDefault("validate", false)
	v.SetDefault("encoding", "")
	v.SetDefault("trace", false)
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return err
		}
	}
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path, _ := cmd.Root().PersistentFlags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&a.settings); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if a.settings.Trace {
		gtrace.CoreTracer = gologadapter.New()
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	}
	a.cfg = linebuf.Config{
		BlockSize:       a.settings.BlockSize,
		IndexSparseness: a.settings.IndexSparseness,
		Fragmented:      a.settings.Fragmented,
		Validate:        a.settings.Validate,
	}
	a.enc = nil
	if name := a.settings.Encoding; name != "" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", name, err)
		}
		a.enc = enc
	}
	gtrace.CoreTracer.Debugf("splaytext: settings %+v", a.settings)
	return nil
}
