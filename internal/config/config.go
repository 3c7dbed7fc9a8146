package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind          string
	Port          int
	Verbose       bool
	ExportEnabled bool
	ExportFile    string
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.ExportEnabled && c.ExportFile == "" {
		return fmt.Errorf("--export-file must be set when --export is enabled")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// RegisterFlags declares the command line flags and maps QUIZCAST_* env
// vars onto them. Explicit flags win over the environment.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("QUIZCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZCAST_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 8080, "port to listen on (env: QUIZCAST_PORT)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "enable debug logging (env: QUIZCAST_VERBOSE)")
	fs.BoolVar(&c.ExportEnabled, "export", false, "append final standings to a file after each game (env: QUIZCAST_EXPORT)")
	fs.StringVar(&c.ExportFile, "export-file", "quizcast-results.txt", "file to append final standings to (env: QUIZCAST_EXPORT_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
