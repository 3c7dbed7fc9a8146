package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{Bind: "0.0.0.0", Port: 8080, ExportFile: "r.txt"}, false},
		{"port too low", Config{Port: 0}, true},
		{"port too high", Config{Port: 70000}, true},
		{"export without file", Config{Port: 8080, ExportEnabled: true}, true},
		{"export with file", Config{Port: 8080, ExportEnabled: true, ExportFile: "r.txt"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRegisterFlagsDefaults(t *testing.T) {
	var cfg Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, "0.0.0.0", cfg.Bind)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.ExportEnabled)
	require.Equal(t, "quizcast-results.txt", cfg.ExportFile)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestRegisterFlagsEnvOverride(t *testing.T) {
	t.Setenv("QUIZCAST_PORT", "3000")
	t.Setenv("QUIZCAST_EXPORT", "true")

	var cfg Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, 3000, cfg.Port)
	require.True(t, cfg.ExportEnabled)
}

func TestRegisterFlagsFlagBeatsEnv(t *testing.T) {
	t.Setenv("QUIZCAST_PORT", "3000")

	var cfg Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "4000"}))

	require.Equal(t, 4000, cfg.Port)
}
