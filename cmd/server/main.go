package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/quizcast/internal/config"
	"github.com/kiliankoe/quizcast/internal/display"
	"github.com/kiliankoe/quizcast/internal/ws"
	staticserver "github.com/kiliankoe/quizcast/static"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "v1.0.0-dev"

func newCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quizcast",
		Short:   "Big-screen display server for party trivia nights.",
		Args:    cobra.ExactArgs(0),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cfg.RegisterFlags(cmd.Flags())
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizcast {{.Version}}\n")
	cmd.SilenceUsage = true
	return cmd
}

func serve(cfg *config.Config) error {
	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + display session. The socket server is both the
	// snapshot sink and the layout source for the session.
	sock := ws.New()
	exportFile := ""
	if cfg.ExportEnabled {
		exportFile = cfg.ExportFile
	}
	sess := display.NewSession(display.Options{
		Logger:     zerologlog.Logger,
		Sink:       sock,
		Layout:     sock,
		ExportFile: exportFile,
	})
	sock.SetSession(sess)
	io := sock.Mount(r)
	defer io.Close()

	// Current session lookup for reconnecting clients
	r.GET("/api/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID})
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("addr", cfg.Addr()).Msg("listening")
	return r.Run(cfg.Addr())
}

func main() {
	var cfg config.Config
	if err := newCmd(&cfg).Execute(); err != nil {
		zerologlog.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
