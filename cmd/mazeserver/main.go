// Command mazeserver runs the maze-race matchmaking and game server: a
// raw framed-TCP listener, a single-writer reactor dispatching JOIN
// through GAME_END, and procedurally generated maze rooms.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mazerace/server/config"
	"github.com/mazerace/server/internal/game"
	"github.com/mazerace/server/internal/handler"
	"github.com/mazerace/server/internal/reactor"
	"github.com/mazerace/server/internal/registry"
	"github.com/mazerace/server/internal/result"
	"github.com/mazerace/server/internal/state"
	"github.com/mazerace/server/internal/telemetry"
	"github.com/mazerace/server/internal/timer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MAZERACE")
	v.AutomaticEnv()

	runE := func(cmd *cobra.Command, args []string) error {
		return runServe(v)
	}

	root := &cobra.Command{
		Use:   "mazeserver",
		Short: "Maze-race matchmaking and game server",
		RunE:  runE, // serve is the implicit default when no subcommand is named
	}
	root.PersistentFlags().Int("port", config.DefaultPort, "TCP port to listen on")
	root.PersistentFlags().Int("batch-size", config.DefaultBatchSize, "players per room")
	root.PersistentFlags().Int("countdown-seconds", config.DefaultCountdownSeconds, "countdown length before game_start")
	root.PersistentFlags().Duration("queue-timeout", config.DefaultQueueTimeout, "create a room with whoever is waiting after this long (0 disables)")
	root.PersistentFlags().String("config", "", "optional config file (yaml/json/toml)")

	v.BindPFlag("port", root.PersistentFlags().Lookup("port"))
	v.BindPFlag("batch_size", root.PersistentFlags().Lookup("batch-size"))
	v.BindPFlag("countdown_seconds", root.PersistentFlags().Lookup("countdown-seconds"))
	v.BindPFlag("queue_timeout", root.PersistentFlags().Lookup("queue-timeout"))
	v.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the server",
		RunE:  runE,
	}
	root.AddCommand(serve)

	return root
}

func runServe(v *viper.Viper) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &config.Config{
		Port:             v.GetInt("port"),
		BatchSize:        v.GetInt("batch_size"),
		CountdownSeconds: v.GetInt("countdown_seconds"),
		QueueTimeout:     v.GetDuration("queue_timeout"),
	}

	logger, err := telemetry.New()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", cfg.Port, err)
	}
	defer ln.Close()

	startedAt := time.Now()
	timerSvc := timer.New()
	react := reactor.New(logger, timerSvc)

	reg := registry.New()
	st := state.New()
	sink := result.NewLogSink(logger)

	netHandler := handler.NewNetHandler(react, reg, st, game.NewIDGenerator(), cfg, logger)
	gameHandler := handler.NewGameHandler(react, reg, st, sink, cfg, logger, startedAt)
	react.SetHandlers(netHandler, gameHandler)

	go react.LogStats(st, config.StatsLogInterval)

	logger.Infow("mazeserver listening",
		"port", cfg.Port, "batch_size", cfg.BatchSize,
		"countdown_seconds", cfg.CountdownSeconds, "queue_timeout", cfg.QueueTimeout)

	return react.Serve(ln)
}
