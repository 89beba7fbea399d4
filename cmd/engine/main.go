package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duopane/engine/internal/config"
	"github.com/duopane/engine/internal/credstore"
	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/internal/discovery"
	"github.com/duopane/engine/internal/knownshares"
	"github.com/duopane/engine/internal/listing"
	"github.com/duopane/engine/internal/metrics"
	"github.com/duopane/engine/internal/mountadapter"
	"github.com/duopane/engine/internal/rpc"
	"github.com/duopane/engine/internal/smbshare"
	"github.com/duopane/engine/internal/syncstatus"
	"github.com/duopane/engine/internal/volume"
	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var cfg = config.NewDefault()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "duopane-engine - the backend engine of a dual-pane file manager",
	Long: `duopane-engine serves directory listings, filesystem change
events, SMB network discovery, and cloud sync status to a UI shell over
a local HTTP/WebSocket command surface.`,
	Version: Version,
	RunE:    runServe,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("duopane-engine version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", cfg.Global.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", cfg.Global.LogJSON, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("data-dir", cfg.Global.DataDir, "Directory for known-shares.json and other engine state")
	rootCmd.PersistentFlags().String("listen", cfg.RPC.ListenAddress, "HTTP/WebSocket listen address")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file overriding the defaults")

	cobra.OnInitialize(loadConfig)
}

// loadConfig overlays, in order: built-in defaults, an optional --config
// file, DUOPANE_* environment variables, then explicit flags, matching
// the layering the teacher's config package describes.
func loadConfig() {
	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Global.LogLevel = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("log-json"); rootCmd.PersistentFlags().Changed("log-json") {
		cfg.Global.LogJSON = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("data-dir"); rootCmd.PersistentFlags().Changed("data-dir") {
		cfg.Global.DataDir = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("listen"); rootCmd.PersistentFlags().Changed("listen") {
		cfg.RPC.ListenAddress = v
	}

	log.Init(log.Config{
		Level:      log.Level(strings.ToLower(cfg.Global.LogLevel)),
		JSONOutput: cfg.Global.LogJSON,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(cfg.Global.DataDir, 0750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Port:      cfg.Metrics.Port,
		Path:      "/metrics",
		Namespace: "duopane",
		Subsystem: "engine",
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	volumes := volume.NewManager()
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	volumes.Register("home", volume.NewLocalVolume(home))
	if err := volumes.SetDefault("home"); err != nil {
		return fmt.Errorf("set default volume: %w", err)
	}

	// server is wired in below, but listings and discovery need an event
	// callback at construction time; these forwarding closures defer to
	// server once it exists, after which it outlives the process.
	var server *rpc.Server
	listings := listing.NewCache(cfg.Watcher.DebounceInterval, func(evt types.DirectoryDiffEvent) {
		if server != nil {
			server.OnDirectoryDiff(evt)
		}
	})

	disc := discovery.NewBrowser(discovery.Events{
		HostFound: func(h types.NetworkHost) {
			if server != nil {
				server.EmitHostFound(h)
			}
		},
		HostResolved: func(h types.NetworkHost) {
			if server != nil {
				server.EmitHostResolved(h)
			}
		},
		HostLost: func(id string) {
			if server != nil {
				server.EmitHostLost(id)
			}
		},
		StateChanged: func(st types.DiscoveryState) {
			if server != nil {
				server.EmitDiscoveryState(st)
			}
		},
	})

	shares := smbshare.NewEnumerator(cfg.SMB.CacheTTL, cfg.SMB.ConnectTimeout)
	creds := credstore.NewStore("")
	known, err := knownshares.NewStore(cfg.Global.DataDir)
	if err != nil {
		return fmt.Errorf("load known shares: %w", err)
	}
	mounts := mountadapter.NewAdapter()
	prober := syncstatus.NewProber()
	extended := dirreader.NewReader()

	server = rpc.NewServer(volumes, listings, disc, shares, creds, known, mounts, prober, extended, collector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if cfg.Discovery.Enabled {
		if err := disc.Start(ctx); err != nil {
			log.WithComponent("cmd").Warn().Err(err).Msg("mDNS discovery failed to start")
		}
	}
	if err := collector.Start(ctx); err != nil {
		log.WithComponent("cmd").Warn().Err(err).Msg("metrics exporter failed to start")
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithComponent("cmd").Info().Str("addr", cfg.RPC.ListenAddress).Msg("engine listening")
		errCh <- server.ListenAndServe(cfg.RPC.ListenAddress)
	}()

	select {
	case <-ctx.Done():
		log.WithComponent("cmd").Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("rpc server: %w", err)
		}
	}

	disc.Stop()
	return collector.Stop(context.Background())
}
