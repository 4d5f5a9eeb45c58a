package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/soupgym/soupgym/internal/api"
	"github.com/soupgym/soupgym/internal/sandbox"
	"github.com/soupgym/soupgym/internal/verify"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP grading API",
	Long: `Serve the grading API: task rendering, sandboxed execution and
grading over HTTP, with Prometheus metrics when enabled. Episodes are
independent, so the server scales embarrassingly parallel behind any
load balancer.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	executor, err := sandbox.New(cfg.Sandbox)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(registry, executor, verify.NewEngine(cfg.Reward))
	server.SetStore(db)
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	fmt.Printf("soupgym API listening on http://%s\n", addr)
	return http.ListenAndServe(addr, server.Handler())
}
