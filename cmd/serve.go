package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/thetaquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		judgeKind, _ := cmd.Flags().GetString("judge")
		rt, err := buildDeps(cmd, judgeKind)
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := rt.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(rt.engine, cfg, server.WithLogger(rt.logger))
		rt.logger.Info("listening", "addr", cfg.Addr, "judge", rt.cfg.Judge.Kind)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("judge", "", "Judge kind: remote, llm or exact (overrides judge.kind)")
}
