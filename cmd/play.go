package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/thetaquiz/internal/app"
	"github.com/abhisek/thetaquiz/internal/config"
	"github.com/abhisek/thetaquiz/internal/screen"
	"github.com/abhisek/thetaquiz/internal/screens/history"
	"github.com/abhisek/thetaquiz/internal/screens/setup"
	"github.com/abhisek/thetaquiz/internal/screens/welcome"
)

type playOptions struct {
	offline  bool
	category string
	rounds   int
	noSplash bool
}

var playFlags playOptions

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an adaptive session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, playFlags)
	},
}

func init() {
	playCmd.Flags().BoolVar(&playFlags.offline, "offline", false, "Grade answers locally instead of calling a judge service")
	playCmd.Flags().StringVar(&playFlags.category, "category", "", "Preselect a QBReader category")
	playCmd.Flags().IntVar(&playFlags.rounds, "rounds", 0, "Prefill the number of rounds")
	playCmd.Flags().BoolVar(&playFlags.noSplash, "no-splash", false, "Skip the splash screen")
}

// runPlay builds the engine and launches the TUI on the setup screen.
func runPlay(cmd *cobra.Command, opts playOptions) error {
	judgeKind := ""
	if opts.offline {
		judgeKind = config.JudgeExact
	}
	rt, err := buildDeps(cmd, judgeKind)
	if err != nil {
		return err
	}
	defer rt.Close()

	rounds := rt.cfg.Session.DefaultRounds
	if opts.rounds > 0 {
		rounds = opts.rounds
	}
	timeout := rt.cfg.Server.RequestTimeout
	setupOpts := []setup.Option{
		setup.WithHistory(func() screen.Screen {
			return history.New(rt.store.Sessions(), rt.engine, timeout)
		}),
	}
	if opts.category != "" {
		setupOpts = append(setupOpts, setup.WithCategory(opts.category))
	}
	newSetup := func() screen.Screen {
		return setup.New(rt.engine, rounds, timeout, setupOpts...)
	}
	if opts.noSplash {
		return app.Run(newSetup())
	}
	return app.Run(welcome.New(newSetup))
}
