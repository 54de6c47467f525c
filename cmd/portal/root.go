package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jatmnk9/UNAYOE-web-sub001/config"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/store"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in, run `portal login` first")

// runtime is shared by every subcommand of one invocation.
type runtime struct {
	envFiles []string
	app      *app
}

// newRootCmd builds the command tree. The caller closes rt after Execute,
// since cobra skips post-run hooks when a command fails.
func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "portal",
		Short:         "UNAYOE wellness portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd)
		},
	}
	root.PersistentFlags().StringSliceVar(&rt.envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newLoginCmd(rt),
		newSignupCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newNotesCmd(rt),
		newAppointmentsCmd(rt),
		newRecommendationsCmd(rt),
		newAlertsCmd(rt),
		newVersionCmd(),
	)
	return root
}

func (rt *runtime) open(cmd *cobra.Command) error {
	cfg, err := config.Load(rt.envFiles...)
	if err != nil {
		return err
	}
	log := setupLogger(cfg)
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	rt.app = a
	return nil
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

// user returns the signed-in user or errNotSignedIn.
func (rt *runtime) user() (*auth.SessionUser, error) {
	u := rt.app.auth.CurrentUser()
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

// failed turns a store's recorded error into a command error.
func failed(st store.Status) error {
	if st.Error == "" {
		return errors.New("request failed")
	}
	return errors.New(st.Error)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Overrides the root hook: no config or session needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portal v%s (%s)\n", Version, GitCommit)
		},
	}
}
