package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/navigation"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/scheduler"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/scheduler/jobs"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/timeutil"
)

var errNotPsychologist = errors.New("alerts are only available to psychologists")

func newAlertsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{Use: "alerts", Short: "Student risk alerts (psychologists)"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List alerts about your students",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := rt.psychologistID()
			if err != nil {
				return err
			}
			ps := rt.app.psychologist
			if !ps.FetchAlerts(cmd.Context(), id) {
				return failed(ps.Snapshot().Status)
			}

			snap := ps.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d unread\n", snap.UnreadAlerts())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREAD\tWHEN\tLEVEL\tSTUDENT\tMESSAGE")
			for _, a := range snap.Alerts {
				fmt.Fprintf(w, "%d\t%t\t%s\t%s\t%s\t%s\n",
					a.ID, a.Read, timeutil.FormatRelative(a.CreatedAt), orDash(a.Level), orDash(a.StudentName), truncate(a.Message, 60))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read ID",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.psychologistID(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !rt.app.psychologist.MarkAlertAsRead(cmd.Context(), id) {
				return failed(rt.app.psychologist.Snapshot().Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alert %d marked read\n", id)
			return nil
		},
	})

	cmd.AddCommand(newWatchCmd(rt))
	return cmd
}

// newWatchCmd refreshes the dashboard on an interval and prints alerts as
// they appear, until interrupted.
func newWatchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh the dashboard periodically and print new alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.psychologistID(); err != nil {
				return err
			}
			a := rt.app
			out := cmd.OutOrStdout()

			if err := a.bus.Subscribe(shared.EventAlertsRaised, func(e shared.Event) error {
				raised, ok := e.(*shared.AlertsRaisedEvent)
				if !ok {
					return nil
				}
				_, err := fmt.Fprintf(out, "new alerts: %v\n", raised.AlertIDs)
				return err
			}); err != nil {
				return err
			}
			if err := a.bus.Subscribe(shared.EventSessionEnded, func(shared.Event) error {
				_, err := fmt.Fprintf(out, "session ended -> %s\n", navigation.RouteLogin)
				return err
			}); err != nil {
				return err
			}

			job := jobs.NewAlertWatchJob(a.psychologist, func() string {
				id, _ := rt.psychologistID()
				return id
			}, a.bus, a.log)

			cfg := scheduler.DefaultConfig()
			cfg.Logger = a.log
			sched := scheduler.New(cfg)
			interval := scheduler.Every(a.cfg.Store.AlertWatchInterval)
			if err := sched.Register(job, interval); err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := sched.RunNow(ctx, job.Name()); err != nil {
				logger.FromContext(ctx).Warn("initial refresh failed", logger.Err(err))
			}
			if !a.cfg.Store.AlertWatchEnabled {
				return nil
			}

			if err := sched.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "watching alerts %s, Ctrl+C to stop\n", interval)
			<-ctx.Done()
			return sched.Stop()
		},
	}
}

// psychologistID returns the signed-in psychologist's id.
func (rt *runtime) psychologistID() (string, error) {
	u, err := rt.user()
	if err != nil {
		return "", err
	}
	if u.Role != auth.RolePsychologist {
		return "", errNotPsychologist
	}
	return u.ID, nil
}
