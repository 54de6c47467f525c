package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/appointment"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTES
// ══════════════════════════════════════════════════════════════════════════════

func newNotesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{Use: "notes", Short: "Diary notes"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your notes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			if !rt.app.diary.FetchNotes(cmd.Context(), u.ID) {
				return failed(rt.app.diary.Snapshot().Status)
			}

			notes := rt.app.diary.Snapshot().Notes
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no notes yet")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tSENTIMENT\tEMOTION\tTEXT")
			for _, n := range notes {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					n.ID, timeutil.FormatDateTimeStr(n.CreatedAt), n.Sentiment, n.EmotionLabel, truncate(n.Text, 60))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TEXT...",
		Short: "Write a note and print the accompaniment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			created, ok := rt.app.diary.CreateNote(cmd.Context(), diary.NoteInput{
				UserID: u.ID,
				Text:   strings.Join(args, " "),
			})
			if !ok {
				return failed(rt.app.diary.Snapshot().Status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "note %d saved\n", created.ID)
			if !created.Accompaniment.IsEmpty() {
				fmt.Fprintln(out, created.Accompaniment.Text())
			}
			rt.app.diary.ClearAccompaniment()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !rt.app.diary.DeleteNote(cmd.Context(), id, u.ID) {
				return failed(rt.app.diary.Snapshot().Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d deleted\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show sentiment and emotion counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			if !rt.app.diary.FetchStatistics(cmd.Context(), u.ID) {
				return failed(rt.app.diary.Snapshot().Status)
			}

			st := rt.app.diary.Snapshot().Statistics
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total notes: %d\n", st.TotalNotes)
			for _, s := range []diary.Sentiment{diary.SentimentPositive, diary.SentimentNeutral, diary.SentimentNegative} {
				fmt.Fprintf(out, "  %s: %d\n", s, st.Sentiments[string(s)])
			}
			for _, tc := range st.TermFrequency {
				fmt.Fprintf(out, "  %q x%d\n", tc.Term, tc.Count)
			}
			return nil
		},
	})

	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// APPOINTMENTS
// ══════════════════════════════════════════════════════════════════════════════

func newAppointmentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{Use: "appointments", Short: "Appointments with psychologists"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your appointments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			if !rt.app.appointments.GetUserAppointments(cmd.Context(), u.ID) {
				return failed(rt.app.appointments.Snapshot().Status)
			}

			list := rt.app.appointments.Snapshot().Appointments
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tSTATUS\tTITLE\tPSYCHOLOGIST")
			for _, a := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					a.ID, timeutil.FormatDateTimeStr(a.ScheduledAt), a.Status, a.Title, orDash(a.PsychologistName))
			}
			return w.Flush()
		},
	})

	var title, at string
	book := &cobra.Command{
		Use:   "book",
		Short: "Request an appointment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			when, err := time.ParseInLocation(timeutil.FormatDateTime, at, timeutil.LimaTZ)
			if err != nil {
				return fmt.Errorf("--at must look like %q: %w", timeutil.FormatDateTime, err)
			}
			if !rt.app.appointments.CreateAppointment(cmd.Context(), u.ID, appointment.Input{Title: title, ScheduledAt: when}) {
				return failed(rt.app.appointments.Snapshot().Status)
			}
			created := rt.app.appointments.Snapshot().Appointments[0]
			fmt.Fprintf(cmd.OutOrStdout(), "appointment %d requested (%s)\n", created.ID, created.Status)
			return nil
		},
	}
	book.Flags().StringVar(&title, "title", "", "reason for the appointment")
	book.Flags().StringVar(&at, "at", "", "date and time, Lima time ("+timeutil.FormatDateTime+")")
	_ = book.MarkFlagRequired("at")
	cmd.AddCommand(book)

	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATIONS
// ══════════════════════════════════════════════════════════════════════════════

func newRecommendationsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{Use: "recommendations", Aliases: []string{"recs"}, Short: "Wellness recommendations"}

	var personalized bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recommendations and your likes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			recs := rt.app.recommendations
			ctx := cmd.Context()

			if personalized {
				if !recs.FetchPersonalized(ctx, u.ID) {
					return failed(recs.Snapshot().Status)
				}
			} else if !recs.FetchRecommendations(ctx) {
				return failed(recs.Snapshot().Status)
			}
			recs.FetchUserLikes(ctx, u.ID)

			snap := recs.Snapshot()
			items := snap.Recommendations
			out := cmd.OutOrStdout()
			if personalized && snap.Personalized != nil {
				items = snap.Personalized.Recommendations
				fmt.Fprintf(out, "detected: %s / %s\n", orDash(snap.Personalized.DetectedEmotion), snap.Personalized.DetectedSentiment)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLIKED\tCATEGORY\tTITLE")
			for _, r := range items {
				liked := ""
				if snap.IsLiked(r.ID) {
					liked = "*"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, liked, orDash(r.Category), r.Title)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&personalized, "personalized", false, "recommendations based on your last note")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "like ID",
		Short: "Toggle your like on a recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := rt.user()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			recs := rt.app.recommendations
			recs.FetchUserLikes(cmd.Context(), u.ID)
			if !recs.ToggleLike(cmd.Context(), u.ID, id) {
				return failed(recs.Snapshot().Status)
			}
			state := "unliked"
			if recs.Snapshot().IsLiked(id) {
				state = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recommendation %d %s\n", id, state)
			return nil
		},
	})

	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
