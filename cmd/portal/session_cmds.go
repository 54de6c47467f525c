package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/application/navigation"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/timeutil"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the landing route",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("PORTAL_PASSWORD")
			}
			out := cmd.OutOrStdout()

			nav := navigation.NavigatorFunc(func(_ context.Context, route string) error {
				_, err := fmt.Fprintf(out, "-> %s\n", route)
				return err
			})
			flow := navigation.NewLoginFlow(rt.app.auth, rt.app.policy, nav, rt.app.log)

			route, err := flow.Run(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if route == "" {
				return failed(rt.app.auth.Snapshot().Status)
			}
			u := rt.app.auth.CurrentUser()
			if u == nil {
				return errNotSignedIn
			}
			fmt.Fprintf(out, "signed in as %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or PORTAL_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd(rt *runtime) *cobra.Command {
	var (
		input auth.SignupInput
		role  string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := auth.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			input.Role = r
			if input.Password == "" {
				input.Password = os.Getenv("PORTAL_PASSWORD")
			}

			if !rt.app.auth.Signup(cmd.Context(), input) {
				return failed(rt.app.auth.Snapshot().Status)
			}
			u := rt.app.auth.CurrentUser()
			if u == nil {
				return errNotSignedIn
			}
			route := rt.app.policy.Next(*u)
			fmt.Fprintf(cmd.OutOrStdout(), "account created\n-> %s\n", route)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.StudentCode, "code", "", "student code")
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password (or PORTAL_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", "student", "student or psychologist")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Run: func(cmd *cobra.Command, _ []string) {
			rt.app.auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the restored session",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			u := rt.app.auth.CurrentUser()
			if u == nil {
				fmt.Fprintln(out, "not signed in")
				return
			}
			fmt.Fprintf(out, "%s <%s> role=%s face_registered=%t\n", u.Name, u.Email, u.Role, u.HasFaceRegistered)
			if exp, ok := u.AccessTokenExpiry(); ok {
				fmt.Fprintf(out, "token expires %s\n", timeutil.FormatDateTimeStr(exp))
			}
		},
	}
}
