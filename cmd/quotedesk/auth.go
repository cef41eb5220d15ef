/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/validate"
	"github.com/spf13/cobra"
)

const (
	msgLoginFailed      = "Identifiants invalides"
	msgRegisterFailed   = "Erreur lors de l'inscription"
	msgRegistered       = "Compte créé avec succès"
	msgLoggedOut        = "Déconnexion réussie"
	msgPasswordMismatch = "Les mots de passe ne correspondent pas"
	msgNotLoggedIn      = "Vous n'êtes pas connecté"
)

// NewLoginCmd creates the login command.
func NewLoginCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewLoginCmd: provider dependency cannot be nil")
	}
	var username, password string
	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in with a username and password. Missing values are read from
standard input. Tokens are kept in the local store for later commands.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			in := bufio.NewReader(c.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(in, c.OutOrStdout(), "Nom d'utilisateur: "); err != nil {
					return fmt.Errorf("read username: %w", err)
				}
			}
			if password == "" {
				if password, err = prompt(in, c.OutOrStdout(), "Mot de passe: "); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			user, err := facade.Call(ctx, rt.facade, func(ctx context.Context) (quote.User, error) {
				return rt.session.Login(ctx, api.Credentials{Username: username, Password: password})
			}, facade.Options{ErrorMessage: msgLoginFailed})
			if err != nil {
				return cmd.Reported(err)
			}
			rt.facade.Queue().Success(fmt.Sprintf("Connecté en tant que %s", displayUser(user)), "")
			return nil
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "Username")
	c.Flags().StringVarP(&password, "password", "p", "", "Password")
	return c
}

// NewRegisterCmd creates the register command.
func NewRegisterCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewRegisterCmd: provider dependency cannot be nil")
	}
	var reg api.Registration
	c := &cobra.Command{
		Use:   "register",
		Short: "Create a client account",
		Long: `Create a client account. The form is checked locally before it is sent;
on success the new session is kept when the backend returns tokens.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if problems := registrationProblems(reg); len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintln(c.ErrOrStderr(), p)
				}
				return fmt.Errorf("invalid registration form")
			}

			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			_, err = facade.Create(ctx, rt.facade, func(ctx context.Context) (quote.User, error) {
				u, _, err := rt.session.Register(ctx, reg)
				return u, err
			}, facade.Options{SuccessMessage: msgRegistered, ErrorMessage: msgRegisterFailed})
			return cmd.Reported(err)
		},
	}
	c.Flags().StringVar(&reg.Username, "username", "", "Username (required)")
	c.Flags().StringVar(&reg.Email, "email", "", "Email address (required)")
	c.Flags().StringVar(&reg.Password, "password", "", "Password (required)")
	c.Flags().StringVar(&reg.Password2, "password-confirm", "", "Password confirmation (required)")
	c.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	c.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	c.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	c.Flags().StringVar(&reg.CompanyName, "company", "", "Company name")
	return c
}

// registrationProblems returns one "field: message" line per invalid field.
func registrationProblems(reg api.Registration) []string {
	var problems []string
	add := func(field string, r validate.Result) {
		if !r.Valid {
			problems = append(problems, field+": "+r.Error)
		}
	}
	add("username", validate.MinLength(strings.TrimSpace(reg.Username), 3))
	add("email", validate.Email(reg.Email, true))
	add("password", validate.Password(reg.Password))
	add("phone", validate.Phone(reg.Phone, false))
	if reg.Password != reg.Password2 {
		problems = append(problems, "password-confirm: "+msgPasswordMismatch)
	}
	return problems
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewLogoutCmd: provider dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			if err := rt.session.Logout(ctx); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			rt.facade.Queue().Success(msgLoggedOut, "")
			return nil
		},
	}
}

// whoami is the JSON shape of the whoami command.
type whoami struct {
	User      quote.User `json:"user"`
	ExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	DarkMode  bool       `json:"dark_mode"`
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewWhoamiCmd: provider dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			style, err := outputStyle()
			if err != nil {
				return err
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			if !rt.session.IsAuthenticated() {
				return errors.New(msgNotLoggedIn)
			}
			user, err := facade.Get(ctx, rt.facade, rt.session.FetchProfile, facade.Options{})
			if err != nil {
				return cmd.Reported(err)
			}

			out := whoami{User: user, DarkMode: rt.session.DarkMode()}
			if exp, ok := rt.session.AccessExpiry(); ok {
				out.ExpiresAt = &exp
			}
			w := c.OutOrStdout()
			if style == format.StyleJSON {
				return format.WriteJSON(w, out)
			}
			fmt.Fprintf(w, "%-12s %s\n", "Utilisateur:", user.Username)
			fmt.Fprintf(w, "%-12s %s\n", "Nom:", orNA(user.FullName()))
			fmt.Fprintf(w, "%-12s %s\n", "Email:", orNA(user.Email))
			if user.CompanyName != "" {
				fmt.Fprintf(w, "%-12s %s\n", "Société:", user.CompanyName)
			}
			role := "client"
			if user.IsStaff {
				role = "admin"
			}
			fmt.Fprintf(w, "%-12s %s\n", "Rôle:", role)
			if out.ExpiresAt != nil {
				fmt.Fprintf(w, "%-12s %s\n", "Jeton:", "expire le "+format.DateTime(*out.ExpiresAt))
			}
			return nil
		},
	}
}

func displayUser(u quote.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func init() {
	cmd.RootCmd.AddCommand(NewLoginCmd(deps.env))
	cmd.RootCmd.AddCommand(NewRegisterCmd(deps.env))
	cmd.RootCmd.AddCommand(NewLogoutCmd(deps.env))
	cmd.RootCmd.AddCommand(NewWhoamiCmd(deps.env))
}
