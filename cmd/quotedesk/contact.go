/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/validate"
	"github.com/spf13/cobra"
)

const (
	msgContactSent   = "Message envoyé avec succès"
	msgContactFailed = "Erreur lors de l'envoi du message"
)

// NewContactCmd creates the contact command and its subcommands.
func NewContactCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewContactCmd: provider dependency cannot be nil")
	}
	c := &cobra.Command{
		Use:   "contact",
		Short: "Send or read contact messages",
	}
	c.AddCommand(newContactSendCmd(provide), newContactListCmd(provide), newContactReadCmd(provide))
	return c
}

func newContactSendCmd(provide provider) *cobra.Command {
	var m api.ContactMessage
	c := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			res := validate.ContactData(map[string]any{
				"name":    strings.TrimSpace(m.Name),
				"email":   strings.TrimSpace(m.Email),
				"phone":   strings.TrimSpace(m.Phone),
				"subject": strings.TrimSpace(m.Subject),
				"message": strings.TrimSpace(m.Message),
			})
			if !res.Valid {
				for _, field := range res.Fields() {
					fmt.Fprintf(c.ErrOrStderr(), "%s: %s\n", field, res.Errors[field])
				}
				return fmt.Errorf("invalid contact form")
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			_, err = facade.Create(ctx, rt.facade, func(ctx context.Context) (api.ContactMessage, error) {
				return rt.backend.SendContact(ctx, m)
			}, facade.Options{SuccessMessage: msgContactSent, ErrorMessage: msgContactFailed})
			return cmd.Reported(err)
		},
	}
	c.Flags().StringVar(&m.Name, "name", "", "Your name (required)")
	c.Flags().StringVar(&m.Email, "email", "", "Your email address (required)")
	c.Flags().StringVar(&m.Phone, "phone", "", "Your phone number")
	c.Flags().StringVar(&m.Subject, "subject", "", "Subject (required)")
	c.Flags().StringVarP(&m.Message, "message", "m", "", "Message, at least 10 characters (required)")
	return c
}

func newContactListCmd(provide provider) *cobra.Command {
	var unread bool
	c := &cobra.Command{
		Use:   "list",
		Short: "List received contact messages",
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
			msgs, err := facade.Get(ctx, rt.facade, rt.backend.ContactMessages, facade.Options{})
			if err != nil {
				return cmd.Reported(err)
			}
			if unread {
				kept := msgs[:0]
				for _, m := range msgs {
					if !m.IsRead {
						kept = append(kept, m)
					}
				}
				msgs = kept
			}

			w := c.OutOrStdout()
			switch style {
			case format.StyleJSON:
				if msgs == nil {
					msgs = []api.ContactMessage{}
				}
				return format.WriteJSON(w, msgs)
			case format.StyleCompact:
				return format.WriteCompact(w, msgs, func(m api.ContactMessage) string {
					return fmt.Sprintf("%d %s <%s> %s", m.ID, m.Name, m.Email, m.Subject)
				})
			}
			if len(msgs) == 0 {
				_, err := fmt.Fprintln(w, "Aucun message")
				return err
			}
			table := format.NewTable(
				format.Column[api.ContactMessage]{Name: "ID", Width: 5, Alignment: "right", Value: func(m api.ContactMessage) string { return strconv.Itoa(m.ID) }},
				format.Column[api.ContactMessage]{Name: "DATE", Width: 10, Value: func(m api.ContactMessage) string { return format.DateString(m.CreatedAt) }},
				format.Column[api.ContactMessage]{Name: "NOM", Width: 20, Value: func(m api.ContactMessage) string { return m.Name }},
				format.Column[api.ContactMessage]{Name: "EMAIL", Width: 26, Value: func(m api.ContactMessage) string { return m.Email }},
				format.Column[api.ContactMessage]{Name: "STATUT", Width: 8, Value: func(m api.ContactMessage) string { return orNA(m.Status) }},
				format.Column[api.ContactMessage]{Name: "SUJET", Width: 30, Value: func(m api.ContactMessage) string { return m.Subject }},
			)
			return table.Render(msgs, w)
		},
	}
	c.Flags().BoolVar(&unread, "unread", false, "Only unread messages")
	return c
}

func newContactReadCmd(provide provider) *cobra.Command {
	return &cobra.Command{
		Use:   "read ID",
		Short: "Print a contact message and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid message id %q", args[0])
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			m, err := facade.Get(ctx, rt.facade, func(ctx context.Context) (api.ContactMessage, error) {
				return rt.backend.ContactMessageByID(ctx, id)
			}, facade.Options{})
			if err != nil {
				return cmd.Reported(err)
			}
			w := c.OutOrStdout()
			fmt.Fprintf(w, "De:    %s <%s>\n", m.Name, m.Email)
			if m.Phone != "" {
				fmt.Fprintf(w, "Tél:   %s\n", format.Phone(m.Phone))
			}
			fmt.Fprintf(w, "Sujet: %s\n\n%s\n", m.Subject, m.Message)
			if m.IsRead {
				return nil
			}
			_, err = facade.Update(ctx, rt.facade, func(ctx context.Context) (api.ContactMessage, error) {
				return rt.backend.UpdateContactMessage(ctx, id, map[string]any{"is_read": true, "status": "read"})
			}, facade.Options{QuietSuccess: true})
			return cmd.Reported(err)
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewContactCmd(deps.env))
}
