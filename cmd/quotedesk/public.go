/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/spf13/cobra"
)

const (
	msgSigned     = "Devis signé avec succès"
	msgSignFailed = "Erreur lors de la signature du devis"
)

// NewPublicCmd creates the commands used by clients holding a signature link.
func NewPublicCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewPublicCmd: provider dependency cannot be nil")
	}
	c := &cobra.Command{
		Use:   "public",
		Short: "View or sign a quote from its signature token",
		Long:  `View or sign a quote from the token of its signature link. No account is needed.`,
	}
	c.AddCommand(newPublicShowCmd(provide), newPublicSignCmd(provide))
	return c
}

func newPublicShowCmd(provide provider) *cobra.Command {
	return &cobra.Command{
		Use:   "show TOKEN",
		Short: "Show the quote behind a signature token",
		Args:  cobra.ExactArgs(1),
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
			q, err := facade.Get(ctx, rt.facade, func(ctx context.Context) (quote.Quote, error) {
				return rt.backend.PublicQuote(ctx, strings.TrimSpace(args[0]))
			}, facade.Options{})
			if err != nil {
				return cmd.Reported(err)
			}
			if style == format.StyleJSON {
				return format.WriteJSON(c.OutOrStdout(), q)
			}
			return printQuoteDetail(c.OutOrStdout(), q)
		},
	}
}

func newPublicSignCmd(provide provider) *cobra.Command {
	var name, signature, signatureFile string
	c := &cobra.Command{
		Use:   "sign TOKEN",
		Short: "Accept a quote with a signature",
		Long: `Accept a quote with a signature. The signature is either typed with
--signature or read from an image with --signature-file, which is sent
as a data URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			data, err := signatureData(signature, signatureFile)
			if err != nil {
				return err
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			res, err := facade.Call(ctx, rt.facade, func(ctx context.Context) (api.SignResult, error) {
				return rt.backend.SignQuote(ctx, strings.TrimSpace(args[0]), api.Signature{SignatureData: data, ClientName: strings.TrimSpace(name)})
			}, facade.Options{SuccessMessage: msgSigned, ErrorMessage: msgSignFailed})
			if err != nil {
				return cmd.Reported(err)
			}
			if res.Quote.QuoteNumber != "" {
				fmt.Fprintf(c.OutOrStdout(), "%s %s\n", res.Quote.QuoteNumber, res.Quote.Status.Label())
			}
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "Name of the signing client (required)")
	c.Flags().StringVar(&signature, "signature", "", "Typed signature")
	c.Flags().StringVar(&signatureFile, "signature-file", "", "Image file holding the signature")
	c.MarkFlagsMutuallyExclusive("signature", "signature-file")
	c.MarkFlagsOneRequired("signature", "signature-file")
	return c
}

// signatureData returns the typed signature, or the file as a base64 data URL.
func signatureData(typed, path string) (string, error) {
	if path == "" {
		if strings.TrimSpace(typed) == "" {
			return "", fmt.Errorf("signature is empty")
		}
		return typed, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read signature: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("signature file %s is empty", path)
	}
	mime := http.DetectContentType(raw)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func init() {
	cmd.RootCmd.AddCommand(NewPublicCmd(deps.env))
}
