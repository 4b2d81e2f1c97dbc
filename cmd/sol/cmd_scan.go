package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dhamidi/sol/sol/parser"
)

type jsonToken struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Unreserved bool   `json:"unreserved,omitempty"`
}

func newScanCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a Sol source file and print its token stream",
		Long: `Scan reads a Sol source file and prints one entry per token.
Newline tokens are omitted from the output. Malformed input is reported
on stderr and scanning continues on the next line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "spew":
			default:
				return fmt.Errorf("unknown format %q (want text, json, or spew)", format)
			}
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("reading %s: %w", filename, err)
			}

			s := parser.NewScanner(data, filename)
			var tokens []parser.Token
			var rows []jsonToken
			for {
				tok, err := s.GetToken()
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s:%d: %v\n", filename, s.Line(), err)
					s.ReadLineAfterError()
					continue
				}
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenNewline {
					continue
				}
				switch format {
				case "text":
					fmt.Printf("%d:%d\t%s\t%s\n", s.StartLine(), s.ErrorColumn(), tok.Type, tok.Content)
				case "json":
					rows = append(rows, jsonToken{
						Type:       tok.Type.String(),
						Content:    tok.Content,
						Line:       s.StartLine(),
						Column:     s.ErrorColumn(),
						Unreserved: tok.IsUnreserved,
					})
				case "spew":
					tokens = append(tokens, tok)
				}
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rows); err != nil {
					return fmt.Errorf("encoding tokens: %w", err)
				}
			case "spew":
				fmt.Print(spew.Sdump(tokens))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or spew")

	return cmd
}
