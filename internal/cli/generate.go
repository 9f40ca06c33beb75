// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/sitegen-tui/internal/generate"
	"github.com/jeranaias/sitegen-tui/internal/util"
)

var errEmptyPrompt = errors.New(generate.MsgEmptyPrompt)

type generateOptions struct {
	out   string
	code  string
	stats bool
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate a document from a prompt",
		Long: `Generate streams the document to stdout as it arrives. With --out the
document is written to a file instead. --code sends an existing document
along so the prompt refines it. Without arguments the prompt is read from
stdin.`,
		Example: `  sitegen generate "a landing page for a bakery"
  sitegen generate -o index.html "a photographer portfolio"
  sitegen generate --code index.html "add a pricing table"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the document to this file")
	cmd.Flags().StringVarP(&opts.code, "code", "c", "", "start from this HTML file")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print stream statistics to stderr")
	return cmd
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, opts *generateOptions, args []string) error {
	prompt := strings.Join(args, " ")
	if strings.TrimSpace(prompt) == "" {
		if in := cmd.InOrStdin(); !isTerminal(in) {
			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read prompt: %w", err)
			}
			prompt = string(data)
		}
	}
	if strings.TrimSpace(prompt) == "" {
		return errEmptyPrompt
	}

	e, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer e.close()

	client, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	h := newHeadless(cmd.Context(), client)
	if opts.code != "" {
		data, err := os.ReadFile(opts.code)
		if err != nil {
			return fmt.Errorf("read code: %w", err)
		}
		h.ws.Editor.SetText(string(data))
	}
	if opts.out == "" {
		h.chunks = e.out
	}

	if err := h.generate(prompt); err != nil {
		return err
	}

	doc := h.ws.Document()
	if opts.out != "" {
		if err := util.WriteFileAtomic(opts.out, []byte(doc), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(e.errOut, SuccessStyle.Render("✓")+" wrote "+opts.out)
	} else if isTerminal(e.out) && !strings.HasSuffix(doc, "\n") {
		fmt.Fprintln(e.out)
	}

	if opts.stats && h.stream != nil {
		fmt.Fprintln(e.errOut, MutedStyle.Render(h.stream.Stats().Format()))
	}
	return nil
}
