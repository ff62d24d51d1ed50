package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/rx-admin/internal/browser"
	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive prescription browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.browse(cmd.Context())
		},
	}
}

func completer() *readline.PrefixCompleter {
	var statuses []readline.PrefixCompleterInterface
	for _, s := range model.PrescriptionStatuses {
		statuses = append(statuses, readline.PcItem(string(s)))
	}
	var operators []readline.PrefixCompleterInterface
	for _, op := range filter.Operators {
		operators = append(operators, readline.PcItem(string(op)))
	}

	var items []readline.PrefixCompleterInterface
	for _, w := range browser.Words() {
		switch {
		case w == "status":
			items = append(items, readline.PcItem(w, statuses...))
		case strings.HasSuffix(w, "-op"):
			items = append(items, readline.PcItem(w, operators...))
		default:
			items = append(items, readline.PcItem(w))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

func (a *app) browse(ctx context.Context) error {
	writer, err := browser.NewWriter(a.output)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:              browser.Prompt(nil),
		AutoComplete:        completer(),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	var shell *browser.Shell
	session := browser.NewSession(ctx, client.Prescriptions,
		browser.WithLogger(a.log),
		browser.WithFilterOptions(filter.WithDelay(a.cfg.Client.Debounce)),
		browser.WithListener(func(v browser.View) {
			if shell != nil {
				shell.Print(v)
				rl.SetPrompt(browser.Prompt(v.Filters))
				rl.Refresh()
			}
		}),
	)
	defer session.Close()
	shell = browser.NewShell(session, rl.Stdout(), writer)

	if _, err := shell.Exec(ctx, "show"); err != nil {
		fmt.Fprintln(rl.Stderr(), "error:", err)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		done, err := shell.Exec(ctx, line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), "error:", err)
			continue
		}
		if done {
			return nil
		}
	}
}
