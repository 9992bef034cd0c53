package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/equipt/internal/ledger"
	"github.com/idilsaglam/equipt/internal/model"
	"github.com/idilsaglam/equipt/internal/ui"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <item...> <cost>",
		Short: "Add an item; the last argument is its cost",
		Example: `  equipt add Dumbbells 45.50
  equipt add Adjustable bench 120`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usageError("usage: equipt add <item...> <cost>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := a.ledger(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.Join(args[:len(args)-1], " ")
			it, err := led.AddItem(cmd.Context(), name, args[len(args)-1])
			if err != nil {
				if msg := led.ErrorMessage(); msg != "" {
					return fmt.Errorf("%s (%w)", msg, err)
				}
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %s (%s)", it.Name, ui.Money(it.Cost, a.cfg.Currency)))
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items and the running total",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := a.ledger(cmd.Context())
			if err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), listLines(led, a.cfg.Currency))
			return nil
		},
	}
}

func newTotalCommand(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Print the total cost of all items",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := a.ledger(cmd.Context())
			if err != nil {
				return err
			}
			total := led.TotalCost()
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), ledger.FormatTotal(total))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All item Total: "+ui.Current().Cost.Render(ui.Money(total, a.cfg.Currency)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print only the number, two decimals")
	return cmd
}

func newClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			led, err := a.ledger(cmd.Context())
			if err != nil {
				return err
			}
			n := led.Len()
			if err := led.ClearAll(cmd.Context()); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("cleared %d %s", n, plural(n, "item", "items")))
			return nil
		},
	}
}

func newSitesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List where to buy equipment",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.siteList()
			if err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), siteLines(list))
			return nil
		},
	}
}

func newOpenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <index>",
		Short: "Open the site at a 1-based index in the browser",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("usage: equipt open <index>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return usageError("open: not a number: " + args[0])
			}
			list, err := a.siteList()
			if err != nil {
				return err
			}
			if n < 1 || n > len(list) {
				return usageError(fmt.Sprintf("index out of range: have %d, got %d (run `equipt sites`)", len(list), n))
			}
			site := list[n-1]
			if err := a.env.Opener.Open(site.URL); err != nil {
				a.log.Warn("open site", zap.String("url", site.URL), zap.Error(err))
				return &ExitErr{Code: ExitError, Message: "open " + site.Title, Err: err}
			}
			ui.OK(cmd.OutOrStdout(), "opened "+site.URL)
			return nil
		},
	}
}

// -------------- rendering helpers --------------

func listLines(led *ledger.Controller, currency string) []string {
	t := ui.Current()
	items := led.Items()
	header := fmt.Sprintf("%s  %s %d  %s %s",
		t.Title.Render("Workout Equipment"),
		t.Accent.Render("Items"), len(items),
		t.Accent.Render("Total"), t.Cost.Render(ui.Money(led.TotalCost(), currency)),
	)

	lines := []string{header, ""}
	lines = append(lines, itemLines(items, currency)...)
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `equipt add Bench 120`"))
	return lines
}

func itemLines(items []model.Item, currency string) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	width := 0
	for _, it := range items {
		if w := len([]rune(ui.Truncate(it.Name, 60))); w > width {
			width = w
		}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		name := ui.Truncate(it.Name, 60)
		pad := strings.Repeat(" ", width-len([]rune(name)))
		out = append(out, fmt.Sprintf("%s %s %s%s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)), t.Bullet, name, pad,
			t.Cost.Render(ui.Money(it.Cost, currency))))
	}
	return out
}

func siteLines(list []model.Site) []string {
	t := ui.Current()
	lines := []string{t.Title.Render("Where to buy"), ""}
	if len(list) == 0 {
		return append(lines, t.Muted.Render("(none)"))
	}
	for i, s := range list {
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)), s.Title, t.Accent.Render(s.URL)))
	}
	lines = append(lines, "", t.Muted.Render("Tip: visit with `equipt open 1`"))
	return lines
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
