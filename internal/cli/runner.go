package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/skips/internal/config"
	"github.com/Makepad-fr/skips/internal/logger"
	"github.com/Makepad-fr/skips/internal/model"
	"github.com/Makepad-fr/skips/internal/skipapi"
	"github.com/Makepad-fr/skips/internal/store/jsonstore"
	"github.com/Makepad-fr/skips/internal/tui"
	"github.com/Makepad-fr/skips/internal/ui"
	"github.com/Makepad-fr/skips/internal/view"
)

// Options carry what the root flags resolved to.
type Options struct {
	Config *config.Config
	Out    io.Writer // defaults to stdout
	Err    io.Writer // defaults to stderr; also where `ls` logs
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	if opt.Config == nil {
		ui.Fail(opt.Err, "no configuration")
		return 1
	}
	ui.SetTheme(opt.Config.Theme)

	if len(args) == 0 {
		return doBrowse(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "browse":
		return doBrowse(opt)

	case "ls":
		if len(a) != 0 {
			ui.Fail(opt.Err, "usage: skips ls")
			return 2
		}
		return doList(opt)

	case "selection":
		if len(a) == 0 {
			return doShowSelection(opt)
		}
		if len(a) == 1 && a[0] == "clear" {
			return doClearSelection(opt)
		}
		ui.Fail(opt.Err, "usage: skips selection [clear]")
		return 2
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `skips - pick a skip to hire

Usage:
  skips [flags] [subcommand]

Subcommands:
  browse             Pick a skip interactively (default)
  ls                 List available skips with their total price
  selection          Show the skip you continued with
  selection clear    Forget the saved skip

Flags:
  --postcode, --area     Location to list skips for (default NR32, Lowestoft)
  --base-url             Skip API base URL
  --timeout              HTTP timeout, e.g. 10s (default none)
  --theme                classic, neon or mono
  --log-file             Where browse writes its log
  --selection-file       Where the chosen skip is saved
  --debug                Verbose logging

Every flag can also be set as SKIPS_<NAME> in the environment or in skips.env.

Examples:
  skips
  skips ls --postcode LE10 --area Hinckley
  skips selection
`)
}

func newClient(cfg *config.Config) skipapi.Client {
	return skipapi.New(cfg.API.BaseURL, skipapi.NewHTTPClient(cfg.API.Timeout))
}

// -------------- subcommand impls ----------------

func doBrowse(opt Options) int {
	cfg := opt.Config
	lg, f, err := logger.NewFile(cfg.LogFile, cfg.Debug)
	if err != nil {
		ui.Fail(opt.Err, "log: " + err.Error())
		return 1
	}
	defer f.Close()

	store := jsonstore.New(cfg.SelectionFile)
	res, err := tui.Run(tui.Options{
		Client:   newClient(cfg),
		Location: cfg.Location,
		Store:    store,
		Logger:   lg,
	})
	if err != nil {
		ui.Fail(opt.Err, "tui: " + err.Error())
		return 1
	}
	if res.Saved != nil {
		ui.OK(opt.Out, fmt.Sprintf("saved %d yard skip (£%s) to %s", res.Saved.Skip.Size, res.Saved.Total, store.Path()))
	}
	return 0
}

func doList(opt Options) int {
	cfg := opt.Config
	lg := logger.New(opt.Err, cfg.Debug)
	return listSkips(opt.Out, opt.Err, lg, newClient(cfg), cfg.Location)
}

func listSkips(w, errw io.Writer, lg *log.Logger, client skipapi.Client, loc config.Location) int {
	lg.Debug("fetching skips", "postcode", loc.Postcode, "area", loc.Area)
	skips, err := client.FetchSkipsByLocation(context.Background(), loc.Postcode, loc.Area)
	if err != nil {
		lg.Error("Error fetching skips", "err", err)
		ui.Fail(errw, view.Message(err))
		return 1
	}

	vm := view.New()
	vm.Loaded(skips)

	t := ui.Current()
	lines := []string{
		ui.Header(t.Muted.Render(fmt.Sprintf("%s, %s %s %d skips", loc.Postcode, loc.Area, t.SymDot, len(vm.Skips())))),
		"",
	}
	if len(vm.Skips()) == 0 {
		lines = append(lines, ui.Empty())
	}
	for _, s := range vm.Skips() {
		lines = append(lines, ui.Card(s, false, false))
	}
	ui.FPanel(w, lines)
	return 0
}

func doShowSelection(opt Options) int {
	store := jsonstore.New(opt.Config.SelectionFile)
	sel, err := store.Load()
	if err != nil {
		ui.Fail(opt.Err, "load: " + err.Error())
		return 1
	}
	if sel == nil {
		fmt.Fprintln(opt.Out, ui.Current().Muted.Render("no skip selected"))
		fmt.Fprintln(opt.Out, "Run: skips browse")
		return 0
	}
	printSelection(opt.Out, sel)
	return 0
}

func printSelection(w io.Writer, sel *model.Selection) {
	t := ui.Current()
	ui.FPanel(w, []string{
		t.Title.Render(fmt.Sprintf("%d Yard Skip", sel.Skip.Size)),
		fmt.Sprintf("£%s total %s %d days hire", sel.Total, t.SymDot, sel.Skip.HirePeriodDays),
		t.Muted.Render(fmt.Sprintf("%s, %s", sel.Postcode, sel.Area)),
		t.Muted.Render("chosen " + sel.SelectedAt.Local().Format(time.RFC1123)),
	})
}

func doClearSelection(opt Options) int {
	if err := jsonstore.New(opt.Config.SelectionFile).Clear(); err != nil {
		ui.Fail(opt.Err, "clear: " + err.Error())
		return 1
	}
	ui.OK(opt.Out, "selection cleared")
	return 0
}
