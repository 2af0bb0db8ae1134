// Package cli wires the console together: flags, logger, fixture store,
// parameter feed, view, and the bubbletea program.
package cli

import (
	"fmt"
	"os"
	"sync"

	bubble_tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pkgdepot/depot-tui/internal/fixture"
	"github.com/pkgdepot/depot-tui/internal/logging"
	"github.com/pkgdepot/depot-tui/params"
	"github.com/pkgdepot/depot-tui/state"
	"github.com/pkgdepot/depot-tui/tui"
	"github.com/pkgdepot/depot-tui/view"
)

var (
	fixturePath string
	origin      string
	name        string
	logLevel    string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "depot-tui",
	Short: "Browse the versions of a depot package family",
	Long: `depot-tui shows the versions listing for one package family in a
depot: expand a version to see its releases, demote a release from a
channel, and follow a release to its detail route.

State comes from a local YAML fixture file; see testdata in the repo for
the format.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&fixturePath, "fixture", "f", "depot.yaml", "depot fixture file to load")
	rootCmd.Flags().StringVar(&origin, "origin", "core", "origin of the package family")
	rootCmd.Flags().StringVar(&name, "name", "nginx", "name of the package family")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log verbosity (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// routerFunc adapts a func to view.Router.
type routerFunc func(path []string)

func (f routerFunc) Navigate(path []string) { f(path) }

// deferredTitle holds the last title until the program exists, then forwards.
// The first title arrives while the feed publishes the initial parameters,
// before the program is running.
type deferredTitle struct {
	mu   sync.Mutex
	last string
	send func(string)
}

func (d *deferredTitle) SetTitle(t string) {
	d.mu.Lock()
	send := d.send
	d.last = t
	d.mu.Unlock()
	if send != nil {
		send(t)
	}
}

func (d *deferredTitle) attach(send func(string)) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
	return d.last
}

func run(cmd *cobra.Command, args []string) error {
	if noColor {
		os.Setenv("NO_COLOR", "1")
	}

	sink := &logging.SwitchSink{}
	log := logging.New(logLevel, sink.Write)
	defer log.Sync()

	fx, err := fixture.Load(fixturePath)
	if err != nil {
		return err
	}
	d := fx.Depot()
	log.Info("fixture loaded",
		zap.String("path", fixturePath),
		zap.Int("families", len(fx.Families)))

	// Every dispatch is logged before it is applied; the log panel doubles
	// as an action trace.
	apply := func(st state.AppState, a state.Action) state.AppState {
		log.Info("dispatch", zap.Any("action", a))
		return d.Apply(st, a)
	}
	store := state.New(d.InitialState(origin, name), apply)

	feed := params.NewFeed()
	title := &deferredTitle{}

	var p *bubble_tea.Program
	router := routerFunc(func(path []string) {
		go p.Send(tui.RouteMsg{Path: path})
	})

	v := view.NewVersions(store, router, title, feed)
	defer v.Close()

	// The initial navigation: resolves origin/name and the first title.
	feed.Publish(params.Params{"origin": origin, "name": name})
	log.Info("viewing package family",
		zap.String("origin", origin),
		zap.String("name", name),
		zap.Int("versions", len(v.Versions())))

	backlog := sink.Attach(func(line string) {
		// Async send: a log line emitted from inside Update must not block
		// the event loop on its own message channel.
		go p.Send(tui.LogLineMsg{Line: line})
	})

	m := tui.NewModel(v, title.last, backlog)
	p = bubble_tea.NewProgram(m, bubble_tea.WithAltScreen())

	title.attach(func(t string) {
		go p.Send(tui.TitleMsg{Title: t})
	})
	unsubscribe := store.Subscribe(func() {
		go p.Send(tui.StoreChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
