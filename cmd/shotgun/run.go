package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/shotgun/internal/config"
	"github.com/dshills/shotgun/internal/event"
	"github.com/dshills/shotgun/internal/event/metrics"
	"github.com/dshills/shotgun/internal/script"
)

// Dump selections for --dump.
const (
	dumpUser     = "user"
	dumpInternal = "internal"
	dumpAll      = "all"
)

type runOptions struct {
	configPath *string
	dump       string
	query      string
	metrics    bool
	stats      bool
}

func newRunCmd(configPath *string) *cobra.Command {
	opts := &runOptions{configPath: configPath}

	cmd := &cobra.Command{
		Use:   "run [flags] script.lua...",
		Short: "Run Lua scripts against one bus",
		Long: `Run each script in order against a single bus, so listeners added by
one script receive events fired by the next.

Examples:
  shotgun run app.lua                          # run a script
  shotgun run setup.lua app.lua --dump user    # print the user tree as JSON
  shotgun run app.lua --query 'user.children.app.listeners.#'
  shotgun run app.lua --metrics                # print Prometheus metrics
  shotgun run app.lua --stats                  # print bus statistics`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripts(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.dump, "dump", "d", "", "print an event tree after the run (user, internal, all)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "gjson query over the dumped trees (implies --dump all)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print bus metrics after the run")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print dispatch counters and per-event listener counts after the run")
	return cmd
}

func runScripts(cmd *cobra.Command, opts *runOptions, files []string) error {
	switch opts.dump {
	case "", dumpUser, dumpInternal, dumpAll:
	default:
		return fmt.Errorf("invalid --dump %q: want %s, %s or %s", opts.dump, dumpUser, dumpInternal, dumpAll)
	}

	cfg, err := config.Load(*opts.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	reg := prometheus.NewRegistry()
	m := cfg.NewMetrics()
	if m == nil && opts.metrics {
		m = metrics.New(cfg.Metrics.Namespace)
	}
	if m != nil {
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}

	bus := cfg.NewBus(logger, m)
	rt := script.New(bus,
		script.WithOutput(cmd.OutOrStdout()),
		script.WithLogger(logger),
		script.WithTimeout(cfg.ScriptTimeout()),
	)
	defer rt.Close()

	for _, file := range files {
		if err := rt.DoFile(cmd.Context(), file); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.dump != "" || opts.query != "" {
		if err := writeDump(out, bus, opts.dump, opts.query); err != nil {
			return err
		}
	}
	if opts.metrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}
	if opts.stats {
		return writeStats(out, bus)
	}
	return nil
}

// dumpJSON returns the selected trees. "all" nests them under "user" and
// "internal".
func dumpJSON(bus *event.Bus, which string) ([]byte, error) {
	switch which {
	case dumpUser:
		return bus.UserEvents().JSON()
	case dumpInternal:
		return bus.InternalEvents().JSON()
	}

	user, err := bus.UserEvents().JSON()
	if err != nil {
		return nil, err
	}
	internal, err := bus.InternalEvents().JSON()
	if err != nil {
		return nil, err
	}
	data, err := sjson.SetRawBytes([]byte(`{}`), dumpUser, user)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(data, dumpInternal, internal)
}

func writeDump(w io.Writer, bus *event.Bus, which, query string) error {
	if which == "" || query != "" {
		which = dumpAll
	}
	data, err := dumpJSON(bus, which)
	if err != nil {
		return fmt.Errorf("encoding %s tree: %w", which, err)
	}

	if query != "" {
		res := gjson.GetBytes(data, query)
		if !res.Exists() {
			return fmt.Errorf("query %q matched nothing", query)
		}
		data = []byte(res.Raw)
	}

	_, err = w.Write(pretty.Pretty(data))
	return err
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// writeStats prints the dispatcher counters followed by one line per user
// event directory with its listener count.
func writeStats(w io.Writer, bus *event.Bus) error {
	st := bus.Stats()
	d := st.Dispatch

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("directories\tuser=%d internal=%d\n", st.UserDirectories, st.InternalDirectories)
	printf("fires\t%d (invoked %d, failed %d, missed %d)\n", d.Dispatched, d.Invoked, d.Failed, d.Missed)
	printf("listener time\t%s (avg %s)\n", d.TotalDuration, d.AvgDuration)

	bus.UserEvents().Walk(func(p string, node event.Snapshot) {
		if p == "" {
			return
		}
		printf("event\t%s\t%d\n", p, len(node.Listeners))
	})
	return err
}
