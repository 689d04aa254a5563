package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"toydbms/pkg/catalog"
	"toydbms/pkg/config"
	"toydbms/pkg/execution/scanner"
	"toydbms/pkg/iterator"
	"toydbms/pkg/logging"
	"toydbms/pkg/planner"
	"toydbms/pkg/query"
)

func main() {
	err := newRootCommand(afero.NewOsFs(), os.Stdin, os.Stdout).Execute()
	if err != nil {
		logging.WithError(err).Debug("command failed")
	}
	if closeErr := logging.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the state shared by the subcommands of one invocation.
type session struct {
	fs  afero.Fs
	in  io.Reader
	out io.Writer
	cfg config.Config
}

func newRootCommand(fs afero.Fs, in io.Reader, out io.Writer) *cobra.Command {
	s := &session{fs: fs, in: in, out: out}

	root := &cobra.Command{
		Use:           "toydbms",
		Short:         "Plan and run select-project-join queries over CSV tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	var queryPath, format string
	run := &cobra.Command{
		Use:   "run",
		Short: "Execute a query and print its rows",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return s.run(queryPath, format)
		},
	}
	run.Flags().StringVarP(&queryPath, "query", "q", "-", "query document; - reads stdin")
	run.Flags().StringVar(&format, "format", formatTSV, "output format (tsv or table)")

	var explainPath string
	explain := &cobra.Command{
		Use:   "explain",
		Short: "Print the operator tree chosen for a query",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return s.explain(explainPath)
		},
	}
	explain.Flags().StringVarP(&explainPath, "query", "q", "-", "query document; - reads stdin")

	root.AddCommand(run, explain)
	return root
}

// setup loads the config file, applies flag overrides and starts logging.
// The config file is optional unless --config was given.
func (s *session) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, err := flags.GetString(config.FlagConfig)
	if err != nil {
		return err
	}

	s.cfg, err = config.Load(s.fs, path, !flags.Changed(config.FlagConfig))
	if err != nil {
		return err
	}
	if err := s.cfg.ApplyFlags(flags); err != nil {
		return err
	}

	lc, err := s.cfg.LoggingConfig()
	if err != nil {
		return err
	}
	return logging.Init(lc)
}

func (s *session) plan(queryPath string) (*planner.Plan, error) {
	q, err := s.readQuery(queryPath)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(s.fs, s.cfg.Data.Catalog)
	if err != nil {
		return nil, err
	}

	opts, err := s.cfg.PlannerOptions()
	if err != nil {
		return nil, err
	}
	opts.QueryID = uuid.New()

	return planner.Build(q, cat, scanner.NewCSVFactory(s.fs, s.cfg.Data.Tables, cat), opts)
}

func (s *session) readQuery(path string) (*query.Query, error) {
	if path == "-" {
		return query.Decode(s.in)
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening query %s", path)
	}
	defer f.Close()

	q, err := query.Decode(f)
	return q, errors.Wrapf(err, "query %s", path)
}

func (s *session) run(queryPath, format string) error {
	if format != formatTSV && format != formatTable {
		return errors.Newf("unknown output format %q", format)
	}

	p, err := s.plan(queryPath)
	if err != nil {
		return err
	}

	// Rows are collected first so that a failure part way leaves no output.
	rows, err := iterator.Collect(p.Root)
	if err != nil {
		return err
	}
	logging.WithQuery(p.QueryID).Info("query finished",
		"rows", humanize.Comma(int64(len(rows))),
		"estimated", humanize.Comma(p.EstimatedRows),
		"distinct", p.Strategy.String())

	return writeRows(s.out, format, p.Root.Header(), rows)
}

func (s *session) explain(queryPath string) error {
	p, err := s.plan(queryPath)
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.out, p.Explain())
	return err
}
