package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/ignaciocaff/procstmt/pkg/config"
	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/ignaciocaff/procstmt/pkg/params"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	nullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type execOptions struct {
	configFile string
	dotenv     string
	sql        string
	params     []string
	outputs    []int
	directions []string
	errata     []string
	logLevel   string
}

// NewExecCommand creates the 'exec' command.
func NewExecCommand(fs afero.Fs, ctx context.Context, logger *logging.Logger) *cobra.Command {
	opts := &execOptions{}
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute one statement with bound parameters",
		Long: `Execute prepares the statement given with --sql against the configured database, binds the
--param values in order and prints rows affected and the value of every output position listed with --out.`,
		Example: `  procstmt exec --config procstmt.yaml --sql "CALL GETCUST(?, ?)" --param id=C001 --param balance=0 --out 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(fs, ctx, logger, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.dotenv, "dotenv", ".env", "dotenv file with legacy settings")
	cmd.Flags().StringVarP(&opts.sql, "sql", "s", "", "statement to execute")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "parameter as name=value, in binding order")
	cmd.Flags().IntSliceVarP(&opts.outputs, "out", "o", nil, "1-based output positions")
	cmd.Flags().StringArrayVarP(&opts.directions, "direction", "d", nil, "direction as position=in|out|inout")
	cmd.Flags().StringArrayVarP(&opts.errata, "errata", "e", nil, "type hint as name=int|null|lob|cursor")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides the configuration")
	_ = cmd.MarkFlagRequired("sql")
	return cmd
}

func runExec(fs afero.Fs, ctx context.Context, logger *logging.Logger, opts *execOptions, out io.Writer) error {
	cfg, err := config.Load(fs, opts.configFile)
	if err != nil {
		return err
	}
	legacy, err := config.LoadLegacy(fs, opts.dotenv)
	if err != nil {
		return err
	}
	cfg.Merge(legacy)

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.SetLevelName(level)

	container, err := buildContainer(opts.params, opts.errata)
	if err != nil {
		return err
	}
	directions, err := buildDirections(opts.outputs, opts.directions)
	if err != nil {
		return err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	defer db.Close()

	d, err := statement.NewDriver(statement.NewDBConn(db), cfg.Options())
	if err != nil {
		return err
	}
	recorder := statement.NewRecorder(logger)
	d.SetLogger(logger).SetProfiler(recorder)

	st := d.CreateStatement(opts.sql)
	defer st.Close()

	logger.Debug("executing statement",
		"statement", st.ID(), "driver", cfg.Driver, "catalog", d.Catalog().Name, "params", container.Count())
	res, err := st.Execute(ctx, container, directions...)
	if err != nil {
		return err
	}

	return printResult(out, res, recorder)
}

func buildContainer(values, errata []string) (*params.Container, error) {
	c := params.New()
	for _, p := range values {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", p)
		}
		c.Set(name, value)
	}
	for _, e := range errata {
		name, kind, ok := strings.Cut(e, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --errata %q, expected name=kind", e)
		}
		erratum, ok := params.ParseErratum(kind)
		if !ok {
			return nil, fmt.Errorf("unknown erratum %q for %s", kind, name)
		}
		if !c.Has(name) {
			c.Set(name, nil)
		}
		c.SetErratum(name, erratum)
	}
	return c, nil
}

// buildDirections merges --out positions (input-output) with explicit --direction entries, which win.
func buildDirections(outputs []int, explicit []string) ([]statement.Direction, error) {
	byPosition := make(map[int]statement.Direction, len(outputs)+len(explicit))
	for _, pos := range outputs {
		byPosition[pos] = statement.InOut
	}
	for _, e := range explicit {
		pos, dir, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --direction %q, expected position=direction", e)
		}
		n, err := strconv.Atoi(strings.TrimSpace(pos))
		if err != nil {
			return nil, fmt.Errorf("invalid --direction %q: %w", e, err)
		}
		d, err := statement.ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		byPosition[n] = d
	}
	if len(byPosition) == 0 {
		return nil, nil
	}

	last := 0
	for pos := range byPosition {
		if pos < 1 {
			return nil, fmt.Errorf("invalid output position %d", pos)
		}
		if pos > last {
			last = pos
		}
	}
	directions := make([]statement.Direction, last)
	for pos, d := range byPosition {
		directions[pos-1] = d
	}
	return directions, nil
}

func printResult(out io.Writer, res interface{}, recorder *statement.Recorder) error {
	r, ok := res.(*statement.Result)
	if !ok {
		return fmt.Errorf("unexpected result type %T", res)
	}
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("statement:"), valueStyle.Render(r.Statement().ID().String()))
	if n, err := r.RowsAffected(); err == nil {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("rows affected:"), valueStyle.Render(humanize.Comma(n)))
	}
	if p, ok := recorder.LastProfile(); ok {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("elapsed:"), valueStyle.Render(p.Elapsed.String()))
	}

	for _, name := range r.OutputNames() {
		v, _ := r.Output(name)
		rendered := nullStyle.Render("NULL")
		if v != nil {
			rendered = valueStyle.Render(fmt.Sprint(v))
		}
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(name+":"), rendered)
	}
	return nil
}
