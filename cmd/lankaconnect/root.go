package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/auth/sessions"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/config"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/jrsteele09/lankaconnect-client/internal/logging"
	"github.com/jrsteele09/lankaconnect-client/querycache"
	"github.com/jrsteele09/lankaconnect-client/queries"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is built once per invocation by the root command's pre-run.
type app struct {
	out io.Writer

	configPath string
	overrides  config.Values
	jsonOutput bool

	cfg     config.Config
	logger  zerolog.Logger
	client  *transport.Client
	session *auth.Session
	events  *events.Repository
	queries *queries.Client
	users   *users.Repository
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "lankaconnect",
		Short:         "Command-line client for the LankaConnect events platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file (default $LANKACONNECT_CONFIG)")
	flags.StringVar(&a.overrides.APIURL, "api-url", "", "API base URL, e.g. https://api.lankaconnect.com/api")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&a.overrides.StateDir, "state-dir", "", "where the signed-in session is kept")
	flags.BoolVar(&a.jsonOutput, "json", false, "print full JSON instead of a summary")

	root.AddCommand(
		a.versionCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.eventsCmd(),
		a.upgradeCmd(),
		a.metroCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath, a.overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.GetLogLevel(), cfg.GetEnv())

	a.client = transport.New(transport.Config{
		BaseURL:   cfg.GetAPIBaseURL(),
		Timeout:   cfg.GetAPITimeout(),
		UserAgent: "lankaconnect-cli/" + version,
	}, transport.WithLogger(a.logger))

	store, err := sessions.NewFileStore(cfg.GetStateDir(), sessions.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.session = auth.NewSession(a.client, store, auth.WithLogger(a.logger))
	if _, err := a.session.Rehydrate(); err != nil {
		a.logger.Warn().Err(err).Msg("could not load saved session")
	}

	a.events = events.NewRepository(a.client)
	a.users = users.NewRepository(a.client)
	a.queries = queries.New(a.events, querycache.New(querycache.WithLogger(a.logger)), queries.WithLogger(a.logger))
	return nil
}

func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return errors.Wrapf(errors.ErrNotAuthenticated, "run 'lankaconnect login' first")
	}
	return nil
}

// render writes v as indented JSON with --json, otherwise calls summary.
func (a *app) render(v any, summary func(w io.Writer)) error {
	if a.jsonOutput || summary == nil {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	summary(a.out)
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(a.out, a.cfg.GetAppName())
			fmt.Fprintf(a.out, "lankaconnect %s (API %s)\n", version, a.cfg.GetAPIBaseURL())
			return nil
		},
	}
}
