package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/nao1215/txdig/internal/config"
	"github.com/nao1215/txdig/internal/crawler"
	"github.com/nao1215/txdig/internal/fetch"
	txlog "github.com/nao1215/txdig/internal/log"
	"github.com/nao1215/txdig/internal/model"
	"github.com/nao1215/txdig/internal/pipeline"
	"github.com/nao1215/txdig/internal/report"
	"github.com/nao1215/txdig/internal/resolver"
	"github.com/nao1215/txdig/internal/tor"
	"github.com/spf13/cobra"
)

// runRootCmd selects a mode from flags and positional arguments.
// With neither an address nor a txid and level it prints usage.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cfg.AddressMode() && !cfg.DigMode() {
		return cmd.Help()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := normalizeTarget(cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from defaults, the config file and flags,
// in increasing priority. Flags only override when explicitly set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	path, err := config.Load(cfg, cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ConfigFilePath = path

	if cfg.Address, err = flags.GetString("address"); err != nil {
		return nil, err
	}
	if cfg.Save, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("attempts") {
		if cfg.Attempts, err = flags.GetInt("attempts"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("backoff") {
		if cfg.Backoff, err = flags.GetDuration("backoff"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	if cfg.Address == "" {
		if err := parseDigArgs(cfg, args); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// parseDigArgs reads the dig mode positionals: "txid level" or
// "network txid level". Fewer arguments leave dig mode unselected.
func parseDigArgs(cfg *config.Config, args []string) error {
	var network, txid, level string
	switch len(args) {
	case 2:
		txid, level = args[0], args[1]
	case 3:
		network, txid, level = args[0], args[1], args[2]
	default:
		return nil
	}

	if network != "" {
		n, err := model.ParseNetwork(network)
		if err != nil {
			return err
		}
		cfg.Network = n
	}

	maxLevel, err := strconv.Atoi(level)
	if err != nil {
		return fmt.Errorf("invalid level %q: must be an integer", level)
	}
	cfg.Txid = txid
	cfg.MaxLevel = maxLevel
	return nil
}

// normalizeTarget validates the address or txid of the selected mode.
func normalizeTarget(cfg *config.Config) error {
	if cfg.AddressMode() {
		addr, err := model.NormalizeAddress(cfg.Address)
		if err != nil {
			return err
		}
		cfg.Address = addr
		return nil
	}
	txid, err := model.NormalizeTxid(cfg.Txid)
	if err != nil {
		return err
	}
	cfg.Txid = txid
	return nil
}

// setupLogger creates the secret-masking structured logger.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return txlog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return txlog.NewSecureLogger(w, cfg.Verbose)
}

// run wires the collaborators of the selected mode and executes it.
func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	// Structured reports own stdout; progress moves to stderr.
	progressOut := cmd.OutOrStdout()
	if cfg.JSONReport || cfg.MarkdownReport {
		progressOut = cmd.ErrOrStderr()
	}
	consoleOpts := []report.ConsoleOption{}
	if cfg.NoColor {
		consoleOpts = append(consoleOpts, report.WithColor(false))
	}
	console := report.NewConsole(progressOut, consoleOpts...)

	transport, cleanup, err := setupTransport(ctx, cfg, console, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	fetcher := newFetcher(cfg, transport, console, logger)
	transactions := resolver.NewTransactionResolver(fetcher,
		resolver.WithNetworkURLs(cfg.NetworkURLs),
		resolver.WithDetailURL(cfg.DetailURL),
		resolver.WithRequestDelay(cfg.RequestDelay),
		resolver.WithTransactionLogger(logger),
	)
	writer := newWriter(cmd.OutOrStdout(), cfg, console)

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	stepOpts := []pipeline.StepOption{
		pipeline.WithConsole(console),
		pipeline.WithStepLogger(logger),
	}

	if cfg.AddressMode() {
		p := pipeline.AddressPipeline(pipeline.AddressConfig{
			Addresses: resolver.NewAddressResolver(fetcher,
				resolver.WithEndpoints(cfg.Endpoints),
				resolver.WithAddressLogger(logger),
			),
			Transactions: transactions,
			Writer:       writer,
			Save:         cfg.Save,
			OutputDir:    cfg.OutputDir,
		}, pipelineOpts, stepOpts...)
		return finish(p.Execute(ctx, pipeline.NewAddressRun(cfg.Address)))
	}

	digger := crawler.NewDigger(transactions,
		crawler.WithMaxDepth(cfg.MaxLevel),
		crawler.WithLogger(logger),
		crawler.WithReporter(console),
	)
	p := pipeline.DigPipeline(pipeline.DigConfig{
		Digger:    digger,
		Writer:    writer,
		Save:      cfg.Save,
		OutputDir: cfg.OutputDir,
	}, pipelineOpts, stepOpts...)
	return finish(p.Execute(ctx, pipeline.NewDigRun(cfg.Txid, cfg.Network)))
}

// finish maps an interrupted run to success: partial results were
// already rendered and saved.
func finish(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newFetcher builds the retrying fetch client from cfg.
func newFetcher(cfg *config.Config, transport http.RoundTripper, console *report.Console, logger *slog.Logger) *fetch.Client {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithPolicy(fetch.RetryPolicy{
			Attempts: cfg.Attempts,
			Backoff:  cfg.Backoff,
			Select:   fetch.RandomSelector(),
		}),
		fetch.WithIdentities(fetch.IdentitiesFromUserAgents(cfg.UserAgents)),
		fetch.WithLogger(logger),
		fetch.WithProgress(console),
	}
	if transport != nil {
		opts = append(opts, fetch.WithTransport(transport))
	}
	return fetch.NewClient(opts...)
}

// newWriter picks the report format.
func newWriter(out io.Writer, cfg *config.Config, console *report.Console) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		// Text shares the console lock with progress lines.
		return report.NewSimpleWriter(console,
			report.WithHighlight(console.Highlight),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// setupTransport returns the proxy transport, or nil for direct
// connections, and a cleanup function that is always safe to call.
func setupTransport(ctx context.Context, cfg *config.Config, console *report.Console, logger *slog.Logger) (http.RoundTripper, func(), error) {
	noop := func() {}

	switch {
	case cfg.ProxyAddress != "":
		client, err := tor.NewClient(cfg.ProxyAddress, cfg.Timeout)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}
		if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
			return nil, noop, fmt.Errorf("proxy check failed: %s (make sure Tor is running at %s): %w",
				status, cfg.ProxyAddress, status.Error())
		}
		logger.Info("SOCKS5 proxy connection verified", "address", cfg.ProxyAddress)
		return client.Transport(), noop, nil

	case cfg.UseTor:
		return startEmbeddedTor(ctx, cfg, console, logger)

	default:
		return nil, noop, nil
	}
}

// startEmbeddedTor starts an embedded Tor daemon using tornago.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, console *report.Console, logger *slog.Logger) (http.RoundTripper, func(), error) {
	console.Infof("Starting embedded Tor daemon...")
	console.Infof("This may take 1-3 minutes while Tor bootstraps and connects to the network.")

	embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := embedded.Start(ctx); err != nil {
		return nil, func() {}, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	stop := func() {
		logger.Info("stopping embedded Tor daemon")
		if err := embedded.Stop(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}

	logger.Info("embedded Tor daemon started",
		"socksAddr", embedded.SocksAddr(),
		"controlAddr", embedded.ControlAddr(),
	)
	console.Successf("Embedded Tor daemon started, SOCKS proxy: %s", embedded.SocksAddr())

	client, err := embedded.NewClient(cfg.Timeout)
	if err != nil {
		stop()
		return nil, func() {}, fmt.Errorf("failed to create Tor client: %w", err)
	}
	if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
		stop()
		return nil, func() {}, fmt.Errorf("embedded Tor proxy check failed: %s", status)
	}
	return client.Transport(), stop, nil
}
