package main

import (
	"fmt"
	"os"

	"github.com/nao1215/txdig/internal/config"
	"github.com/nao1215/txdig/internal/fetch"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for txdig.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txdig [network] <txid> <level>",
		Short: "Bitcoin address explorer and transaction digger",
		Long: `txdig explores public Bitcoin ledger data in one of two modes.

Address mode (-a) queries an address across several providers at once and,
when the raw-address provider lists transactions, fetches the details of
each of them.

Dig mode walks the inputs of a transaction depth first up to <level>
levels, counting every input address and input transaction id, and
highlights the ones seen more than once. The network defaults to bitcoin;
testnet and signet are also supported.

Examples:
  # Address mode, saving utxdump/<address>.log
  txdig -a 1BoatSLRHtKNngkdXEeobR76b53LETtpyT -S

  # Dig three levels into a mainnet transaction
  txdig 4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b 3

  # Dig on testnet and save utxdump/trxids.log
  txdig testnet <txid> 2 -S

  # Route every request through a local Tor daemon
  txdig --proxy 127.0.0.1:9050 -a <address>`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(3),
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	f := cmd.Flags()
	f.StringP("address", "a", "", "Bitcoin address to query (address mode)")
	f.BoolP("save", "S", false, "Save the results to a file in the output directory")
	f.StringP("output-dir", "o", config.DefaultOutputDir, "Directory --save writes into")
	f.StringP("config", "c", "",
		"Configuration file path (default: .txdig in current or home directory)")

	f.DurationP("timeout", "t", fetch.DefaultTimeout, "Timeout for each request attempt")
	f.Int("attempts", fetch.DefaultAttempts, "Attempts per request, including the first")
	f.Duration("backoff", fetch.DefaultBackoff, "Wait between attempts")

	f.BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	f.Bool("no-color", false, "Disable colored output")
	f.Bool("log-json", false, "Write diagnostic logs as JSON")

	f.String("proxy", "", "Route requests through a SOCKS5 proxy (e.g. 127.0.0.1:9050)")
	f.Bool("tor", false, "Start an embedded Tor daemon and route requests through it")
	f.Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
