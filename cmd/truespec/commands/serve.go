package commands

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/truespec/truespec/httpapi"
	"github.com/truespec/truespec/internal/cliutil"
	"github.com/truespec/truespec/internal/logutil"
)

// ServeFlags contains flags for the serve command
type ServeFlags struct {
	Listen    string
	LogLevel  string
	LogFormat string
}

// SetupServeFlags creates and configures a FlagSet for the serve command.
func SetupServeFlags() (*flag.FlagSet, *ServeFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := &ServeFlags{}

	fs.StringVar(&flags.Listen, "listen", "", "listen address (overrides REPORTS_LISTEN_ADDR)")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, or error")
	fs.StringVar(&flags.LogFormat, "log-format", "text", "log format: text or json")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: truespec serve [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the reports HTTP adapter.\n\n")
		cliutil.Writef(fs.Output(), "Configuration comes from REPORTS_* environment variables:\n")
		cliutil.Writef(fs.Output(), "  REPORTS_TABLE_NAME                  target reports table (default: reports)\n")
		cliutil.Writef(fs.Output(), "  WAITLIST_TABLE_NAME                 target waitlist table (default: waitlist)\n")
		cliutil.Writef(fs.Output(), "  REPORTS_STORAGE_CONNECTION_STRING   table service credentials (fallback: AzureWebJobsStorage)\n")
		cliutil.Writef(fs.Output(), "  REPORTS_ADMIN_TOKEN                 required for GET endpoints; empty disables them\n")
		cliutil.Writef(fs.Output(), "  REPORTS_INGEST_TOKEN                when set, required on POST /reports\n")
		cliutil.Writef(fs.Output(), "  REPORTS_DEBUG                       include error messages in 500 responses\n")
		cliutil.Writef(fs.Output(), "\nFlags:\n")
		fs.PrintDefaults()
	}

	return fs, flags
}

// HandleServe executes the serve command
func HandleServe(ctx context.Context, args []string) error {
	fs, flags := SetupServeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	handler, err := logutil.NewHandler(os.Stderr, flags.LogLevel, flags.LogFormat)
	if err != nil {
		return err
	}
	logger := slog.New(handler)

	cfg := httpapi.LoadConfig()
	if flags.Listen != "" {
		cfg.ListenAddr = flags.Listen
	}

	srv, err := httpapi.NewServerFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
