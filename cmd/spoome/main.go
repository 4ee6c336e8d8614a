package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	spoome "github.com/rowjay/spoome-go"
	"github.com/rowjay/spoome-go/dto"
	"github.com/rowjay/spoome-go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `usage: spoome <command> [flags] <argument>

commands:
  shorten <url>     create a short link
  emoji <url>       create an emoji short link
  stats <code>      print click statistics
  info <code>       print link metadata
  export <code>     download statistics (--format json|csv|xlsx|xml)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
	}

	cmd, rest := args[0], args[1:]
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("base-url", "", "instance base URL (default https://spoo.me)")
	fs.String("api-key", "", "API key sent with every request")
	fs.String("api-key-header", "", "header carrying the API key (default Authorization)")
	fs.Duration("timeout", 0, "per-request timeout")
	fs.String("log-level", "", "log level (debug, info, warn, error)")

	var (
		alias     = fs.String("alias", "", "custom alias")
		emojies   = fs.String("emojies", "", "custom emoji sequence")
		password  = fs.String("password", "", "link password")
		maxClicks = fs.Int("max-clicks", 0, "expire after this many clicks")
		blockBots = fs.Bool("block-bots", false, "block known bots")
		expiry    = fs.String("expiry", "", "expiry as a duration (24h) or RFC 3339 time")
		useJSON   = fs.Bool("json", false, "send JSON request bodies")
		format    = fs.String("format", "json", "export format")
		output    = fs.String("output", "", "export file (default <code>.<ext>)")
	)

	switch cmd {
	case "shorten", "emoji", "stats", "info", "export":
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err := fs.Parse(rest); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "%s expects exactly one argument\n\n%s", cmd, usage)
		return 2
	}
	arg := fs.Arg(0)

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	logger := newLogger(cfg, stderr)

	opts := []spoome.Option{
		spoome.WithBaseURL(cfg.BaseURL),
		spoome.WithAPIKeyHeader(cfg.APIKeyHeader),
		spoome.WithTimeout(cfg.Timeout),
		spoome.WithLogger(logger),
	}
	if cfg.APIKey != "" {
		opts = append(opts, spoome.WithAPIKey(cfg.APIKey))
	}
	if *useJSON {
		opts = append(opts, spoome.WithBodyEncoding(spoome.EncodingJSON))
	}
	client, err := spoome.New(opts...)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create client")
		return 1
	}

	logger.Debug().Str("base_url", client.BaseURL()).Str("command", cmd).Msg("Running command")

	var result any
	switch cmd {
	case "shorten":
		req := dto.NewShortenRequest(arg)
		if fs.Changed("alias") {
			req.WithAlias(*alias)
		}
		if fs.Changed("password") {
			req.WithPassword(*password)
		}
		if fs.Changed("max-clicks") {
			req.WithMaxClicks(*maxClicks)
		}
		if fs.Changed("block-bots") {
			req.WithBlockBots(*blockBots)
		}
		if *expiry != "" {
			t, err := parseExpiry(*expiry, time.Now())
			if err != nil {
				logger.Error().Err(err).Msg("Invalid expiry")
				return 2
			}
			req.WithExpiry(t)
		}
		result, err = client.Shorten(ctx, req)

	case "emoji":
		req := dto.NewEmojiRequest(arg)
		if fs.Changed("emojies") {
			req.WithEmojies(*emojies)
		}
		if fs.Changed("password") {
			req.WithPassword(*password)
		}
		if fs.Changed("max-clicks") {
			req.WithMaxClicks(*maxClicks)
		}
		if fs.Changed("block-bots") {
			req.WithBlockBots(*blockBots)
		}
		if *expiry != "" {
			t, err := parseExpiry(*expiry, time.Now())
			if err != nil {
				logger.Error().Err(err).Msg("Invalid expiry")
				return 2
			}
			req.WithExpiry(t)
		}
		result, err = client.Emoji(ctx, req)

	case "stats", "info":
		req := dto.NewStatsRequest(arg)
		if fs.Changed("password") {
			req.WithPassword(*password)
		}
		if cmd == "stats" {
			result, err = client.Stats(ctx, req)
		} else {
			result, err = client.Info(ctx, req)
		}

	case "export":
		f, perr := dto.ParseExportFormat(*format)
		if perr != nil {
			logger.Error().Err(perr).Msg("Invalid export format")
			return 2
		}
		req := dto.NewExportRequest(arg, f)
		if fs.Changed("password") {
			req.WithPassword(*password)
		}
		var export *dto.ExportResponse
		export, err = client.Export(ctx, req)
		if err == nil {
			path := *output
			if path == "" {
				path = safeFilename(arg) + f.FileExtension()
			}
			if err := export.SaveToFile(path); err != nil {
				logger.Error().Err(err).Msg("Failed to save export")
				return 1
			}
			logger.Info().Str("path", path).Int("bytes", len(export.Data)).Msg("Export saved")
			result = map[string]any{"path": path, "content_type": export.ContentType, "bytes": len(export.Data)}
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("Request failed")
		return 1
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error().Err(err).Msg("Encode failed")
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config, stderr io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = stderr
	if cfg.Development() {
		out = zerolog.ConsoleWriter{Out: stderr}
	}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return log.Logger
}

// parseExpiry accepts a duration relative to now or an absolute RFC 3339 time.
func parseExpiry(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return time.Time{}, fmt.Errorf("expiry %q must be in the future", s)
		}
		return now.Add(d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expiry %q is neither a duration nor an RFC 3339 time", s)
	}
	if !t.After(now) {
		return time.Time{}, fmt.Errorf("expiry %q must be in the future", s)
	}
	return t, nil
}

func safeFilename(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, code)
}
