package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-gbaxfer/bootloader"
	"github.com/moffa90/go-gbaxfer/link"
	"github.com/moffa90/go-gbaxfer/logging"
	"github.com/moffa90/go-gbaxfer/protocol"
	"github.com/moffa90/go-gbaxfer/rom"
)

// exitFailure is the status for open and transfer failures (-1 as a byte).
const exitFailure = 255

// transport is what the command needs from an open link.
type transport interface {
	bootloader.Link
	Close() error
}

// Tests replace these.
var (
	openTransport = func(path string, mode protocol.Mode, opts ...link.Option) (transport, error) {
		return link.Open(path, mode, opts...)
	}
	loadROM = rom.Parse
	now     = time.Now
)

type rootOptions struct {
	configPath   string
	loader       string
	baud         int
	mode         string
	byteOrder    string
	logLevel     string
	strictVerify bool
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return 0
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gbaxfer <serial-device> <rom-file>",
		Short: "Send a multiboot ROM to a console over a serial link adapter",
		Long: `gbaxfer uploads a ROM image through a serial adapter wired to the
console link port.

Without --loader the image is sent with the first-stage multiboot protocol.
With --loader the given second-stage loader is multibooted first and the ROM
is then streamed to it over the faster second-stage protocol.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				// Wrong arity prints usage and is not a failure.
				cmd.SetOut(stderr)
				return cmd.Usage()
			}
			return transfer(cmd, opts, args[0], args[1], stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.StringVarP(&opts.loader, "loader", "l", "", "second-stage loader image")
	flags.IntVarP(&opts.baud, "baud", "b", 115200, "serial baud rate")
	flags.StringVarP(&opts.mode, "mode", "m", "normal", "link mode (normal, multiplayer)")
	flags.StringVar(&opts.byteOrder, "byte-order", "big", "wire byte order of a word (big, little)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.strictVerify, "strict-verify", false, "fail when the loader's final echo does not match")

	return cmd
}

// resolveConfig layers defaults, the config file and changed flags.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (Config, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("loader") {
		cfg.Loader = opts.loader
	}
	if flags.Changed("baud") {
		if opts.baud <= 0 {
			return Config{}, fmt.Errorf("invalid --baud %d", opts.baud)
		}
		cfg.Baud = opts.baud
	}
	if flags.Changed("mode") {
		mode, err := protocol.ParseMode(opts.mode)
		if err != nil {
			return Config{}, err
		}
		cfg.Mode = mode
	}
	if flags.Changed("byte-order") {
		cfg.ByteOrder = opts.byteOrder
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("strict-verify") {
		cfg.StrictVerify = opts.strictVerify
	}
	return cfg, nil
}

// logLevel resolves the level with flag > environment > file precedence.
func logLevel(cmd *cobra.Command, cfg Config) (zerolog.Level, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.NoLevel, err
	}
	if cmd.Flags().Changed("log-level") {
		return level, nil
	}
	return logging.LevelFromEnv(level)
}

func transfer(cmd *cobra.Command, opts *rootOptions, device, romPath string, stderr io.Writer) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := logLevel(cmd, cfg)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level, "gbaxfer")
	adapter := logging.NewAdapter(logger)

	order, err := link.ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return err
	}

	// The reported time includes reading the image.
	start := now()

	image, err := loadROM(romPath)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	logger.Debug().
		Str("title", image.Title).
		Str("game_code", image.GameCode).
		Int("size", image.Size).
		Int("padding", image.Padding()).
		Msg("rom loaded")
	if !image.HeaderValid() {
		logger.Warn().Msg("rom header complement does not match")
	}
	if cfg.Loader == "" {
		// Only the first stage is limited to work RAM.
		if err := image.CheckMultiboot(); err != nil {
			return fmt.Errorf("load rom: %w", err)
		}
	}

	port, err := openTransport(device, cfg.Mode,
		link.WithBaudRate(cfg.Baud),
		link.WithByteOrder(order),
		link.WithReadTimeout(cfg.ReadTimeout),
		link.WithLogger(adapter),
	)
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	if cfg.Loader == "" {
		err = port.SendBulk(cmd.Context(), image.Data)
	} else {
		err = sendWithLoader(cmd.Context(), port, cfg, image, adapter, stderr)
	}
	fmt.Fprintf(stderr, "\nTotal transfer time: %.2f seconds\n", now().Sub(start).Seconds())
	return err
}

func sendWithLoader(ctx context.Context, port transport, cfg Config, image *rom.ROM, logger bootloader.Logger, stderr io.Writer) error {
	loaderImage, err := loadROM(cfg.Loader)
	if err != nil {
		return fmt.Errorf("load second stage loader: %w", err)
	}

	loader := bootloader.New(port,
		bootloader.WithLoaderImage(loaderImage.Data),
		bootloader.WithProgressCallback(progressPrinter(stderr)),
		bootloader.WithLogger(logger),
		bootloader.WithAckAttempts(cfg.AckAttempts),
		bootloader.WithAckInterval(cfg.AckInterval),
		bootloader.WithStrictVerify(cfg.StrictVerify),
	)
	return loader.Transfer(ctx, image.Data)
}

// progressPrinter renders second-stage progress on a single terminal line.
func progressPrinter(w io.Writer) bootloader.ProgressCallback {
	return func(p bootloader.Progress) {
		switch p.Phase {
		case bootloader.PhaseSending:
			fmt.Fprintln(w, "Sending second stage loader")
		case bootloader.PhaseAwaitingAck:
			if p.Attempt == 1 {
				fmt.Fprintln(w, "Waiting for second stage loader")
			}
		case bootloader.PhaseStreaming:
			// Percentage of the bytes sent before this word.
			fmt.Fprintf(w, "\r2nd stage loader (%02d%%): %08x", (p.WordsSent-1)*100/p.TotalWords, p.Word)
		case bootloader.PhaseComplete:
			if p.Verified {
				fmt.Fprint(w, "\n2nd stage loading successful\n")
			} else {
				fmt.Fprintln(w)
			}
		}
	}
}
