package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	internal "github.com/ZanzyTHEbar/shatag-go/shatag"
	"github.com/ZanzyTHEbar/shatag-go/shatag/config"
	"github.com/ZanzyTHEbar/shatag-go/shatag/hashing"
	"github.com/ZanzyTHEbar/shatag-go/shatag/integrity"
	"github.com/ZanzyTHEbar/shatag-go/shatag/metadata"

	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	quiet      bool
	quieter    bool
	remove     bool
	version    bool
}

func newFlagSet(name string, stderr io.Writer, opts *options) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SortFlags = false

	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "quiet: don't print <ok> files")
	flags.BoolVar(&opts.quieter, "qq", false, "quiet²: only print <corrupt> files and errors")
	flags.Bool("dry-run", false, "don't change any extended attribute")
	flags.BoolVar(&opts.remove, "remove", false, "remove previously stored extended attributes")
	flags.String("algorithm", internal.DefaultHashAlgorithm, "content hash: sha256 or blake3")
	flags.Int("chunk-size", internal.DefaultChunkSize, "read size in bytes while hashing")
	flags.String("log-level", internal.DefaultLogLevel, "stderr log level: debug, info, warn, error")
	flags.BoolVar(&opts.version, "version", false, "print version and exit")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s %s\n", name, internal.Version)
		fmt.Fprintf(stderr, "Usage: %s [OPTIONS] FILE\n", name)
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}
	return flags
}

// Run checks the single file named in args (without the program name) and
// returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	name := internal.DefaultAppName
	term := NewTerminal(stdout, stderr)

	var opts options
	flags := newFlagSet(name, stderr, &opts)
	if err := flags.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			flags.Usage()
		}
		return ExitUsage
	}
	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", name, internal.Version)
		return ExitOK
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return ExitUsage
	}
	path := flags.Arg(0)

	cfg, err := config.LoadConfig(opts.configPath, flags)
	if err != nil {
		term.Error("configuration", err)
		return ExitUsage
	}
	switch {
	case opts.quieter:
		cfg.Output.Quiet = 2
	case opts.quiet && cfg.Output.Quiet < 1:
		cfg.Output.Quiet = 1
	}

	logger := internal.NewLogger(stderr, cfg.LogLevel())

	// Stat before opening: opening a FIFO would block.
	info, err := os.Stat(path)
	if err != nil {
		term.Error("cannot open file", err)
		return ExitOpen
	}
	if !info.Mode().IsRegular() {
		term.Error(fmt.Sprintf("%q is not a regular file", path), nil)
		return ExitNotRegular
	}

	f, err := os.Open(path)
	if err != nil {
		term.Error("cannot open file", err)
		return ExitOpen
	}
	defer f.Close()

	codec := metadata.NewCodec(cfg.Keys(), logger)
	store := metadata.NewFileStore(f)

	if opts.remove {
		return removeAttributes(term, codec, store, path, cfg)
	}

	hasher, err := hashing.New(cfg.Hash.Algorithm, cfg.Hash.ChunkSize)
	if err != nil {
		term.Error("configuration", err)
		return ExitUsage
	}
	reader := integrity.NewReader(hasher, logger)
	checker := integrity.NewChecker(codec, reader, cfg.DryRun, logger)

	res, err := checker.Check(f, store)
	reportResult(term, path, res, cfg.Output.Quiet)

	if err != nil {
		term.Error(path, err)
	}
	if res.State == integrity.StateCorrupt {
		return ExitCorrupt
	}
	return exitCodeFor(err)
}

func removeAttributes(term *Terminal, codec *metadata.Codec, store metadata.Store, path string, cfg *config.Config) int {
	if !cfg.DryRun {
		if err := codec.Remove(store); err != nil {
			term.Error(path, err)
			return ExitOther
		}
	}
	if cfg.Output.Quiet < 1 {
		term.Output(fmt.Sprintf("<removed xattr> %s", path))
	}
	return ExitOK
}
