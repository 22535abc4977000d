// Command netconfig validates a network description and generates the
// DNS, DHCP and inventory files for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/config"
	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/generator/bind9"
	"github.com/HerbHall/netconfig/internal/generator/dhcp"
	"github.com/HerbHall/netconfig/internal/generator/inventory"
	"github.com/HerbHall/netconfig/internal/generator/yamlexport"
	"github.com/HerbHall/netconfig/internal/loader"
	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	outDir     string
	input      string
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("netconfig", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file")
	outDir := fs.String("outdir", "", "output directory (overrides output.dir)")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: netconfig [flags] input.yaml\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{configPath: *configPath, outDir: *outDir, input: fs.Arg(0)}
	if err := generate(ctx, logger, opts); err != nil {
		logger.Error("generation failed", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// generate runs the whole pipeline. Files are collected in memory and
// written only once every generator has succeeded.
func generate(ctx context.Context, logger *zap.Logger, opts options) error {
	logger.Info("netconfig starting", version.Fields()...)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if opts.outDir != "" {
		cfg.Set("output.dir", opts.outDir)
	}

	doc, err := loader.Load(opts.input)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.input, err)
	}
	hosts, networks, err := doc.Build()
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.input, err)
	}

	topo, err := topology.NewResolver(logger.Named("topology")).Resolve(hosts, networks)
	if err != nil {
		return err
	}
	logger.Info("topology resolved",
		zap.Int("networks", len(topo.Networks())),
		zap.Int("hosts", len(topo.Hosts())),
	)

	registry := generator.NewRegistry(logger.Named("generator"))

	// Register all generators (compile-time composition)
	generators := []generator.Generator{
		bind9.New(),
		dhcp.New(),
		inventory.New(),
		yamlexport.New(),
	}
	for _, g := range generators {
		if err := registry.Register(g); err != nil {
			return err
		}
	}
	if err := registry.InitAll(cfg); err != nil {
		return err
	}

	staged := generator.NewMemoryOutput()
	if err := registry.GenerateAll(ctx, topo, staged); err != nil {
		return err
	}

	dir := cfg.GetString("output.dir")
	if err := staged.CopyTo(generator.NewDirOutput(dir)); err != nil {
		return err
	}
	logger.Info("configuration written", zap.String("dir", dir), zap.Int("files", len(staged.Names())))
	return nil
}
