package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/codeninja55/radx-adapter/cmd/radx-adapter/internal/build"
	"github.com/codeninja55/radx-adapter/dicom/uid"
	"github.com/codeninja55/radx-adapter/dimse/scp"
	"github.com/codeninja55/radx-adapter/internal/bus"
	"github.com/codeninja55/radx-adapter/internal/config"
	"github.com/codeninja55/radx-adapter/internal/model"
	"github.com/codeninja55/radx-adapter/internal/processor"
	"github.com/codeninja55/radx-adapter/internal/reclaim"
	"github.com/codeninja55/radx-adapter/internal/reception"
	"github.com/codeninja55/radx-adapter/internal/registry"
	"github.com/codeninja55/radx-adapter/internal/storagegate"
	"github.com/codeninja55/radx-adapter/internal/submitter"
)

const (
	appName        = "radx-adapter"
	appDescription = "DICOM SCP that groups stored instances into pipeline jobs"
)

// CLI is the root command structure.
type CLI struct {
	config.GlobalConfig

	Serve          ServeCmd          `cmd:"" help:"Run the SCP and start accepting associations."`
	ValidateConfig ValidateConfigCmd `cmd:"" name:"validate-config" help:"Validate a registry file without starting the server."`
}

// ServeCmd runs the adapter.
type ServeCmd struct {
	config.ServeConfig
	PlatformURL string `name:"platform-url" required:"" help:"Base URL of the job-submission platform."`
}

// ValidateConfigCmd loads and validates a registry file, then exits.
type ValidateConfigCmd struct {
	RegistryFile string `name:"registry-file" required:"" type:"existingfile" help:"Peer registry file to validate."`
}

// Run executes the radx-adapter CLI with the provided build info.
func Run(version, commit, date string) error {
	build.SetBuildInfo(version, commit, date)

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	logger := setupLogger(&cli.GlobalConfig)
	logger.Debug("radx-adapter starting", "version", version, "commit", commit, "build_date", date)

	if err := kctx.Run(logger); err != nil {
		logger.Error("command failed", "error", err)
		return err
	}
	return nil
}

// setupLogger configures the global logger based on config, mirroring
// the teacher CLI's own setupLogger.
func setupLogger(cfg *config.GlobalConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	switch cfg.LogLevel {
	case "trace", "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	case "fatal":
		logger.SetLevel(log.FatalLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if !cfg.Pretty {
		logger.SetFormatter(log.JSONFormatter)
	}

	log.SetDefault(logger)
	return logger
}

// defaultVerificationContexts is the transfer-syntax allow-list for the
// verification SOP class, always accepted regardless of registry
// content per spec §4.3 ("C-ECHO is always negotiated").
var defaultVerificationContexts = map[string][]string{
	uid.VerificationSOPClass.String(): {
		uid.ImplicitVRLittleEndian.String(),
		uid.ExplicitVRLittleEndian.String(),
	},
}

// Run validates a registry file and reports the result, without
// starting any network listener.
func (c *ValidateConfigCmd) Run(logger *log.Logger) error {
	calledAEs, allowedSources, destinations, err := config.LoadRegistryFile(c.RegistryFile)
	if err != nil {
		return err
	}
	logger.Info("registry file is valid",
		"calledAEs", len(calledAEs),
		"allowedSources", len(allowedSources),
		"destinations", len(destinations))
	return nil
}

// Run starts the SCP and every supporting component, and blocks until
// SIGINT/SIGTERM or an unrecoverable startup error.
func (c *ServeCmd) Run(logger *log.Logger) error {
	calledAEs, allowedSources, destinations, err := config.LoadRegistryFile(c.RegistryFile)
	if err != nil {
		return fmt.Errorf("load registry file: %w", err)
	}
	if len(calledAEs) == 0 {
		return fmt.Errorf("registry file %s declares no called AEs", c.RegistryFile)
	}

	snapshot := registry.Snapshot{
		CalledAEs:      make(map[string]model.CalledAE, len(calledAEs)),
		AllowedSources: make(map[string]model.AllowedSource, len(allowedSources)),
		Destinations:   make(map[string]model.Destination, len(destinations)),
	}
	for _, ae := range calledAEs {
		snapshot.CalledAEs[ae.AETitle] = ae
	}
	for _, src := range allowedSources {
		snapshot.AllowedSources[src.AETitle] = src
	}
	for _, dest := range destinations {
		snapshot.Destinations[dest.Name] = dest
	}
	reg := registry.New(snapshot)

	gate := storagegate.New(c.StorageRoot, c.WatermarkPercent, c.ReservedBytes, logger)
	store := reception.New(c.StorageRoot, gate)
	eventBus := bus.New(bus.DefaultCapacity, logger)
	reclaimQueue := reclaim.NewQueue()
	reclaimer := reclaim.New(reclaimQueue, c.StorageRoot, logger)

	platformClient := submitter.NewHTTPPlatformClient(c.PlatformURL)
	sub := submitter.New(platformClient, platformClient, c.SubmitWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reclaimer.Run(ctx)

	// Verification is matched against an explicit transfer-syntax
	// allow-list; any other proposed abstract syntax is a storage SOP
	// class and is negotiated unconditionally (see
	// dul.Association.negotiatePresentationContext), so no storage SOP
	// class is ever listed here.
	supportedContexts := make(map[string][]string, len(defaultVerificationContexts))
	for k, v := range defaultVerificationContexts {
		supportedContexts[k] = v
	}

	processors := make([]*processor.Processor, 0, len(calledAEs))
	for _, ae := range calledAEs {
		procCfg, err := processor.ParseConfig(ae.ProcessorConfig)
		if err != nil {
			return fmt.Errorf("called AE %s: processor config: %w", ae.AETitle, err)
		}
		ch := eventBus.Subscribe(ae.AETitle)
		p := processor.New(ae.AETitle, procCfg, ch, sub, reclaimQueue, logger)
		processors = append(processors, p)
		go p.Run(ctx)
	}

	serverConfig := scp.Config{
		ListenAddr:             c.ListenAddr,
		MaxPDULength:           c.MaxPDULength,
		MaxAssociations:        c.MaxAssociations,
		SupportedContexts:      supportedContexts,
		RejectUnknownSources:   c.RejectUnknownSources,
		ImplementationClassUID: c.ImplementationClassUID,
		ImplementationVersion:  c.ImplementationVersion,
		Registry:               reg,
		Gate:                   gate,
		Store:                  store,
		Bus:                    eventBus,
		Reclaim:                reclaimQueue,
		Logger:                 logger,
	}

	server, err := scp.NewServer(serverConfig)
	if err != nil {
		return fmt.Errorf("create SCP server: %w", err)
	}

	if err := server.Listen(ctx); err != nil {
		return fmt.Errorf("listen on %s: %w", c.ListenAddr, err)
	}
	logger.Info("radx-adapter listening", "addr", c.ListenAddr, "calledAEs", len(calledAEs))

	<-ctx.Done()
	logger.Info("shutting down", "grace", c.GraceShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.GraceShutdown)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown did not complete cleanly", "error", err)
	}
	reclaimQueue.Close()

	return nil
}
