package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"importjob/internal/config"
	"importjob/internal/importjob"
	"importjob/internal/logging"
	"importjob/internal/output"
	"importjob/internal/source"
	"importjob/internal/tactile"
)

var (
	// Global flags
	configPath string
	outputPath string
	flakeRef   string
	sourceFile string
	sourceHash string
	verbose    bool

	// Root command flags
	dryRun bool
	check  bool

	// Resolved in PersistentPreRunE
	cfg       *config.Config
	workspace string

	// newLocator builds the source locator; tests replace it.
	newLocator = defaultLocator
)

// errOutOfDate is returned by --check when the committed document differs.
var errOutOfDate = errors.New("import job document is out of date")

// rootCmd generates the import job document.
var rootCmd = &cobra.Command{
	Use:   "genimportjob",
	Short: "Generate importJob.json from the hydownloader import job script",
	Long: `genimportjob builds the pinned hydownloader source with nix, splits its
import job script into comment-delimited sections and writes them as a JSON
document keyed by section role and service.

Run from anywhere inside the flake; the workspace root is the nearest
directory holding .importjob.yaml or flake.nix.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.Format); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.BootDebug("Workspace root: %s", workspace)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runGenerate,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default <workspace>/.importjob.yaml)")
	pf.StringVarP(&outputPath, "output", "o", "", "output path, relative to the workspace root")
	pf.StringVar(&flakeRef, "flake", "", "flake reference holding the hydownloader source")
	pf.StringVar(&sourceFile, "source-file", "", "read this script instead of building the source")
	pf.StringVar(&sourceHash, "source-hash", "", "use this hash instead of evaluating it")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the document instead of writing it")
	rootCmd.Flags().BoolVar(&check, "check", false, "fail if the output file is not up to date")
	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "check")

	rootCmd.AddCommand(inspectCmd, servicesCmd)
}

// loadConfig resolves the workspace, loads the config file and applies flag overrides.
func loadConfig() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	workspace, err = config.FindWorkspaceRoot(cwd)
	if err != nil {
		return fmt.Errorf("failed to find workspace root: %w", err)
	}

	path := configPath
	if path == "" {
		path = filepath.Join(workspace, config.DefaultConfigFile)
	}
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}

	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if flakeRef != "" {
		cfg.Source.Flake = flakeRef
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// defaultLocator builds with nix, letting --source-file and --source-hash
// short-circuit either half of the resolution.
func defaultLocator(cfg *config.Config, root string) source.Locator {
	nix := source.NewNixLocator(tactile.NewDirectExecutor(), cfg, root)
	if sourceFile == "" && sourceHash == "" {
		return nix
	}
	path := sourceFile
	if path != "" {
		path = config.ResolvePath(root, path)
	}
	return &source.StaticLocator{Path: path, Hash: sourceHash, Fallback: nix}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	gen := importjob.NewGenerator(newLocator(cfg, workspace))

	doc, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	dest := config.ResolvePath(workspace, cfg.Output.Path)
	out := cmd.OutOrStdout()

	switch {
	case dryRun:
		data, err := output.Encode(doc, cfg.Output.Indent)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err

	case check:
		data, err := output.Encode(doc, cfg.Output.Indent)
		if err != nil {
			return err
		}
		same, err := output.Compare(dest, data)
		if err != nil {
			return err
		}
		if !same {
			return fmt.Errorf("%s: %w", dest, errOutOfDate)
		}
		fmt.Fprintf(out, "%s is up to date\n", dest)
		return nil

	default:
		if err := output.WriteDocument(dest, doc, cfg.Output.Indent); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%d service rule sets)\n", dest, len(doc.Rules))
		return nil
	}
}

// commandContext returns the command's context, or a background one for direct calls.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportError prints the diagnostics for err to w.
func reportError(w io.Writer, err error) {
	var (
		buildErr     *source.BuildError
		missing      *importjob.MissingInputFileError
		unknown      *importjob.UnknownServiceError
		unclassified *importjob.UnclassifiedSectionError
	)

	switch {
	case errors.As(err, &buildErr):
		if buildErr.Reason != "" {
			fmt.Fprintf(w, "Error running command: %s (%s)\n", buildErr.Command, buildErr.Reason)
		} else {
			fmt.Fprintf(w, "Error running command: %s\n", buildErr.Command)
		}
		fmt.Fprintf(w, "Error output: %s\n", buildErr.Stderr)
	case errors.As(err, &missing):
		fmt.Fprintf(w, "Error: File %s not found\n", missing.Path)
	case errors.As(err, &unknown):
		fmt.Fprintf(w, "Error: Unknown service name '%s'\n", unknown.Label)
	case errors.As(err, &unclassified):
		fmt.Fprintln(w, "Error: Found unknown section")
		fmt.Fprintf(w, "Section preview: %s\n", unclassified.Preview)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
