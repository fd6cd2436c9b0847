package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yumyai/generanker/internal/compileinfo"
	"github.com/yumyai/generanker/internal/config"
	"github.com/yumyai/generanker/internal/util"
	"github.com/yumyai/generanker/logger"
	"github.com/yumyai/generanker/pkg/external"
	"github.com/yumyai/generanker/pkg/rank"
	"github.com/yumyai/generanker/pkg/ranker"
	"github.com/yumyai/generanker/pkg/sizefactor"
)

type rootFlags struct {
	outputFile  string
	idColumn    string
	args        map[string]string
	minMean     float64
	onlyIn      string
	envFile     string
	logLevel    string
	listMethods bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	rootCmd := &cobra.Command{
		Use:   "gene-ranker CASE CONTROL METHOD",
		Short: "Rank genes by how differently they are expressed in case and control samples",
		Long: `gene-ranker reads two expression matrices (CSV, TSV, xlsx or a SQLite
file.db#table source) that share an identifier column, and ranks every gene
they have in common with the chosen method. Values are expected in log2(x+1)
space. Run "gene-ranker methods" to see the available methods.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.listMethods {
				return nil
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, args, f)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&f.outputFile, "output-file", "o", "", "write the ranking here instead of stdout")
	flags.StringVar(&f.idColumn, "id-column", "", "name of the shared identifier column (default gene_id)")
	flags.StringToStringVar(&f.args, "arg", nil, "method option as key=value, may be repeated")
	flags.Float64Var(&f.minMean, "min-mean", 0, "keep only genes whose mean expression is above this value (0 disables)")
	flags.StringVar(&f.onlyIn, "only-in", "", "file with gene identifiers to keep, one per line")
	flags.BoolVar(&f.listMethods, "list-methods", false, "list the ranking methods and exit")
	rootCmd.PersistentFlags().StringVar(&f.envFile, "env-file", "", "read settings from this file (default .env)")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(newMethodsCmd(), newVersionCmd())
	return rootCmd
}

// setup loads configuration and builds the logger and method registry.
func setup(f rootFlags) (config.Config, *zap.Logger, *rank.Registry, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return cfg, nil, nil, err
	}
	if f.idColumn != "" {
		cfg.IDColumn = f.idColumn
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := logger.New(level)
	if err != nil {
		return cfg, nil, nil, err
	}
	if cfg.EnvFile == "" {
		log.Warn("No .env found, using local environment")
	}

	reg, err := rank.DefaultRegistry(rank.Deps{
		Cohen:      &external.FastCohen{Executable: cfg.FastCohen, TempDir: cfg.TempDir, Logger: log},
		Shrinkage:  &external.DESeq2{Rscript: cfg.Rscript, TempDir: cfg.TempDir, Logger: log},
		Normalizer: sizefactor.MedianOfRatios{},
	})
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, log, reg, nil
}

func runRank(cmd *cobra.Command, args []string, f rootFlags) error {
	cfg, log, reg, err := setup(f)
	if err != nil {
		return err
	}
	defer log.Sync() // Make sure that the buffered is flushed.

	if f.listMethods {
		return printMethods(cmd.OutOrStdout(), reg)
	}

	filter := rank.Filter{MinMean: f.minMean}
	if f.onlyIn != "" {
		file, err := os.Open(util.ExpandHome(f.onlyIn))
		if err != nil {
			return fmt.Errorf("failed to open gene list: %w", err)
		}
		defer file.Close()
		if filter.OnlyIn, err = rank.ReadGeneList(file); err != nil {
			return err
		}
	}

	r := ranker.New(reg, log)
	r.Stdout = cmd.OutOrStdout()

	_, err = r.Run(cmd.Context(), ranker.Options{
		CasePath:    args[0],
		ControlPath: args[1],
		Method:      args[2],
		IDColumn:    cfg.IDColumn,
		Args:        rank.Args(f.args),
		Filter:      filter,
		OutputPath:  f.outputFile,
		SlowMethod:  cfg.SlowMethod,
	})
	return err
}

func printMethods(w io.Writer, reg *rank.Registry) error {
	for _, d := range reg.Descriptors() {
		if _, err := fmt.Fprintf(w, "[%s] - %s: %s\n", d.Key(), d.Name, d.Description); err != nil {
			return err
		}
		for _, o := range d.Options {
			if _, err := fmt.Fprintf(w, "    --arg %s=VALUE  %s (default %s)\n", o.Name, o.Usage, o.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

type methodDoc struct {
	Key         string        `yaml:"key"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Options     []rank.Option `yaml:"options,omitempty"`
}

func newMethodsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the ranking methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := rank.DefaultRegistry(rank.Deps{
				Cohen:      &external.FastCohen{},
				Shrinkage:  &external.DESeq2{},
				Normalizer: sizefactor.MedianOfRatios{},
			})
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return printMethods(cmd.OutOrStdout(), reg)
			case "yaml":
				var docs []methodDoc
				for _, d := range reg.Descriptors() {
					docs = append(docs, methodDoc{Key: d.Key(), Name: d.Name, Description: d.Description, Options: d.Options})
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(docs); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q, use text or yaml", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), compileinfo.Get())
		},
	}
}
