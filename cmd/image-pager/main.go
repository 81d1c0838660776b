package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ironsheep/image-pager/internal/codec"
	"github.com/ironsheep/image-pager/internal/config"
	"github.com/ironsheep/image-pager/internal/server"
	"github.com/ironsheep/image-pager/internal/session"
	"github.com/ironsheep/image-pager/internal/transform"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var exampleUsage = strings.TrimSpace(`
  image-pager serve --config $HOME/.image-pager/config.yaml
  image-pager transform --in photo.png --out rotated.png --rotate 90 --filter sepia
`)

// newLogger builds a console logger on stderr; stdout belongs to the MCP
// protocol.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// loadConfig resolves the effective configuration: defaults, then the config
// file (if any), then environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command, cfgPath string, cfg *config.Config) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if changed["page-unit-pixels"] {
		loaded.PageUnitPixels = cfg.PageUnitPixels
	}
	if changed["budget-units"] {
		loaded.BudgetUnits = cfg.BudgetUnits
	}
	if changed["fault-latency"] {
		loaded.FaultLatency = cfg.FaultLatency
	}
	if changed["log-level"] {
		loaded.LogLevel = cfg.LogLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	*cfg = loaded
	return nil
}

func main() {
	cfg := config.Default()
	var cfgPath string

	root := &cobra.Command{
		Use:     "image-pager",
		Short:   "Paged image editor with an OS-style page store and MCP server",
		Example: exampleUsage,
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().IntVar(&cfg.PageUnitPixels, "page-unit-pixels", cfg.PageUnitPixels, "pixels per page")
	root.PersistentFlags().IntVar(&cfg.BudgetUnits, "budget-units", cfg.BudgetUnits, "resident page budget")
	root.PersistentFlags().DurationVar(&cfg.FaultLatency, "fault-latency", cfg.FaultLatency, "simulated delay per page fault")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP protocol on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)
			log.Info().
				Str("version", Version).
				Int("page_unit_pixels", cfg.PageUnitPixels).
				Int("budget_units", cfg.BudgetUnits).
				Msg("starting MCP server")

			return server.New(cfg, log).Run(os.Stdin, os.Stdout)
		},
	}
	root.AddCommand(serve)

	var (
		inPath     string
		outPath    string
		brightness int
		contrast   int
		filterName string
		rotation   int
	)
	transformCmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply one paged transform to an image file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			filter, err := transform.ParseFilter(filterName)
			if err != nil {
				return err
			}
			buf, err := codec.DecodeFile(inPath)
			if err != nil {
				return err
			}

			sess := session.New(cfg)
			if err := sess.StoreImage(buf.Pix, buf.Width, buf.Height); err != nil {
				return err
			}
			res, err := sess.Transform(transform.Request{
				Brightness: brightness,
				Contrast:   contrast,
				Filter:     filter,
				Rotation:   rotation,
			})
			if err != nil {
				return err
			}
			if err := sess.SaveTo(outPath); err != nil {
				return err
			}

			log.Info().
				Str("out", outPath).
				Int("width", res.Width).
				Int("height", res.Height).
				Uint64("hits", res.Stats.Hits).
				Uint64("faults", res.Stats.Faults).
				Msg("transform written")
			return nil
		},
	}
	transformCmd.Flags().StringVar(&inPath, "in", "", "input image path (PNG, JPEG, or GIF)")
	transformCmd.Flags().StringVar(&outPath, "out", "", "output image path")
	transformCmd.Flags().IntVar(&brightness, "brightness", 0, "brightness delta in [-100,100]")
	transformCmd.Flags().IntVar(&contrast, "contrast", 0, "contrast delta in [-100,100]")
	transformCmd.Flags().StringVar(&filterName, "filter", "none", "filter: none, grayscale, sepia, or invert")
	transformCmd.Flags().IntVar(&rotation, "rotate", 0, "clockwise rotation: 0, 90, 180, or 270")
	_ = transformCmd.MarkFlagRequired("in")
	_ = transformCmd.MarkFlagRequired("out")
	root.AddCommand(transformCmd)

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("image-pager %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
		},
	}
	root.AddCommand(version)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
