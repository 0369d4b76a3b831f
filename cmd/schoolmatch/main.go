package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/schoolmatch/internal/catalog"
	"github.com/pavelanni/schoolmatch/internal/handler"
	appI18n "github.com/pavelanni/schoolmatch/internal/i18n"
	"github.com/pavelanni/schoolmatch/internal/match"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/store"
	"github.com/pavelanni/schoolmatch/internal/wizard"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schoolmatch",
		Short: "Match student profiles to universities, high schools and language schools",
	}

	serve := serveCmd()
	root.AddCommand(serve, importCmd(), matchCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `schoolmatch --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "text", "Log format (text, json)")
}

func addMatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "schoolmatch.db", "SQLite database path")
	f.String("university-catalog", "", "University catalog JSON file (default: embedded)")
	f.String("professor-catalog", "", "Professor catalog JSON file (default: embedded)")
	f.Int("language-weeks", match.DefaultLanguageCourseWeeks, "Projected language course length in weeks")
	f.IntP("max-results", "n", 0, "Maximum matches returned (0 = all)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP matching API",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "Default API language (en, tr)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /tr)")
	addMatchFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import catalog JSON files into the database",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	f := cmd.Flags()
	f.String("db", "schoolmatch.db", "SQLite database path")
	f.Bool("force", false, "Re-import files even if unchanged")
	addLogFlags(cmd)
	return cmd
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a profile JSON file and print the results",
		RunE:  runMatch,
	}
	f := cmd.Flags()
	f.StringP("profile", "p", "-", "Profile JSON file (- for stdin)")
	f.Bool("validate", true, "Validate the profile against every form step first")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addMatchFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export submitted profiles as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "schoolmatch.db", "SQLite database path")
	f.String("program-type", "", "Only export this program type")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SCHOOLMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("schoolmatch")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/schoolmatch")
	v.AddConfigPath("/etc/schoolmatch")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func matchConfig(v *viper.Viper) model.MatchConfig {
	return model.MatchConfig{
		LanguageCourseWeeks: v.GetInt("language-weeks"),
		MaxResults:          v.GetInt("max-results"),
		BasePath:            v.GetString("base-path"),
	}
}

// newEngine wires the catalog and the store into a match engine.
func newEngine(v *viper.Viper, db *store.Store) (*match.Engine, *catalog.Catalog, error) {
	c, err := catalog.Load(v.GetString("university-catalog"), v.GetString("professor-catalog"))
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	e := match.NewEngine(match.Sources{
		Universities:    c,
		Professors:      c,
		HighSchools:     db,
		LanguageSchools: db,
	}, matchConfig(v))
	return e, c, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	engine, c, err := newEngine(v, db)
	if err != nil {
		return err
	}

	cfg := matchConfig(v)
	h, err := handler.New(db, c, engine, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"db", v.GetString("db"),
		"language_weeks", cfg.LanguageCourseWeeks,
		"max_results", cfg.MaxResults,
		"base_path", cfg.BasePath,
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(lang),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return importFiles(cmd.Context(), db, args, v.GetBool("force"))
}

// importFiles loads each catalog file into the store. Files whose content
// hash matches the last import are skipped unless force is set.
func importFiles(ctx context.Context, db *store.Store, paths []string, force bool) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(ctx, path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}
		if storedHash == hash && !force {
			slog.Info("catalog file unchanged, skipping", "path", path)
			continue
		}

		var c model.CatalogImport
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := db.ImportCatalog(ctx, c); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}

		if err := db.SetImportedFileHash(ctx, path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported catalog",
			"path", path,
			"records", c.Len(),
			"high_schools", len(c.HighSchools),
			"language_schools", len(c.LanguageSchools),
			"universities", len(c.Universities),
		)
	}
	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func runMatch(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	data, err := readInput(cmd, v.GetString("profile"))
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}
	if v.GetBool("validate") {
		if err := wizard.NewValidator().ValidateAll(p); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	engine, _, err := newEngine(v, db)
	if err != nil {
		return err
	}
	set := engine.Match(cmd.Context(), p)
	slog.Info("match complete", "program_type", set.ProgramType, "matches", set.Len())
	return writeOutput(v.GetString("output"), set)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	programType := model.ProgramType(v.GetString("program-type"))
	records, err := db.ExportSubmissions(cmd.Context(), programType)
	if err != nil {
		return fmt.Errorf("export submissions: %w", err)
	}

	export := model.SubmissionExport{
		ExportedAt:  time.Now().UTC(),
		ProgramType: programType,
		Count:       len(records),
		Submissions: records,
	}
	return writeOutput(v.GetString("output"), export)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// writeOutput writes v as indented JSON to path, or stdout for "-".
func writeOutput(outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
