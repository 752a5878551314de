package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/LouisLau-art/simple-renpy-translator/internal/config"
	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
	"github.com/LouisLau-art/simple-renpy-translator/internal/pipeline"
	"github.com/LouisLau-art/simple-renpy-translator/internal/review"
	"github.com/LouisLau-art/simple-renpy-translator/internal/store"
	"github.com/LouisLau-art/simple-renpy-translator/internal/workfile"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "rt",
		Short: "Extract and inject translatable text in Ren'Py games",
		Long: `Scans Ren'Py script files for translatable prose, assigns stable
content-addressed identifiers, and regenerates the engine's tl/ overlay
files once translations are filled in out-of-band.`,
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(injectCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func profileFor(cfg *config.Config, flag string) (parser.Profile, error) {
	name := cfg.FilterProfile
	if flag != "" {
		name = flag
	}
	p, ok := parser.ProfileByName(name)
	if !ok {
		return parser.Profile{}, fmt.Errorf("unknown filter profile: %s", name)
	}
	return p, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("open project registry: %w", err)
	}
	return st, nil
}

func resolveProject(st *store.Store, nameOrPath string) (store.Project, error) {
	p, ok, err := st.FindProject(nameOrPath)
	if err != nil {
		return store.Project{}, err
	}
	if !ok {
		return store.Project{}, fmt.Errorf("unknown project %q (run 'rt init' first)", nameOrPath)
	}
	return p, nil
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan a game directory and write the translation work file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gameDir, _ := cmd.Flags().GetString("game-dir")
			output, _ := cmd.Flags().GetString("output")
			annotate, _ := cmd.Flags().GetBool("annotate")
			profile, _ := cmd.Flags().GetString("profile")
			return runExtract(gameDir, output, profile, annotate)
		},
	}
	cfg := config.Load()
	cmd.Flags().StringP("game-dir", "g", cfg.ScanDirName, "Game script directory to scan")
	cmd.Flags().StringP("output", "o", cfg.WorkFile, "Output work file (JSON)")
	cmd.Flags().Bool("annotate", false, "Embed ids inline in the source files")
	cmd.Flags().String("profile", "", "Filter strictness profile (default|strict)")
	return cmd
}

func runExtract(gameDir, output, profileFlag string, annotate bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	profile, err := profileFor(cfg, profileFlag)
	if err != nil {
		return err
	}

	extractor := pipeline.NewExtractor(profile, cfg.WorkerCount)
	result, err := extractor.Run(ctx, gameDir)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if len(result.Records) == 0 {
		log.Warn().Msg("No translatable text found")
		return nil
	}

	if annotate {
		if _, err := pipeline.Annotate(result.Files); err != nil {
			return fmt.Errorf("annotate: %w", err)
		}
	}

	if err := workfile.Save(output, result.Records); err != nil {
		return fmt.Errorf("save work file: %w", err)
	}

	dialogue, strings := 0, 0
	for _, r := range result.Records {
		if r.Type == parser.TypeDialogue {
			dialogue++
		} else {
			strings++
		}
	}
	log.Info().
		Str("output", output).
		Int("dialogue", dialogue).
		Int("strings", strings).
		Int("total", len(result.Records)).
		Msg("Work file written")

	return nil
}

func injectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Generate tl/ overlay files from a translated work file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			gameDir, _ := cmd.Flags().GetString("game-dir")
			language, _ := cmd.Flags().GetString("language")
			return runInject(input, gameDir, language)
		},
	}
	cfg := config.Load()
	cmd.Flags().StringP("input", "i", cfg.WorkFile, "Translated work file (JSON)")
	cmd.Flags().StringP("game-dir", "g", cfg.ScanDirName, "Game script directory")
	cmd.Flags().StringP("language", "l", cfg.DefaultLanguage, "Target language code")
	return cmd
}

func runInject(input, gameDir, language string) error {
	records, err := workfile.Load(input)
	if err != nil {
		return fmt.Errorf("load work file: %w", err)
	}

	count, err := pipeline.NewInjector().Inject(records, language, gameDir)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoTranslatedContent) {
			log.Warn().Msg("No translated entries found, nothing written")
			return err
		}
		return fmt.Errorf("inject: %w", err)
	}

	log.Info().Int("files", count).Str("language", language).Msg("Overlay files generated")
	return nil
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <game-path>",
		Short: "Register a game directory as a translation project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return runInit(args[0], name)
		},
	}
	cmd.Flags().StringP("name", "n", "", "Project name (defaults to directory name)")
	return cmd
}

func runInit(gamePath, name string) error {
	cfg := config.Load()

	if _, err := os.Stat(filepath.Join(gamePath, cfg.ScanDirName)); err != nil {
		return fmt.Errorf("not a Ren'Py project (no %s/ directory): %s", cfg.ScanDirName, gamePath)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.GetOrCreateProject(gamePath, name)
	if err != nil {
		return err
	}

	log.Info().Str("name", p.Name).Str("path", p.GamePath).Msg("Project registered")
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects registered.")
		return nil
	}
	for _, p := range projects {
		fmt.Printf("%-20s %s\n", p.Name, p.GamePath)
	}
	return nil
}

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <project>",
		Short: "Scan a project and cache its translatable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			profile, _ := cmd.Flags().GetString("profile")
			return runScan(args[0], language, profile)
		},
	}
	cmd.Flags().StringP("language", "l", "", "Target language code")
	cmd.Flags().String("profile", "", "Filter strictness profile (default|strict)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func runScan(project, language, profileFlag string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	profile, err := profileFor(cfg, profileFlag)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := resolveProject(st, project)
	if err != nil {
		return err
	}

	scanRoot := filepath.Join(p.GamePath, cfg.ScanDirName)
	extractor := pipeline.NewExtractor(profile, cfg.WorkerCount)
	result, err := extractor.Run(ctx, scanRoot)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	// Carry translations forward: ids are stable across re-scans of
	// unchanged lines, so prior work survives wholesale replacement.
	if prior, ok, err := st.LoadScan(p.ID, language); err == nil && ok {
		translated := make(map[string]string, len(prior))
		for _, r := range prior {
			if r.Translated != "" {
				translated[r.ID] = r.Translated
			}
		}
		for i := range result.Records {
			if t, ok := translated[result.Records[i].ID]; ok {
				result.Records[i].Translated = t
			}
		}
	}

	stats, err := st.SaveScan(p.ID, language, result.Records)
	if err != nil {
		return err
	}

	log.Info().
		Str("project", p.Name).
		Str("language", language).
		Int("total", stats.Total).
		Int("dialogue", stats.Dialogue).
		Int("strings", stats.Strings).
		Msg("Scan cached")

	return nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export cached text to a review table for manual translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			output, _ := cmd.Flags().GetString("output")
			return runExport(args[0], language, output)
		},
	}
	cmd.Flags().StringP("language", "l", "", "Target language code")
	cmd.Flags().StringP("output", "o", "", "Output TSV path")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func runExport(project, language, output string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := resolveProject(st, project)
	if err != nil {
		return err
	}

	records, ok, err := st.LoadScan(p.ID, language)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no scan cached for %s/%s (run 'rt scan' first)", p.Name, language)
	}

	if output == "" {
		output = fmt.Sprintf("%s_%s.tsv", p.Name, language)
	}
	return review.Export(records, output)
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <project> <file>",
		Short: "Import an edited review table back into the scan cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			return runImport(args[0], language, args[1])
		},
	}
	cmd.Flags().StringP("language", "l", "", "Target language code")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func runImport(project, language, file string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := resolveProject(st, project)
	if err != nil {
		return err
	}

	records, ok, err := st.LoadScan(p.ID, language)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no scan cached for %s/%s (run 'rt scan' first)", p.Name, language)
	}

	updated, err := review.Import(records, file)
	if err != nil {
		return err
	}

	stats, err := st.SaveScan(p.ID, language, records)
	if err != nil {
		return err
	}

	log.Info().
		Int("updated", updated).
		Int("translated", stats.Translated).
		Int("total", stats.Total).
		Msg("Translations imported")

	return nil
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <project>",
		Short: "Generate tl/ overlay files from the scan cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			return runGenerate(args[0], language)
		},
	}
	cmd.Flags().StringP("language", "l", "", "Target language code")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func runGenerate(project, language string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := resolveProject(st, project)
	if err != nil {
		return err
	}

	records, ok, err := st.LoadScan(p.ID, language)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no scan cached for %s/%s (run 'rt scan' first)", p.Name, language)
	}

	scanRoot := filepath.Join(p.GamePath, cfg.ScanDirName)
	count, err := pipeline.NewInjector().Inject(records, language, scanRoot)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoTranslatedContent) {
			log.Warn().Msg("No translated entries found, nothing written")
			return err
		}
		return err
	}

	log.Info().Int("files", count).Str("language", language).Msg("Overlay files generated")
	return nil
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project>",
		Short: "Show translation progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			return runStatus(args[0], language)
		},
	}
	cmd.Flags().StringP("language", "l", "", "Target language code (all languages when omitted)")
	return cmd
}

func runStatus(project, language string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := resolveProject(st, project)
	if err != nil {
		return err
	}

	languages := []string{language}
	if language == "" {
		languages, err = st.Languages(p.ID)
		if err != nil {
			return err
		}
		if len(languages) == 0 {
			fmt.Printf("Project %s: no scans cached.\n", p.Name)
			return nil
		}
	}

	fmt.Printf("Project: %s (%s)\n", p.Name, p.GamePath)
	for _, lang := range languages {
		stats, ok, err := st.Stats(p.ID, lang)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("  %s: no scan cached\n", lang)
			continue
		}
		fmt.Printf("  %s: %d/%d translated (%.1f%%), %d dialogue, %d strings, scanned %s\n",
			lang, stats.Translated, stats.Total, stats.CompletionRate,
			stats.Dialogue, stats.Strings, stats.ScannedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
