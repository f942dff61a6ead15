package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"onscreen-translator/src/config"
	"onscreen-translator/src/eventloop"
	"onscreen-translator/src/geometry"
	"onscreen-translator/src/logutil"
	"onscreen-translator/src/overlay"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/runtimeinit"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/session"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024

	defaultTimeout = 2 * time.Minute
)

type cliOptions struct {
	filePath   string
	ocr        string
	ocrLang    string
	provider   string
	target     string
	jsonOutput bool
	verbose    bool
	apiKeyPath string
	model      string
	timeout    time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"translate-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "translate-tool",
		Short:         "Recognize and translate the text in an image",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to a PNG or JPEG image")
	cmd.Flags().StringVar(&opts.ocr, "ocr", "", "OCR provider: llm_vision or tesseract (default from config)")
	cmd.Flags().StringVar(&opts.ocrLang, "lang", "", "Language of the text in the image (default from config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Translation provider: llm, external_app or ocr_only (default from config)")
	cmd.Flags().StringVar(&opts.target, "to", "", "Target language (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Override the MODEL setting")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Give up after this long")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	long := []string{"file", "ocr", "lang", "provider", "to", "json", "verbose", "api-key-path", "model", "timeout"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}

func runWithOptions(ctx context.Context, opts cliOptions, stdout io.Writer) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Starting translate tool\n")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := runtimeinit.Load(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			APIKeyPathOverride: opts.apiKeyPath,
			ModelOverride:      opts.model,
		},
	})
	if err != nil {
		return err
	}
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Config loaded: Model=%s\n", cfg.Model)
		fmt.Fprintf(os.Stderr, "[verbose] Effective API key path: %s (key %s)\n", cfg.APIKeyPath, logutil.RedactKey(cfg.APIKey))
	}

	ext, err := loadImage(opts.filePath)
	if err != nil {
		return err
	}

	langs := newCLIPrefs(cfg, opts)
	settings := config.NewStore(cfg.Settings)
	settings.Update(func(s *config.Settings) {
		s.AutoCopyResult = false
		s.RememberLastSelection = false
	})

	surface := &overlay.Recorder{Parent: ext.Bounds()}
	rt, err := runtimeinit.Build(cfg, settings, langs, surface)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if tr := rt.Translators.FromKey(langs.SelectedTranslationProvider()); tr != nil && tr.Type() == translation.LLM {
		if err := rt.LLM.Verify(ctx); err != nil {
			return fmt.Errorf("translation provider unavailable: %w", err)
		}
	}
	if rt.Recognizers.FromKey(langs.SelectedOCRProvider()).Type() == recognition.Tesseract && !rt.Tesseract.HasModel(langs.SelectedOCRLang()) {
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Downloading tesseract model for %q\n", langs.SelectedOCRLang())
		}
		if err := rt.Tesseract.DownloadModel(ctx, langs.SelectedOCRLang()); err != nil {
			return fmt.Errorf("failed to download OCR model: %w", err)
		}
	}

	start := time.Now()
	out, err := runSession(ctx, eventloop.Options{
		Extractor:   ext,
		Recognizers: rt.Recognizers,
		Translators: rt.Translators,
		Settings:    settings,
		Prefs:       langs,
		Telemetry:   telemetry.Discard{},
		SettleDelay: time.Millisecond,
		MinCropSize: cfg.MinCropSize,
	}, surface, langs.SelectedOCRLang())
	if err != nil {
		return err
	}
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Session finished in %v\n", time.Since(start))
	}
	return outputResult(stdout, out, opts.filePath, time.Since(start), opts.jsonOutput)
}

func loadImage(path string) (*screenshot.FileExtractor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	return screenshot.LoadFile(path)
}

// outcome is how a headless session ended.
type outcome struct {
	display *session.Display
	handoff bool
}

// resultSurface forwards shown results so the caller can wait for them.
type resultSurface struct {
	*overlay.Recorder
	results chan session.Display
}

func (s *resultSurface) ShowResult(d session.Display) {
	s.Recorder.ShowResult(d)
	select {
	case s.results <- d:
	default:
	}
}

// runSession drives one circle-to-translate session over the whole parent
// of rec and waits for it to display a result, fail or hand off.
func runSession(ctx context.Context, opts eventloop.Options, rec *overlay.Recorder, ocrLang string) (outcome, error) {
	surface := &resultSurface{Recorder: rec, results: make(chan session.Display, 1)}
	states := make(chan session.State, 32)
	opts.Surface = surface
	opts.OnStateChange = func(_, to session.State) {
		select {
		case states <- to:
		default:
			log.Printf("cli: dropped state %s", to.Kind())
		}
	}

	loop, err := eventloop.New(opts)
	if err != nil {
		return outcome{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	parent := rec.Parent
	loop.StartCircling()
	loop.DragFinished(parent, geometry.Point{X: parent.Left, Y: parent.Top}, geometry.Point{X: parent.Right - 1, Y: parent.Bottom - 1})
	loop.StartCapture(ocrLang)

	captured := false
	for {
		select {
		case d := <-surface.results:
			return outcome{display: &d}, nil
		case st := <-states:
			switch s := st.(type) {
			case session.Capturing:
				captured = true
			case session.Failed:
				return outcome{}, errors.New(s.Message)
			case session.Idle:
				if captured {
					return outcome{handoff: true}, nil
				}
				return outcome{}, fmt.Errorf("session did not start%s", lastDialog(rec))
			}
		case <-ctx.Done():
			return outcome{}, fmt.Errorf("timed out: %w", ctx.Err())
		}
	}
}

func lastDialog(rec *overlay.Recorder) string {
	dialogs := rec.Dialogs()
	if len(dialogs) == 0 {
		return ""
	}
	d := dialogs[len(dialogs)-1]
	return fmt.Sprintf(": %s: %s", d.Title, d.Message)
}

type TranslationResult struct {
	Text        string  `json:"text"`
	Language    string  `json:"language"`
	Translation string  `json:"translation,omitempty"`
	Provider    string  `json:"provider,omitempty"`
	Hint        string  `json:"hint,omitempty"`
	Handoff     bool    `json:"opened_external_app,omitempty"`
	Source      string  `json:"source"`
	Timestamp   string  `json:"timestamp"`
	Duration    float64 `json:"duration_seconds"`
	CharCount   int     `json:"character_count"`
}

func newTranslationResult(out outcome, sourcePath string, elapsed time.Duration) TranslationResult {
	r := TranslationResult{
		Handoff:   out.handoff,
		Source:    sourcePath,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
	}
	if d := out.display; d != nil {
		r.Text = d.OCRText
		r.Language = d.LangCode
		r.Translation = d.TranslatedText
		r.Provider = d.Provider
		r.Hint = d.Hint
		r.CharCount = len(d.OCRText)
	}
	return r
}

func outputResult(w io.Writer, out outcome, sourcePath string, elapsed time.Duration, jsonOutput bool) error {
	result := newTranslationResult(out, sourcePath, elapsed)
	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	switch {
	case result.Handoff:
		fmt.Fprintln(w, "Opened the text in an external translator")
	case result.Translation != "":
		fmt.Fprint(w, result.Translation)
	default:
		fmt.Fprint(w, result.Text)
	}
	return nil
}

// cliPrefs holds provider and language choices for one run.
type cliPrefs struct {
	ocrProvider string
	ocrLang     string
	provider    string
	target      string
}

func newCLIPrefs(cfg *config.Config, opts cliOptions) *cliPrefs {
	pick := func(flag, fallback string) string {
		if v := strings.TrimSpace(flag); v != "" {
			return v
		}
		return fallback
	}
	return &cliPrefs{
		ocrProvider: pick(opts.ocr, cfg.DefaultOCRProvider),
		ocrLang:     pick(opts.ocrLang, cfg.DefaultOCRLang),
		provider:    pick(opts.provider, cfg.DefaultTranslationProvider),
		target:      pick(opts.target, cfg.DefaultTranslationLang),
	}
}

func (p *cliPrefs) SelectedOCRProvider() string               { return p.ocrProvider }
func (p *cliPrefs) SetSelectedOCRProvider(key string)         { p.ocrProvider = key }
func (p *cliPrefs) SelectedOCRLang() string                   { return p.ocrLang }
func (p *cliPrefs) SetSelectedOCRLang(code string)            { p.ocrLang = code }
func (p *cliPrefs) SelectedTranslationProvider() string       { return p.provider }
func (p *cliPrefs) SetSelectedTranslationProvider(key string) { p.provider = key }
func (p *cliPrefs) SelectedTranslationLang() string           { return p.target }
func (p *cliPrefs) SetSelectedTranslationLang(code string)    { p.target = code }

func (p *cliPrefs) LastSelection() (selection, parent geometry.Rect, ok bool) {
	return geometry.Rect{}, geometry.Rect{}, false
}

func (p *cliPrefs) SetLastSelection(selection, parent geometry.Rect) {}
