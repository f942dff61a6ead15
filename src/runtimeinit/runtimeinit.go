// Package runtimeinit builds the backends shared by the resident app and the
// command line tool.
package runtimeinit

import (
	"fmt"
	"log"

	"onscreen-translator/src/config"
	"onscreen-translator/src/dialog"
	"onscreen-translator/src/llm"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/recognition/llmvision"
	"onscreen-translator/src/recognition/tesseract"
	"onscreen-translator/src/translation"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(cfg *config.Config)
}

// Load reads the configuration and sets up logging.
func Load(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg)
	}
	return cfg, nil
}

// Runtime holds the recognition and translation backends.
type Runtime struct {
	Config   *config.Config
	Settings *config.Store
	Client   *llm.Client

	Recognizers *recognition.Registry
	Tesseract   *tesseract.Recognizer

	Translators *translation.Registry
	LLM         *translation.LLMTranslator
}

// Build wires the backends. A missing API key is not fatal: the LLM
// providers ask for setup when they are first used.
func Build(cfg *config.Config, settings *config.Store, langs translation.LangPrefs, prompter dialog.Prompter) (*Runtime, error) {
	if settings == nil {
		settings = config.NewStore(cfg.Settings)
	}
	client := llm.New(llm.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		Providers: cfg.Providers,
	})
	if err := client.Configured(); err != nil {
		log.Printf("runtimeinit: LLM not configured: %v", err)
	}

	joiner := recognition.JoinerFunc(settings.Joiner)
	var tessOpts []tesseract.Option
	if cfg.TessdataURL != "" {
		tessOpts = append(tessOpts, tesseract.WithModelURL(cfg.TessdataURL))
	}
	tess := tesseract.New(cfg.TessdataDir, joiner, tessOpts...)
	recognizers, err := recognition.NewRegistry(recognition.LLMVision, llmvision.New(client, joiner), tess)
	if err != nil {
		return nil, fmt.Errorf("failed to set up recognizers: %w", err)
	}

	llmTranslator := translation.NewLLM(client, langs, prompter)
	translators := translation.NewRegistry(
		llmTranslator,
		translation.NewExternal(langs, prompter),
		translation.OCROnlyTranslator{},
	)

	return &Runtime{
		Config:      cfg,
		Settings:    settings,
		Client:      client,
		Recognizers: recognizers,
		Tesseract:   tess,
		Translators: translators,
		LLM:         llmTranslator,
	}, nil
}
