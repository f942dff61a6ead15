package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"onscreen-translator/src/clipboard"
	"onscreen-translator/src/config"
	"onscreen-translator/src/dialog"
	"onscreen-translator/src/eventloop"
	"onscreen-translator/src/gui"
	"onscreen-translator/src/hotkey"
	"onscreen-translator/src/logutil"
	"onscreen-translator/src/notification"
	"onscreen-translator/src/prefs"
	"onscreen-translator/src/runtimeinit"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/singleinstance"
	"onscreen-translator/src/telemetry"
	"onscreen-translator/src/translation"
	"onscreen-translator/src/tray"
)

const (
	appID           = "io.github.onscreen-translator"
	appTitle        = "Onscreen Translator"
	welcomeFeature  = "welcome"
	telemetryEvents = 512
)

type mainOptions struct {
	envPath    string
	apiKeyPath string
	model      string
	hotkey     string
	send       string
}

func main() {
	// Must happen before any window or display metric is touched.
	enableDPIAwareness()
	// fyne needs the main goroutine on the main OS thread.
	runtime.LockOSThread()

	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		notification.ShowBlockingError(appTitle, err.Error())
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"onscreen-translator"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "onscreen-translator",
		Short:         "Circle text on screen and translate it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResident(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.envPath, "env", "", "Path to a .env file")
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Override the MODEL setting")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Override the HOTKEY setting, for example Ctrl+Alt+T")
	cmd.Flags().StringVar(&opts.send, "send", "", "Send circle, retranslate or close to the running instance and exit")

	return cmd
}

// normalizeLegacyArgs maps Go-style -flag to --flag for the long options.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)
	long := []string{"env", "api-key-path", "model", "hotkey", "send"}
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

func tooltip(combo string) string {
	return fmt.Sprintf("%s - Press %s to translate an area", appTitle, combo)
}

// claimResident delegates to a running instance or takes the resident port.
// With an explicit command and no resident it fails.
func claimResident(ctx context.Context, send string) (*singleinstance.Server, bool, error) {
	cmd := singleinstance.CommandCircle
	if send != "" {
		c, err := singleinstance.ParseCommand(send)
		if err != nil {
			return nil, false, err
		}
		cmd = c
	}

	probeCtx, stop := context.WithTimeout(ctx, 2*time.Second)
	delegated, err := singleinstance.Send(probeCtx, cmd)
	stop()
	if delegated {
		if err != nil {
			return nil, true, fmt.Errorf("running instance rejected %s: %w", cmd, err)
		}
		log.Printf("Delegated %s to the running instance", cmd)
		return nil, true, nil
	}
	if send != "" {
		return nil, false, fmt.Errorf("no running instance to send %s to", cmd)
	}

	server, err := singleinstance.Listen()
	if err != nil {
		return nil, false, err
	}
	return server, false, nil
}

// commandTarget is the part of the event loop a second launch can drive.
type commandTarget interface {
	StartCircling()
	Retranslate()
	Close()
}

func dispatchCommand(t commandTarget, c singleinstance.Command) error {
	switch c {
	case singleinstance.CommandCircle:
		t.StartCircling()
	case singleinstance.CommandRetranslate:
		t.Retranslate()
	case singleinstance.CommandClose:
		t.Close()
	default:
		return fmt.Errorf("unsupported command %q", c)
	}
	return nil
}

func runResident(opts mainOptions) error {
	cfg, err := runtimeinit.Load(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			APIKeyPathOverride: opts.apiKeyPath,
			ModelOverride:      opts.model,
			EnvPathOverride:    opts.envPath,
		},
		SetupLogging: func(cfg *config.Config) {
			logutil.Setup(cfg.EnableFileLogging, filepath.Dir(cfg.PrefsPath))
		},
	})
	if err != nil {
		return err
	}
	if opts.hotkey != "" {
		cfg.Hotkey = opts.hotkey
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A running resident gets the command and this process exits.
	server, delegated, err := claimResident(ctx, opts.send)
	if err != nil || delegated {
		return err
	}
	defer server.Close()

	logMonitorConfiguration()

	store, err := prefs.Open(cfg.PrefsPath, prefs.Defaults{
		OCRProvider:         cfg.DefaultOCRProvider,
		OCRLang:             cfg.DefaultOCRLang,
		TranslationProvider: cfg.DefaultTranslationProvider,
		TranslationLang:     cfg.DefaultTranslationLang,
	})
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	settings := config.NewStore(cfg.Settings)

	parent, err := screenshot.PrimaryBounds()
	if err != nil {
		return fmt.Errorf("failed to read display bounds: %w", err)
	}
	log.Printf("Overlay parent: %+v", parent)

	clip := &clipboard.System{}
	a := app.NewWithID(appID)

	var translators *translation.Registry
	surface := gui.New(gui.Options{
		App:    a,
		Parent: parent,
		Backdrop: func() (image.Image, error) {
			return screenshot.CaptureBounds(parent)
		},
		Settings:  settings,
		Prefs:     store,
		Clipboard: clip,
		Providers: func() []translation.Provider {
			return translators.Providers(store.SelectedTranslationProvider())
		},
	})

	rt, err := runtimeinit.Build(cfg, settings, store, surface)
	if err != nil {
		return err
	}
	translators = rt.Translators

	loop, err := eventloop.New(eventloop.Options{
		Extractor:   screenshot.DisplayExtractor{Bounds: screenshot.PrimaryBounds},
		Recognizers: rt.Recognizers,
		Translators: rt.Translators,
		Surface:     surface,
		Settings:    settings,
		Prefs:       store,
		Telemetry:   telemetry.NewRecorder(telemetryEvents),
		Clipboard:   clip,
		SettleDelay: time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		MinCropSize: cfg.MinCropSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create event loop: %w", err)
	}
	surface.Bind(loop)

	keys := hotkey.NewListener()
	if err := keys.Register(cfg.Hotkey, loop.StartCircling); err != nil {
		return fmt.Errorf("invalid hotkey %q: %w", cfg.Hotkey, err)
	}
	go func() {
		if err := keys.Run(ctx); err != nil {
			log.Printf("hotkey listener stopped: %v", err)
		}
	}()

	trayIcon := tray.New(tray.Config{
		Title:   appTitle,
		Tooltip: tooltip(cfg.Hotkey),
		Actions: tray.Actions{
			StartCircling: loop.StartCircling,
			Retranslate:   loop.Retranslate,
			Languages:     surface.ShowLanguages,
			CloseAll:      loop.Close,
			Quit:          cancel,
		},
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()

	go func() {
		err := server.Serve(ctx, func(c singleinstance.Command) error {
			return dispatchCommand(loop, c)
		})
		if err != nil {
			log.Printf("singleinstance: server stopped: %v", err)
		}
	}()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Printf("event loop stopped: %v", err)
		}
		cancel()
		fyne.Do(a.Quit)
	}()

	log.Printf("%s started, model %q, hotkey %s", appTitle, cfg.Model, cfg.Hotkey)
	if !store.Shown(welcomeFeature) {
		surface.ShowDialog(dialog.Dialog{
			Title:   appTitle,
			Message: fmt.Sprintf("Press %s or use the tray menu to circle text on screen.", cfg.Hotkey),
			Kind:    dialog.ConfirmOnly,
		})
		store.MarkShown(welcomeFeature)
	}

	a.Run()
	return nil
}
