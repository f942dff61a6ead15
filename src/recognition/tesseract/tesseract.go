// Package tesseract is the offline OCR backend. It needs one traineddata file
// per language, fetched on demand into a local tessdata directory.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/recognition"
)

const (
	DefaultModelURL = "https://github.com/tesseract-ocr/tessdata_fast/raw/main"
	MinImageSize    = 8

	modelSuffix = ".traineddata"
)

type Recognizer struct {
	dir      string
	modelURL string
	http     *http.Client
	joiner   recognition.JoinerFunc

	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(*Recognizer)

// WithModelURL overrides the base URL traineddata files are fetched from.
func WithModelURL(url string) Option {
	return func(r *Recognizer) { r.modelURL = strings.TrimRight(url, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Recognizer) { r.http = c }
}

// New creates a recognizer storing models under dir.
func New(dir string, joiner recognition.JoinerFunc, opts ...Option) *Recognizer {
	r := &Recognizer{
		dir:      dir,
		modelURL: DefaultModelURL,
		http:     &http.Client{Timeout: 10 * time.Minute},
		joiner:   joiner,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recognizer) Type() recognition.ProviderType { return recognition.Tesseract }
func (r *Recognizer) Name() string                   { return string(r.Type()) }

// Tesseract codes are shown as they are.
func (r *Recognizer) DisplayLangCode(code string) string { return code }

func (r *Recognizer) SupportedLanguages(ctx context.Context) ([]recognition.Language, error) {
	downloaded := r.downloadedInnerCodes()
	return recognition.Normalize(catalog, recognition.Tesseract, func(e recognition.Entry) bool {
		return downloaded[e.InnerCode]
	}), nil
}

// ModelPath is the traineddata file for an inner language code.
func (r *Recognizer) ModelPath(innerCode string) string {
	return filepath.Join(r.dir, innerCode+modelSuffix)
}

// HasModel reports whether the model for the given language code is on disk.
func (r *Recognizer) HasModel(code string) bool {
	inner, ok := innerCode(code)
	if !ok {
		return false
	}
	_, err := os.Stat(r.ModelPath(inner))
	return err == nil
}

func (r *Recognizer) downloadedInnerCodes() map[string]bool {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("tesseract: cannot read tessdata dir %s: %v", r.dir, err)
		}
		return nil
	}
	codes := make(map[string]bool, len(entries))
	for _, e := range entries {
		if name := e.Name(); !e.IsDir() && strings.HasSuffix(name, modelSuffix) {
			codes[strings.TrimSuffix(name, modelSuffix)] = true
		}
	}
	return codes
}

func (r *Recognizer) Recognize(ctx context.Context, lang recognition.Language, img image.Image) (recognition.Result, error) {
	if err := recognition.CheckSize(img, MinImageSize); err != nil {
		return recognition.Result{}, err
	}
	inner := lang.InnerCode
	if inner == "" {
		var ok bool
		if inner, ok = innerCode(lang.Code); !ok {
			return recognition.Result{}, recognition.NewUnsupportedLanguageError(lang.Code)
		}
	}
	if _, err := os.Stat(r.ModelPath(inner)); err != nil {
		return recognition.Result{}, recognition.NewModelMissingError(lang.Code)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("encode image: %w", err))
	}

	type outcome struct {
		res recognition.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.run(buf.Bytes(), inner)
		res.LangCode = lang.Code
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		// The engine cannot be interrupted; its result is discarded.
		return recognition.Result{}, ctx.Err()
	}
}

func (r *Recognizer) run(pngData []byte, inner string) (recognition.Result, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetTessdataPrefix(r.dir); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("set tessdata prefix: %w", err))
	}
	if err := client.SetLanguage(inner); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("set language: %w", err))
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("set PSM: %w", err))
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("set image: %w", err))
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("get boxes: %w", err))
	}

	var (
		blocks []string
		rects  []geometry.Rect
	)
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		blocks = append(blocks, text)
		rects = append(rects, geometry.Rect{
			Left:   box.Box.Min.X,
			Top:    box.Box.Min.Y,
			Right:  box.Box.Max.X,
			Bottom: box.Box.Max.Y,
		})
	}
	return recognition.Result{Text: strings.Join(blocks, r.joiner.Get()), Boxes: rects}, nil
}

// DownloadModel fetches the traineddata file for code. A download already in
// flight is cancelled first.
func (r *Recognizer) DownloadModel(ctx context.Context, code string) error {
	inner, ok := innerCode(code)
	if !ok {
		return recognition.NewUnsupportedLanguageError(code)
	}

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()
	defer func() {
		cancel()
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
	}()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create tessdata dir: %w", err)
	}

	url := r.modelURL + "/" + inner + modelSuffix
	log.Printf("tesseract: downloading %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", inner, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", inner, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(r.dir, inner+"-*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", inner, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.ModelPath(inner)); err != nil {
		return fmt.Errorf("install model: %w", err)
	}
	log.Printf("tesseract: model %s installed", inner)
	return nil
}

// CancelDownload aborts the in-flight download, if any.
func (r *Recognizer) CancelDownload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		log.Printf("tesseract: cancelling download")
		r.cancel()
	}
}
