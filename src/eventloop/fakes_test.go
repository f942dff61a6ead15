package eventloop

import (
	"context"
	"image"
	"sync"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/recognition"
	"onscreen-translator/src/screenshot"
	"onscreen-translator/src/translation"
)

type fakeExtractor struct {
	denied bool
	gate   chan struct{}
	// empty makes Extract return neither an image nor an error.
	empty bool

	mu     sync.Mutex
	calls  int
	crops  []geometry.Rect
	images []*screenshot.Image
}

func (e *fakeExtractor) IsGranted() bool { return !e.denied }

func (e *fakeExtractor) Extract(ctx context.Context, parent, crop geometry.Rect) (*screenshot.Image, error) {
	e.mu.Lock()
	e.calls++
	e.crops = append(e.crops, crop)
	e.mu.Unlock()
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.empty {
		return nil, nil
	}
	img := screenshot.NewImage(image.NewRGBA(image.Rect(0, 0, crop.Width(), crop.Height())))
	e.mu.Lock()
	e.images = append(e.images, img)
	e.mu.Unlock()
	return img, nil
}

func (e *fakeExtractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *fakeExtractor) Images() []*screenshot.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*screenshot.Image(nil), e.images...)
}

type fakeRecognizer struct {
	langs  []recognition.Language
	result recognition.Result
	err    error
	// block makes Recognize wait for cancellation, then return result anyway.
	block    bool
	returned chan struct{}

	mu       sync.Mutex
	calls    int
	langUsed []string
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{
		langs: []recognition.Language{
			{Code: "es", DisplayName: "Spanish", Provider: recognition.LLMVision, InnerCode: "es"},
			{Code: "fr", DisplayName: "French", Provider: recognition.LLMVision, InnerCode: "fr"},
		},
		result: recognition.Result{
			LangCode: "es",
			Text:     "Hola",
			Boxes:    []geometry.Rect{{Left: 0, Top: 0, Right: 50, Bottom: 20}},
		},
		returned: make(chan struct{}),
	}
}

func (r *fakeRecognizer) Type() recognition.ProviderType     { return recognition.LLMVision }
func (r *fakeRecognizer) Name() string                       { return "fake" }
func (r *fakeRecognizer) DisplayLangCode(code string) string { return code }

func (r *fakeRecognizer) SupportedLanguages(ctx context.Context) ([]recognition.Language, error) {
	return r.langs, nil
}

func (r *fakeRecognizer) Recognize(ctx context.Context, lang recognition.Language, img image.Image) (recognition.Result, error) {
	r.mu.Lock()
	r.calls++
	r.langUsed = append(r.langUsed, lang.Code)
	r.mu.Unlock()
	if r.block {
		<-ctx.Done()
		defer close(r.returned)
		return r.result, nil
	}
	if r.err != nil {
		return recognition.Result{}, r.err
	}
	return r.result, nil
}

func (r *fakeRecognizer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// downloadingRecognizer needs an on-disk model per language.
type downloadingRecognizer struct {
	*fakeRecognizer

	dmu        sync.Mutex
	downloaded map[string]bool
}

func (r *downloadingRecognizer) HasModel(code string) bool {
	r.dmu.Lock()
	defer r.dmu.Unlock()
	return r.downloaded[code]
}

func (r *downloadingRecognizer) DownloadModel(ctx context.Context, code string) error {
	r.dmu.Lock()
	defer r.dmu.Unlock()
	r.downloaded[code] = true
	return nil
}

func (r *downloadingRecognizer) CancelDownload() {}

type fakeTranslator struct {
	typ      translation.ProviderType
	notReady bool

	mu     sync.Mutex
	result translation.Result
	calls  int
	langs  []string
}

func (t *fakeTranslator) Type() translation.ProviderType { return t.typ }
func (t *fakeTranslator) Hint() string                   { return "" }

func (t *fakeTranslator) SupportedLanguages(ctx context.Context) ([]translation.Language, error) {
	return []translation.Language{{Code: "en"}, {Code: "es"}}, nil
}

func (t *fakeTranslator) CheckEnvironment(ctx context.Context) bool { return !t.notReady }

func (t *fakeTranslator) Translate(ctx context.Context, text, sourceLangCode string) translation.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.langs = append(t.langs, sourceLangCode)
	return t.result
}

func (t *fakeTranslator) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type fakePrefs struct {
	mu            sync.Mutex
	ocrProvider   string
	ocrLang       string
	translator    string
	transLang     string
	lastSelection geometry.Rect
	lastParent    geometry.Rect
	hasLast       bool
}

func (p *fakePrefs) SelectedOCRProvider() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ocrProvider
}

func (p *fakePrefs) SetSelectedOCRProvider(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ocrProvider = key
}

func (p *fakePrefs) SelectedOCRLang() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ocrLang
}

func (p *fakePrefs) SetSelectedOCRLang(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ocrLang = code
}

func (p *fakePrefs) SelectedTranslationLang() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transLang
}

func (p *fakePrefs) SetSelectedTranslationLang(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transLang = code
}

func (p *fakePrefs) SelectedTranslationProvider() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.translator
}

func (p *fakePrefs) SetSelectedTranslationProvider(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.translator = key
}

func (p *fakePrefs) LastSelection() (geometry.Rect, geometry.Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSelection, p.lastParent, p.hasLast
}

func (p *fakePrefs) SetLastSelection(selection, parent geometry.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSelection, p.lastParent, p.hasLast = selection, parent, true
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (c *fakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

func (c *fakeClipboard) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}
