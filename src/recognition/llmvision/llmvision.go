// Package llmvision recognizes text by sending the captured image to a
// vision-capable chat model.
package llmvision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"strings"
	"sync"

	"onscreen-translator/src/geometry"
	"onscreen-translator/src/langtag"
	"onscreen-translator/src/llm"
	"onscreen-translator/src/recognition"
)

// MinImageSize is the smallest edge the backend accepts.
const MinImageSize = 32

// VisionClient is the subset of llm.Client used here.
type VisionClient interface {
	QueryVision(ctx context.Context, pngData []byte, prompt string) (string, error)
}

// engine carries the per-script prompt. Engines are created lazily and kept
// for the lifetime of the recognizer.
type engine struct {
	script recognition.Script
	prompt string
}

type Recognizer struct {
	client VisionClient
	joiner recognition.JoinerFunc

	mu      sync.Mutex
	engines map[recognition.Script]*engine
}

func New(client VisionClient, joiner recognition.JoinerFunc) *Recognizer {
	return &Recognizer{
		client:  client,
		joiner:  joiner,
		engines: make(map[recognition.Script]*engine),
	}
}

func (r *Recognizer) Type() recognition.ProviderType { return recognition.LLMVision }
func (r *Recognizer) Name() string                   { return string(r.Type()) }

func (r *Recognizer) SupportedLanguages(ctx context.Context) ([]recognition.Language, error) {
	return recognition.Normalize(catalog, recognition.LLMVision, nil), nil
}

func (r *Recognizer) DisplayLangCode(code string) string {
	return langtag.Primary(code)
}

func (r *Recognizer) Recognize(ctx context.Context, lang recognition.Language, img image.Image) (recognition.Result, error) {
	if err := recognition.CheckSize(img, MinImageSize); err != nil {
		return recognition.Result{}, err
	}

	eng := r.engineFor(lang.Code)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return recognition.Result{}, recognition.NewBackendError(r.Name(), fmt.Errorf("encode image: %w", err))
	}

	raw, err := r.client.QueryVision(ctx, buf.Bytes(), eng.prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNoText) {
			return recognition.Result{LangCode: langtag.Primary(lang.Code)}, nil
		}
		if ctx.Err() != nil {
			return recognition.Result{}, ctx.Err()
		}
		return recognition.Result{}, recognition.NewBackendError(r.Name(), err)
	}

	blocks := splitBlocks(raw)
	box := recognition.ImageBox(img)
	return recognition.Result{
		LangCode: langtag.Primary(lang.Code),
		Text:     strings.Join(blocks, r.joiner.Get()),
		Boxes:    blocksBoxes(len(blocks), box),
	}, nil
}

func (r *Recognizer) engineFor(code string) *engine {
	script := recognition.ClassifyScript(code)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.engines[script]; ok {
		return e
	}
	log.Printf("llmvision: initializing %s engine", script)
	e := &engine{script: script, prompt: promptFor(script)}
	r.engines[script] = e
	return e
}

// splitBlocks treats blank lines in the model output as block boundaries.
func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}

// The model reports no positions, so a non-empty result gets one box
// covering the whole image.
func blocksBoxes(n int, box geometry.Rect) []geometry.Rect {
	if n == 0 {
		return nil
	}
	return []geometry.Rect{box}
}
