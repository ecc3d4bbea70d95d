package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// ErrEngineUnavailable means the recognition engine is missing or
// misconfigured. It is a fatal configuration condition for the request and is
// never degraded to a "no match" result.
var ErrEngineUnavailable = errors.New("recognition engine unavailable")

// PageMode selects the page-segmentation assumption for one recognition pass.
type PageMode int

const (
	ModeSingleLine PageMode = iota
	ModeSingleWord
	ModeSparseText
	ModeSparseTextOSD
)

// PageModes is the fixed pass order the pipeline tries for each image variant.
var PageModes = [4]PageMode{ModeSingleLine, ModeSingleWord, ModeSparseText, ModeSparseTextOSD}

// Recognizer runs one text-recognition pass over a PNG-encoded image,
// restricted to the ID-card alphabet.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mode PageMode) (string, error)
	Close() error
}

// Locator yields a usable recognition engine or reports it unavailable.
// Probing for the engine stays here, out of the verification logic.
type Locator interface {
	Locate() (Recognizer, error)
}

// Characters the ID extraction is interested in. Everything else only adds
// noise on a photographed card.
const whitelist = "UGRugr0123456789/"

// TesseractLocator locates a local Tesseract installation through gosseract.
type TesseractLocator struct {
	Language       string // defaults to "eng"
	TessdataPrefix string // empty means the system default
}

// Locate probes the installed engine once and returns a recognizer bound to
// it, or ErrEngineUnavailable when no trained language data can be found.
func (l *TesseractLocator) Locate() (Recognizer, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil || len(langs) == 0 {
		return nil, fmt.Errorf("%w: no trained language data", ErrEngineUnavailable)
	}

	client := gosseract.NewClient()
	if l.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(l.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: tessdata prefix: %v", ErrEngineUnavailable, err)
		}
	}
	lang := l.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: language %q: %v", ErrEngineUnavailable, lang, err)
	}
	return &tesseractRecognizer{client: client}, nil
}

// tesseractRecognizer wraps a gosseract client. The client is not safe for
// concurrent use, so passes are serialized.
type tesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func (r *tesseractRecognizer) Recognize(ctx context.Context, image []byte, mode PageMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetWhitelist(whitelist); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := r.client.SetPageSegMode(pageSegMode(mode)); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := r.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

func (r *tesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

func pageSegMode(mode PageMode) gosseract.PageSegMode {
	switch mode {
	case ModeSingleWord:
		return gosseract.PSM_SINGLE_WORD
	case ModeSparseText:
		return gosseract.PSM_SPARSE_TEXT
	case ModeSparseTextOSD:
		return gosseract.PSM_SPARSE_TEXT_OSD
	default:
		return gosseract.PSM_SINGLE_LINE
	}
}
