package services

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/singleflight"
)

// probePDF is a minimal one-page document opened during initialization to
// force the underlying MuPDF runtime to load, so engine failures surface at
// acquisition time instead of mid-conversion.
const probePDF = `%PDF-1.4
1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj
2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj
3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj
trailer<</Size 4/Root 1 0 R>>
%%EOF
`

// Engine rasterizes single pages of paginated documents. One engine is
// shared by every conversion in the process; the worker semaphore bounds
// concurrent rasterizations since each render holds a full page bitmap.
type Engine struct {
	scale   int
	workers chan struct{}
}

// RenderPage rasterizes one page at the engine's oversampling factor
// relative to the 72 DPI native page size.
func (e *Engine) RenderPage(data []byte, pageIndex int) (image.Image, error) {
	e.workers <- struct{}{}
	defer func() { <-e.workers }()

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range, document has %d pages", pageIndex, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageIndex, float64(72*e.scale))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex, err)
	}

	return img, nil
}

// EngineLoader lazily initializes the shared rendering engine. Concurrent
// acquisitions collapse into one initialization whose result every caller
// observes; a successful engine is cached for the process lifetime, a failed
// initialization leaves the loader retryable.
type EngineLoader struct {
	mu     sync.Mutex
	engine *Engine
	flight singleflight.Group
	initFn func() (*Engine, error)
}

func NewEngineLoader(scale, renderWorkers int) *EngineLoader {
	return &EngineLoader{
		initFn: func() (*Engine, error) {
			return initEngine(scale, renderWorkers)
		},
	}
}

// newEngineLoaderWithInit is the test seam for counting initializations.
func newEngineLoaderWithInit(initFn func() (*Engine, error)) *EngineLoader {
	return &EngineLoader{initFn: initFn}
}

// Engine returns the shared engine, initializing it on first use.
func (l *EngineLoader) Engine() (*Engine, error) {
	l.mu.Lock()
	if l.engine != nil {
		engine := l.engine
		l.mu.Unlock()
		return engine, nil
	}
	l.mu.Unlock()

	v, err, _ := l.flight.Do("engine", func() (interface{}, error) {
		// A caller can reach here after a racing initialization already
		// succeeded; the cache check inside the flight prevents a second one.
		l.mu.Lock()
		if l.engine != nil {
			engine := l.engine
			l.mu.Unlock()
			return engine, nil
		}
		l.mu.Unlock()

		engine, err := l.initFn()
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.engine = engine
		l.mu.Unlock()
		return engine, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load rendering engine: %w", err)
	}

	return v.(*Engine), nil
}

func initEngine(scale, renderWorkers int) (*Engine, error) {
	if scale <= 0 {
		scale = 4
	}
	if renderWorkers <= 0 {
		renderWorkers = 2
	}

	doc, err := fitz.NewFromMemory([]byte(probePDF))
	if err != nil {
		return nil, fmt.Errorf("engine probe failed: %w", err)
	}
	doc.Close()

	log.Printf("✅ Rendering engine initialized (scale=%dx, workers=%d)\n", scale, renderWorkers)

	return &Engine{
		scale:   scale,
		workers: make(chan struct{}, renderWorkers),
	}, nil
}
