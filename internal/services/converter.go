package services

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"skillscan/resume-analyzer/internal/models"
)

// ConverterService renders the first page of a source document into a PNG.
// Failures are reported through ConversionResult.Error, never as Go errors,
// so the pipeline handles every stage with the same check-and-branch shape.
type ConverterService interface {
	Convert(filename string, data []byte) *models.ConversionResult
}

type converterService struct {
	loader *EngineLoader
}

func NewConverterService(loader *EngineLoader) ConverterService {
	return &converterService{loader: loader}
}

func (s *converterService) Convert(filename string, data []byte) *models.ConversionResult {
	engine, err := s.loader.Engine()
	if err != nil {
		return conversionError("failed to load rendering engine: %v", err)
	}

	if len(data) == 0 {
		return &models.ConversionResult{Error: "empty or invalid file buffer"}
	}

	// Only the first page is rendered; multi-page documents are evaluated
	// solely on page one.
	img, err := engine.RenderPage(data, 0)
	if err != nil {
		return conversionError("failed to render document: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return conversionError("failed to encode image: %v", err)
	}

	return &models.ConversionResult{
		File: &models.ImageFile{
			Name:        imageName(filename),
			Data:        buf.Bytes(),
			ContentType: "image/png",
		},
	}
}

func conversionError(format string, args ...interface{}) *models.ConversionResult {
	return &models.ConversionResult{Error: fmt.Sprintf(format, args...)}
}

// imageName swaps the source extension for .png (resume.pdf -> resume.png).
func imageName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + ".png"
}
