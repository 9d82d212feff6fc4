package models

// ImageFile is a rendered page image ready for upload: the original filename
// with its extension swapped to .png, plus the encoded bytes.
type ImageFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// ConversionResult is the outcome of rendering a document's first page.
// Exactly one of File / Error is populated; conversion failures travel as
// data so the pipeline can check-and-branch instead of unwinding.
type ConversionResult struct {
	File  *ImageFile
	Error string
}

// Failed reports whether the conversion produced no usable image.
func (r *ConversionResult) Failed() bool {
	return r == nil || r.Error != "" || r.File == nil
}
