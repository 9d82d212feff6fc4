package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertValidDocument(t *testing.T) {
	converter := NewConverterService(NewEngineLoader(1, 1))

	result := converter.Convert("resume.pdf", []byte(probePDF))

	require.False(t, result.Failed(), "conversion failed: %s", result.Error)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.File)
	assert.Equal(t, "resume.png", result.File.Name)
	assert.Equal(t, "image/png", result.File.ContentType)
	assert.NotEmpty(t, result.File.Data)

	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, result.File.Data[:4])
}

func TestConvertEmptyBuffer(t *testing.T) {
	converter := NewConverterService(NewEngineLoader(1, 1))

	result := converter.Convert("resume.pdf", nil)

	require.True(t, result.Failed())
	assert.Nil(t, result.File)
	assert.Contains(t, result.Error, "empty or invalid file buffer")
}

func TestConvertGarbageBuffer(t *testing.T) {
	converter := NewConverterService(NewEngineLoader(1, 1))

	result := converter.Convert("resume.pdf", []byte("not a pdf at all"))

	require.True(t, result.Failed())
	assert.Nil(t, result.File)
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "resume.png", imageName("resume.pdf"))
	assert.Equal(t, "my resume.png", imageName("my resume.PDF"))
	assert.Equal(t, "noext.png", imageName("noext"))
}
