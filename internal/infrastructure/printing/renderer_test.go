package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaperSize(t *testing.T) {
	assert.Equal(t, PaperSizeLetter, ParsePaperSize(" letter "))
	assert.Equal(t, PaperSizeA4, ParsePaperSize("A4"))
	assert.Equal(t, PaperSizeA4, ParsePaperSize("tabloid"))
	assert.False(t, PaperSize("A0").IsValid())
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)

	assert.Equal(t, "render failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", NewRenderError(ErrCodeInvalidHTML, "bare", nil).Error())
}

func TestDisabledRenderer(t *testing.T) {
	_, err := DisabledRenderer{}.Render(context.Background(), &RenderRequest{HTML: "<p/>"})

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeDisabled, renderErr.Code)
	assert.NoError(t, DisabledRenderer{}.Close())
}
