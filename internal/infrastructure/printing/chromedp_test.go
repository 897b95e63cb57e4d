package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChromedpConfigFrom(t *testing.T) {
	config := ChromedpConfigFrom("ws://chrome:9222", true, 5*time.Second, zap.NewNop())

	assert.Equal(t, "ws://chrome:9222", config.RemoteURL)
	assert.True(t, config.NoSandbox)
	assert.True(t, config.Headless)
	assert.True(t, config.PrintBackground)
	assert.Equal(t, 5*time.Second, config.DefaultTimeout)
}

func TestBuildPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0, PrintBackground: true}}

	tests := []struct {
		name        string
		paper       PaperSize
		orientation Orientation
		width       float64
		height      float64
	}{
		{name: "A4 portrait", paper: PaperSizeA4, orientation: OrientationPortrait, width: 210, height: 297},
		{name: "A4 landscape", paper: PaperSizeA4, orientation: OrientationLandscape, width: 210, height: 297},
		{name: "letter", paper: PaperSizeLetter, orientation: OrientationPortrait, width: 215.9, height: 279.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := r.buildPrintParams(&RenderRequest{
				HTML:        "<html>test</html>",
				PaperSize:   tt.paper,
				Orientation: tt.orientation,
				Margins:     DefaultMargins(),
			})

			assert.InDelta(t, mmToInches(tt.width), params.paperWidth, 0.01)
			assert.InDelta(t, mmToInches(tt.height), params.paperHeight, 0.01)
			assert.Equal(t, tt.orientation == OrientationLandscape, params.landscape)
			assert.True(t, params.printBackground)
		})
	}
}

func TestBuildPrintParams_Margins(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:      "<html>test</html>",
		PaperSize: PaperSizeA4,
		Margins:   Margins{Top: 10, Right: 15, Bottom: 20, Left: 25},
	})

	assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
	assert.InDelta(t, mmToInches(15), params.marginRight, 0.001)
	assert.InDelta(t, mmToInches(20), params.marginBottom, 0.001)
	assert.InDelta(t, mmToInches(25), params.marginLeft, 0.001)
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><head></head><body>test</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>Hi</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>Hi</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount(nil))

	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
}

func TestChromedpRenderer_Render_RejectsBadRequests(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}, logger: zap.NewNop()}
	ctx := context.Background()

	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{name: "nil request", req: nil, code: ErrCodeInvalidHTML},
		{name: "blank HTML", req: &RenderRequest{HTML: " \n\t", PaperSize: PaperSizeA4}, code: ErrCodeInvalidHTML},
		{name: "unknown paper", req: &RenderRequest{HTML: "<p>x</p>", PaperSize: "A0"}, code: ErrCodeInvalidPaperSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(ctx, tt.req)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}
