package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"
)

// ChartSurface is one renderable chart. Update forces a redraw so a capture
// never sees a partially drawn frame; Render produces the PNG raster.
type ChartSurface interface {
	Update() error
	Render() ([]byte, error)
	Title() string
	ChartType() string
	DatasetCount() int
}

// ChartRegistry resolves chart identifiers to their rendered surfaces. The
// UI layer provides the real registry; tests inject a fake.
type ChartRegistry interface {
	Lookup(id string) (ChartSurface, bool)
}

// ChartMetadata is the capture-independent side channel used to decide
// whether a raster is worth embedding.
type ChartMetadata struct {
	Title        string
	Type         string
	HasData      bool
	DatasetCount int
}

// RasterCapture captures chart surfaces into document-embeddable rasters.
// Captures run strictly sequentially with small delays so the rendering
// surface is never hit by overlapping redraws.
type RasterCapture struct {
	registry ChartRegistry
	logger   func(string)

	settleDelay       time.Duration
	interCaptureDelay time.Duration
}

// NewRasterCapture creates a RasterCapture over the given registry.
func NewRasterCapture(registry ChartRegistry, logger func(string)) *RasterCapture {
	return &RasterCapture{
		registry:          registry,
		logger:            logger,
		settleDelay:       150 * time.Millisecond,
		interCaptureDelay: 100 * time.Millisecond,
	}
}

// SetDelays overrides the settle and inter-capture delays. Tests set both to
// zero.
func (c *RasterCapture) SetDelays(settle, interCapture time.Duration) {
	c.settleDelay = settle
	c.interCaptureDelay = interCapture
}

func (c *RasterCapture) log(msg string) {
	if c.logger != nil {
		c.logger(msg)
	}
}

// CaptureAll captures every requested chart. A chart that is missing or
// fails to render is skipped with a warning; it never aborts the remaining
// captures.
func (c *RasterCapture) CaptureAll(chartIDs []string) map[string]ChartRaster {
	result := make(map[string]ChartRaster, len(chartIDs))
	for i, id := range chartIDs {
		if i > 0 && c.interCaptureDelay > 0 {
			time.Sleep(c.interCaptureDelay)
		}
		raster, err := c.captureOne(id)
		if err != nil {
			c.log(fmt.Sprintf("[CHART-CAPTURE] WARN: chart %q skipped: %v", id, err))
			continue
		}
		result[id] = raster
	}
	return result
}

func (c *RasterCapture) captureOne(id string) (ChartRaster, error) {
	if c.registry == nil {
		return ChartRaster{}, fmt.Errorf("no chart registry configured")
	}
	surface, ok := c.registry.Lookup(id)
	if !ok {
		return ChartRaster{}, fmt.Errorf("not found in registry")
	}

	if err := surface.Update(); err != nil {
		return ChartRaster{}, fmt.Errorf("redraw failed: %w", err)
	}
	if c.settleDelay > 0 {
		time.Sleep(c.settleDelay)
	}

	data, err := surface.Render()
	if err != nil {
		return ChartRaster{}, fmt.Errorf("render failed: %w", err)
	}

	// Office documents do not render transparency reliably, so the raster
	// is flattened onto white before it leaves this package.
	flattened, err := flattenOntoWhite(data)
	if err != nil {
		return ChartRaster{}, fmt.Errorf("flatten failed: %w", err)
	}

	return ChartRaster{
		ID:           id,
		ImageData:    flattened,
		Title:        surface.Title(),
		ChartType:    surface.ChartType(),
		DatasetCount: surface.DatasetCount(),
		HasData:      surface.DatasetCount() > 0,
	}, nil
}

// Metadata returns capture-independent chart info, or false when the chart
// is unknown to the registry.
func (c *RasterCapture) Metadata(id string) (ChartMetadata, bool) {
	if c.registry == nil {
		return ChartMetadata{}, false
	}
	surface, ok := c.registry.Lookup(id)
	if !ok {
		return ChartMetadata{}, false
	}
	return ChartMetadata{
		Title:        surface.Title(),
		Type:         surface.ChartType(),
		HasData:      surface.DatasetCount() > 0,
		DatasetCount: surface.DatasetCount(),
	}, true
}

// flattenOntoWhite composites a PNG onto an opaque white background and
// re-encodes it.
func flattenOntoWhite(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode PNG: %w", err)
	}

	bounds := src.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
