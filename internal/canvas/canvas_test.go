package canvas

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-track/internal/geom"
)

var black = geom.Paint{Color: "#000000", LineWidth: 1}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.FillRect(geom.Rect{X: 1, Y: 2, W: 3, H: 4}, black)
	r.StrokeRect(geom.Rect{X: 5, Y: 6, W: 7, H: 8}, black)
	path := geom.Path{}.MoveTo(0, 0).LineTo(10, 0)
	r.StrokePath(path, black)
	path[0].To.X = 99 // recorder keeps its own copy
	r.FillText("KRAS", 1, 2, black)

	require.Len(t, r.Calls(), 4)
	assert.Equal(t, 1, r.Count(CallFillRect))
	assert.Equal(t, 1, r.Count(CallStrokePath))
	assert.Equal(t, 0.0, r.Filter(CallStrokePath)[0].Path[0].To.X)
	assert.Equal(t, "fillRect(1,2 3x4 #000000)", r.Calls()[0].String())
	assert.Equal(t, "strokePath(M0,0 L10,0 w=1 #000000)", r.Calls()[2].String())
	assert.Equal(t, `fillText("KRAS" 1,2 #000000)`, r.Calls()[3].String())

	replayed := NewRecorder()
	r.Replay(replayed)
	assert.Equal(t, r.Calls(), replayed.Calls())
}

func TestSVG(t *testing.T) {
	s := NewSVG(200, 50, WithBackground("#ffffff"), WithFontSize(12))
	s.FillRect(geom.Rect{X: 10, Y: 0, W: 20.556, H: 11}, black)
	s.StrokeRect(geom.Rect{X: 40, Y: 2, W: 10, H: 7}, black)
	s.StrokePath(geom.Path{}.MoveTo(30, 5.5).QuadTo(35, 0, 40, 5.5), geom.Paint{Color: "#000000", LineWidth: 0.5})
	s.StrokePath(nil, black)
	s.FillText("A<B", 10, 13, black)

	out := string(s.Bytes())
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 50" width="200" height="50">`))
	assert.Contains(t, out, `<rect width="100%" height="100%" fill="#ffffff"/>`)
	assert.Contains(t, out, `<rect x="10" y="0" width="20.56" height="11" fill="#000000"/>`)
	assert.Contains(t, out, `fill="none" stroke="#000000" stroke-width="1"/>`)
	assert.Contains(t, out, `<path d="M30,5.5 Q35,0 40,5.5" fill="none" stroke="#000000" stroke-width="0.5"/>`)
	assert.Contains(t, out, `font-size="12"`)
	assert.Contains(t, out, `>A&lt;B</text>`)
	assert.Equal(t, 1, strings.Count(out, "<path"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(out)), n)
}

func TestSVGAppend(t *testing.T) {
	body := NewSVG(100, 20)
	body.FillRect(geom.Rect{W: 10, H: 10}, black)
	labels := NewSVG(100, 20)
	labels.FillText("KRAS", 0, 12, black)

	body.Append(NewSVG(100, 20))
	body.Append(labels)

	out := string(body.Bytes())
	assert.Equal(t, 1, strings.Count(out, "<g>"))
	assert.Less(t, strings.Index(out, "<rect"), strings.Index(out, "<text"))
	assert.NotContains(t, string(labels.Bytes()), "<rect")
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(-0.001))
	assert.Equal(t, "1.5", num(1.5))
	assert.Equal(t, "-2.25", num(-2.25))
	assert.Equal(t, "0.33", num(1.0/3))
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(40, 20, "#ffffff")
	defer r.Close()

	r.FillRect(geom.Rect{X: 5, Y: 5, W: 10, H: 10}, black)
	r.StrokeRect(geom.Rect{X: 20, Y: 5, W: 10, H: 10}, black)
	r.StrokePath(geom.Path{}.MoveTo(0, 10).LineTo(40, 10), black)
	require.NoError(t, r.Err())

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	// Centre of the filled block is dark, a corner stays white.
	cr, _, _, _ := img.At(10, 8).RGBA()
	assert.Less(t, cr, uint32(0x4000))
	wr, _, _, _ := img.At(1, 1).RGBA()
	assert.Greater(t, wr, uint32(0xc000))
}
