package devblog

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildLogo(t *testing.T) {
	logo, err := BuildLogo(bytes.NewReader(testPNG(t, 400, 200)), LogoWidths)
	require.NoError(t, err)

	require.Len(t, logo.Variants, 4)
	assert.Equal(t, "logo-36.png", logo.Src().Name)
	assert.Equal(t, "/logo/logo-36.png", logo.Src().URL())
	assert.Equal(t, 18, logo.Src().Height)
	assert.Equal(t, "/logo/logo-36.png 36w, /logo/logo-72.png 72w, /logo/logo-100.png 100w, /logo/logo-200.png 200w", logo.SrcSet())

	for _, v := range logo.Variants {
		img, err := png.Decode(bytes.NewReader(v.data))
		require.NoError(t, err)
		assert.Equal(t, v.Width, img.Bounds().Dx())
		assert.Equal(t, v.Height, img.Bounds().Dy())
	}
}

func TestBuildLogoCapsToSourceWidth(t *testing.T) {
	logo, err := BuildLogo(bytes.NewReader(testPNG(t, 80, 80)), LogoWidths)
	require.NoError(t, err)

	var widths []int
	for _, v := range logo.Variants {
		widths = append(widths, v.Width)
	}
	assert.Equal(t, []int{36, 72, 80}, widths)
}

func TestBuildLogoRejectsGarbage(t *testing.T) {
	_, err := BuildLogo(bytes.NewReader([]byte("not an image")), LogoWidths)
	assert.Error(t, err)
}

func TestLoadLogoMissing(t *testing.T) {
	_, err := LoadLogo(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHandleLogo(t *testing.T) {
	logo, err := BuildLogo(bytes.NewReader(testPNG(t, 100, 100)), LogoWidths)
	require.NoError(t, err)
	a := &App{Logo: logo}
	e := echo.New()

	serve := func(name string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/logo/"+name, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues(name)
		if err := a.handleLogo(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	rec := serve("logo-72.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	assert.Equal(t, http.StatusNotFound, serve("logo-999.png").Code)

	a.Logo = nil
	assert.Equal(t, http.StatusNotFound, serve("logo-72.png").Code)
}
