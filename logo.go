package devblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

// LogoWidths are the rendered widths of the navbar logo: 36px and 100px
// slots at 1x and 2x density.
var LogoWidths = []int{36, 72, 100, 200}

// LogoVariant is one scaled copy of the logo.
type LogoVariant struct {
	Width  int
	Height int
	Name   string // e.g. "logo-72.png"
	data   []byte
}

// URL is where the variant is served.
func (v LogoVariant) URL() string { return "/logo/" + v.Name }

// Logo is the navbar logo in every width. A nil *Logo renders as text.
type Logo struct {
	Variants []LogoVariant // ascending width
	byName   map[string]LogoVariant
}

// LoadLogo reads the image at path and builds its variants.
func LoadLogo(path string) (*Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return BuildLogo(f, LogoWidths)
}

// BuildLogo decodes src and scales it to each width with CatmullRom,
// encoding PNG to keep transparency. Widths larger than the source are
// capped at the source width.
func BuildLogo(src io.Reader, widths []int) (*Logo, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decode logo: empty image")
	}

	logo := &Logo{byName: make(map[string]LogoVariant)}
	for _, target := range widths {
		if target > w {
			target = w
		}
		name := "logo-" + strconv.Itoa(target) + ".png"
		if _, ok := logo.byName[name]; ok {
			continue
		}
		newH := h * target / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewNRGBA(image.Rect(0, 0, target, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode logo: %w", err)
		}
		v := LogoVariant{Width: target, Height: newH, Name: name, data: buf.Bytes()}
		logo.Variants = append(logo.Variants, v)
		logo.byName[name] = v
	}
	return logo, nil
}

// Src is the smallest variant, used as the <img src> fallback.
func (l *Logo) Src() LogoVariant {
	return l.Variants[0]
}

// SrcSet renders the srcset attribute value.
func (l *Logo) SrcSet() string {
	parts := make([]string, len(l.Variants))
	for i, v := range l.Variants {
		parts[i] = v.URL() + " " + strconv.Itoa(v.Width) + "w"
	}
	return strings.Join(parts, ", ")
}

// Sizes mirrors the CSS of the logo wrapper.
func (l *Logo) Sizes() string {
	return "(max-width: 1000px) and (orientation: landscape) 100px, 36px"
}

func (a *App) handleLogo(c echo.Context) error {
	if a.Logo == nil {
		return echo.ErrNotFound
	}
	v, ok := a.Logo.byName[c.Param("name")]
	if !ok {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, "image/png", v.data)
}
