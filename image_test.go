package backdrop

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

func uniformImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func rgbaAt(img *image.RGBA, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestImage_DecodeKeepsDimensions(t *testing.T) {
	src := encodePNG(t, uniformImage(33, 17, red))

	img, err := decodeImg(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 33, 17), img.Bounds())
	assert.Equal(t, red, img.NRGBAAt(5, 5))
}

func TestImage_DecodeErrors(t *testing.T) {
	testCases := map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("this is not an image at all"),
		"truncated": encodePNG(t, uniformImage(8, 8, red))[:40],
	}

	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeImg(src)
			require.Error(t, err)

			var derr *DecodeError
			assert.True(t, errors.As(err, &derr))
			assert.Contains(t, err.Error(), "failed to load image")
		})
	}
}

func TestImage_HasTransparency(t *testing.T) {
	assert := assert.New(t)

	opaque := uniformImage(2, 2, red)
	assert.False(hasTransparency(opaque))

	translucent := uniformImage(2, 2, red)
	translucent.SetNRGBA(1, 1, color.NRGBA{R: 0xff, A: 0xfe})
	assert.True(hasTransparency(translucent))

	holed := uniformImage(2, 2, red)
	holed.SetNRGBA(0, 1, color.NRGBA{})
	assert.True(hasTransparency(holed))
}

func TestImage_EncodeWritesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeImg(&buf, uniformImage(4, 3, blue)))

	img, format, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}
