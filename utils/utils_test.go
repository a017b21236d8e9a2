package utils

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_ShouldDetectImageContent(t *testing.T) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	assert.NoError(t, err)

	assert.Equal(t, "image/png", DetectContentType(buf.Bytes()))
	assert.True(t, IsImage(buf.Bytes()))
	assert.False(t, IsImage([]byte("definitely not an image")))
}

func TestUtils_MinMaxClamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(3.5, Abs(-3.5))
	assert.Equal(10, Clamp(12, 0, 10))
	assert.Equal(0, Clamp(-4, 0, 10))
	assert.Equal(7, Clamp(7, 0, 10))
}

func TestUtils_FormatTime(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("250ms", FormatTime(250*time.Millisecond))
	assert.Equal("1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal("2m 3.00s", FormatTime(2*time.Minute+3*time.Second))
}

func TestUtils_DecorateText(t *testing.T) {
	defer SetColorOutput(true)

	SetColorOutput(true)
	out := DecorateText("done", SuccessMessage)
	assert.True(t, strings.HasPrefix(out, SuccessColor))
	assert.True(t, strings.HasSuffix(out, DefaultColor))

	SetColorOutput(false)
	assert.Equal(t, "done", DecorateText("done", SuccessMessage))
}

func TestUtils_SpinnerStop(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner("rendering", time.Millisecond, false)
	s.SetWriter(&buf)
	s.StopMsg = "finished"
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	// A second stop must not block or panic.
	s.Stop()

	assert.True(t, strings.HasSuffix(buf.String(), "finished"))
}
