package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/backdrop/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pasteBoard struct {
	content []byte
}

func (pasteBoard) Init() error               { return nil }
func (pasteBoard) WriteImage(_ []byte) error { return nil }

func (b pasteBoard) ReadImage() ([]byte, error) { return b.content, nil }

func encodedImage(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 2))))
	return buf.Bytes()
}

func TestReadSource_Paste(t *testing.T) {
	content := encodedImage(t)

	opts, err := parseFlags(newFlagSet(), []string{"-paste", "-copy"})
	require.NoError(t, err)

	src, err := readSource(opts, pasteBoard{content: content})
	require.NoError(t, err)
	assert.Equal(t, content, src)

	_, err = readSource(opts, pasteBoard{content: []byte("hello")})
	assert.ErrorIs(t, err, export.ErrNoClipboardImage)
}

func TestReadSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	content := encodedImage(t)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	opts, err := parseFlags(newFlagSet(), []string{"-in", path})
	require.NoError(t, err)

	// The board is left alone unless -paste is given.
	src, err := readSource(opts, pasteBoard{content: []byte("unused")})
	require.NoError(t, err)
	assert.Equal(t, content, src)
}
