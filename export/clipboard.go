package export

import (
	"bytes"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.design/x/clipboard"

	"github.com/esimov/backdrop/utils"
)

// ErrClipboardUnsupported is returned by Copy when the platform clipboard
// cannot hold images. Callers should check Supported and hide the copy
// action instead of relying on this error.
var ErrClipboardUnsupported = errors.New("clipboard images are not supported on this platform")

// ErrNoClipboardImage is returned by Paste when the clipboard holds no image.
var ErrNoClipboardImage = errors.New("the clipboard does not hold an image")

// ClipboardWriteError is returned when the platform clipboard rejected the image.
type ClipboardWriteError struct {
	Err error
}

func (e *ClipboardWriteError) Error() string {
	return fmt.Sprintf("failed to copy the image to the clipboard: %v", e.Err)
}

func (e *ClipboardWriteError) Unwrap() error { return e.Err }

// Board is a clipboard able to hold PNG images.
type Board interface {
	Init() error
	WriteImage(png []byte) error
	ReadImage() ([]byte, error)
}

type systemBoard struct{}

// SystemBoard returns the platform clipboard.
func SystemBoard() Board { return systemBoard{} }

func (systemBoard) Init() error { return clipboard.Init() }

func (systemBoard) WriteImage(png []byte) error {
	if changed := clipboard.Write(clipboard.FmtImage, png); changed == nil {
		return errors.New("the clipboard rejected the image")
	}
	return nil
}

func (systemBoard) ReadImage() ([]byte, error) {
	b := clipboard.Read(clipboard.FmtImage)
	if len(b) == 0 {
		return nil, ErrNoClipboardImage
	}
	return b, nil
}

// Status is the state of the last copy operation.
type Status int

const (
	StatusIdle Status = iota
	StatusCopying
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusCopying:
		return "copying"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "idle"
}

// Delays after which a terminal copy status goes back to idle.
const (
	SuccessResetDelay = 2 * time.Second
	ErrorResetDelay   = 3 * time.Second
)

// Clipboard copies rendered images to a Board and tracks the copy status.
type Clipboard struct {
	board Board

	initOnce  sync.Once
	supported bool

	mu       sync.Mutex
	status   Status
	gen      uint64
	timer    *time.Timer
	onChange func(Status)

	successDelay time.Duration
	errorDelay   time.Duration
}

// NewClipboard returns a Clipboard writing to b.
func NewClipboard(b Board) *Clipboard {
	return &Clipboard{
		board:        b,
		successDelay: SuccessResetDelay,
		errorDelay:   ErrorResetDelay,
	}
}

// Supported reports whether the board can hold images. The board is
// initialized on the first call only.
func (c *Clipboard) Supported() bool {
	c.initOnce.Do(func() {
		c.supported = c.board != nil && c.board.Init() == nil
	})
	return c.supported
}

// Status returns the current copy status.
func (c *Clipboard) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// OnChange registers fn to be called on every status transition. fn may run
// on a timer goroutine.
func (c *Clipboard) OnChange(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onChange = fn
}

// Copy encodes img as PNG and writes it to the board. The status goes to
// copying, then to success or error, and back to idle after a short delay.
func (c *Clipboard) Copy(img image.Image) error {
	if !c.Supported() {
		return ErrClipboardUnsupported
	}
	c.setStatus(StatusCopying, 0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		c.setStatus(StatusError, c.errorDelay)
		return &ClipboardWriteError{Err: err}
	}
	if err := c.board.WriteImage(buf.Bytes()); err != nil {
		c.setStatus(StatusError, c.errorDelay)
		return &ClipboardWriteError{Err: err}
	}
	c.setStatus(StatusSuccess, c.successDelay)
	return nil
}

// setStatus moves to s and, when reset is positive, schedules the return to
// idle. A newer transition cancels the pending reset.
func (c *Clipboard) setStatus(s Status, reset time.Duration) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	gen := c.gen
	c.status = s
	if reset > 0 {
		c.timer = time.AfterFunc(reset, func() {
			c.mu.Lock()
			if c.gen != gen {
				c.mu.Unlock()
				return
			}
			c.status = StatusIdle
			fn := c.onChange
			c.mu.Unlock()

			if fn != nil {
				fn(StatusIdle)
			}
		})
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// Paste returns the encoded image held by the clipboard. Content that does
// not sniff as an image is rejected, the way a paste handler keeps only the
// image items.
func (c *Clipboard) Paste() ([]byte, error) {
	if !c.Supported() {
		return nil, ErrClipboardUnsupported
	}
	b, err := c.board.ReadImage()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the clipboard")
	}
	if !utils.IsImage(b) {
		return nil, errors.Wrapf(ErrNoClipboardImage, "found %s", utils.DetectContentType(b))
	}
	return b, nil
}
