package backdrop

import (
	"context"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer blocks until canceled when the padding is zero, fails on a
// negative padding and otherwise returns a square of padding side.
type fakeRenderer struct {
	calls atomic.Int32
}

func (r *fakeRenderer) Render(ctx context.Context, _ []byte, style Style) (*image.RGBA, error) {
	r.calls.Add(1)
	switch {
	case style.Padding == 0:
		<-ctx.Done()
		return nil, ctx.Err()
	case style.Padding < 0:
		return nil, errors.New("render failed")
	}
	return image.NewRGBA(image.Rect(0, 0, style.Padding, style.Padding)), nil
}

func nextResult(t *testing.T, s *Scheduler) Result {
	t.Helper()

	select {
	case res, ok := <-s.Results():
		require.True(t, ok, "results channel closed")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a render result")
	}
	return Result{}
}

func TestScheduler_LastWriteWins(t *testing.T) {
	r := &fakeRenderer{}
	s := NewScheduler(r)

	assert.Equal(t, uint64(1), s.Submit(context.Background(), nil, Style{Padding: 0}))
	assert.Equal(t, uint64(2), s.Submit(context.Background(), nil, Style{Padding: 0}))
	assert.Equal(t, uint64(3), s.Submit(context.Background(), nil, Style{Padding: 7}))

	res := nextResult(t, s)
	assert.Equal(t, uint64(3), res.Seq)
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Image.Bounds().Dx())

	s.Close()
	assert.Equal(t, int32(3), r.calls.Load())

	// The superseded renders were canceled and never published.
	for res := range s.Results() {
		t.Errorf("unexpected result %d", res.Seq)
	}
	img, seq := s.Latest()
	assert.Equal(t, uint64(3), seq)
	assert.Equal(t, 7, img.Bounds().Dx())
}

func TestScheduler_KeepsLastGoodBuffer(t *testing.T) {
	s := NewScheduler(&fakeRenderer{})
	defer s.Close()

	img, seq := s.Latest()
	assert.Nil(t, img)
	assert.Zero(t, seq)

	s.Submit(context.Background(), nil, Style{Padding: 5})
	require.NoError(t, nextResult(t, s).Err)

	s.Submit(context.Background(), nil, Style{Padding: -1})
	res := nextResult(t, s)
	assert.Error(t, res.Err)
	assert.Nil(t, res.Image)

	img, seq = s.Latest()
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, 5, img.Bounds().Dx())
}

func TestScheduler_ParentCancellation(t *testing.T) {
	s := NewScheduler(&fakeRenderer{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s.Submit(ctx, nil, Style{Padding: 0})
	cancel()

	assert.ErrorIs(t, nextResult(t, s).Err, context.Canceled)
}

func TestScheduler_SubmitAfterClose(t *testing.T) {
	s := NewScheduler(&fakeRenderer{})
	s.Close()
	s.Close()

	assert.Zero(t, s.Submit(context.Background(), nil, Style{Padding: 3}))
}

func TestScheduler_DrivesProcessor(t *testing.T) {
	s := NewScheduler(&Processor{})
	defer s.Close()

	src := encodePNG(t, uniformImage(10, 6, red))
	s.Submit(context.Background(), src, DefaultStyle())

	res := nextResult(t, s)
	require.NoError(t, res.Err)
	assert.Equal(t, image.Rect(0, 0, 110, 106), res.Image.Bounds())
}
