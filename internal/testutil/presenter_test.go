package testutil

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrig/bitrig-xenocara/internal/present"
)

func TestRecordingPresenter(t *testing.T) {
	p := NewRecordingPresenter()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	require.NoError(t, p.Present(present.Frame{CallNo: 7, Description: "cbuf", Image: img}))
	require.NoError(t, p.Present(present.Frame{CallNo: 9, Description: "zsbuf", Image: img}))

	assert.Equal(t, []string{"7. cbuf", "9. zsbuf"}, p.Descriptions())
	assert.Len(t, p.Frames(), 2)
}

func TestRecordingPresenter_FailWith(t *testing.T) {
	p := NewRecordingPresenter()
	boom := errors.New("boom")
	p.FailWith(boom)

	err := p.Present(present.Frame{CallNo: 1, Description: "cbuf"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, p.Frames(), 1, "failed frames are still recorded")
}
