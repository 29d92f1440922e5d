package artwork

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "1_1_1_1_1_1.png", OutputFilename([]int{1, 1, 1, 1, 1, 1}))
	assert.Equal(t, "0_3_2_1_4_5.png", OutputFilename([]int{0, 3, 2, 1, 4, 5}))
}

func TestImageFilename(t *testing.T) {
	assert.Equal(t, "1_2_3_4_5_6.png", ImageFilename("1,2,3,4,5,6"))
}

func writeLayer(t *testing.T, path string, c color.Color) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func createLayerSource(t *testing.T) string {
	t.Helper()

	sourceDir := t.TempDir()
	writeLayer(t, filepath.Join(sourceDir, "arm-left", "Arm Left_1.png"), color.RGBA{A: 0})
	writeLayer(t, filepath.Join(sourceDir, "arm-right", "Arm Right_1.png"), color.RGBA{A: 0})
	writeLayer(t, filepath.Join(sourceDir, "body", "body.png"), color.RGBA{A: 0})
	writeLayer(t, filepath.Join(sourceDir, "eyes", "Eyes_1.png"), color.RGBA{A: 0})
	writeLayer(t, filepath.Join(sourceDir, "legs", "feet_1.png"), color.RGBA{R: 255, A: 255})
	writeLayer(t, filepath.Join(sourceDir, "mouth", "Mouth-1.png"), color.RGBA{A: 0})
	writeLayer(t, filepath.Join(sourceDir, "stem", "stem-1.png"), color.RGBA{G: 255, A: 255})
	return sourceDir
}

func TestCompose(t *testing.T) {
	logger.Init("4")

	sourceDir := createLayerSource(t)
	generatedDir := t.TempDir()
	generator := NewFileGenerator(sourceDir, generatedDir)

	path, size, err := generator.Compose([]int{0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(generatedDir, "0_0_0_0_0_0.png"), path)
	assert.Greater(t, size, int64(0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	composed, err := png.Decode(f)
	require.NoError(t, err)

	// the opaque stem layer is stacked last and must win
	r, g, b, a := composed.At(1, 1).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestCompose_WrongSelectionLength(t *testing.T) {
	generator := NewFileGenerator(t.TempDir(), t.TempDir())

	_, _, err := generator.Compose([]int{0, 0, 0})
	require.Error(t, err)
}

func TestCompose_MissingLayer(t *testing.T) {
	logger.Init("4")

	generator := NewFileGenerator(t.TempDir(), t.TempDir())

	_, _, err := generator.Compose([]int{0, 0, 0, 0, 0, 0})
	require.Error(t, err)
}
