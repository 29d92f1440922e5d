package artwork

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

// LayerCount is the number of selectable layers in an order message.
const LayerCount = 6

// Generator composes the artwork for an order selection and returns the
// generated file path plus its size in bytes.
type Generator interface {
	Compose(selection []int) (path string, size int64, err error)
}

type fileGenerator struct {
	sourceDir    string
	generatedDir string
}

func NewFileGenerator(sourceDir string, generatedDir string) *fileGenerator {
	return &fileGenerator{
		sourceDir:    sourceDir,
		generatedDir: generatedDir,
	}
}

// Compose stacks the selected layer PNGs bottom to top with alpha blending.
// Selection indices are zero-based in the order message; layer files are
// numbered from 1.
func (g *fileGenerator) Compose(selection []int) (string, int64, error) {
	if len(selection) != LayerCount {
		return "", 0, fmt.Errorf("expected %d layer indices, got %d", LayerCount, len(selection))
	}

	layers := g.layerPaths(selection)

	base, err := loadPNG(layers[0])
	if err != nil {
		return "", 0, err
	}

	canvas := image.NewRGBA(base.Bounds())
	draw.Draw(canvas, canvas.Bounds(), base, image.Point{}, draw.Src)

	for _, layerPath := range layers[1:] {
		layer, err := loadPNG(layerPath)
		if err != nil {
			return "", 0, err
		}
		draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)
	}

	outputPath := filepath.Join(g.generatedDir, OutputFilename(selection))
	f, err := os.Create(outputPath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	if err := png.Encode(f, canvas); err != nil {
		return "", 0, err
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return "", 0, err
	}

	logger.Logger.Info().Str("path", outputPath).Int64("size", stat.Size()).Msg("Generated artwork")
	return outputPath, stat.Size(), nil
}

// layer file naming follows the art_source layout, e.g. Arm Left_1.png
func (g *fileGenerator) layerPaths(selection []int) []string {
	armLeft := filepath.Join(g.sourceDir, "arm-left", fmt.Sprintf("Arm Left_%d.png", selection[0]+1))
	armRight := filepath.Join(g.sourceDir, "arm-right", fmt.Sprintf("Arm Right_%d.png", selection[1]+1))
	body := filepath.Join(g.sourceDir, "body", "body.png")
	eyes := filepath.Join(g.sourceDir, "eyes", fmt.Sprintf("Eyes_%d.png", selection[2]+1))
	feet := filepath.Join(g.sourceDir, "legs", fmt.Sprintf("feet_%d.png", selection[3]+1))
	mouth := filepath.Join(g.sourceDir, "mouth", fmt.Sprintf("Mouth-%d.png", selection[4]+1))
	stem := filepath.Join(g.sourceDir, "stem", fmt.Sprintf("stem-%d.png", selection[5]+1))

	// stacking order: feet first, stem last
	return []string{feet, body, armLeft, armRight, eyes, mouth, stem}
}

// OutputFilename derives the generated image name from a selection,
// e.g. [1 1 1 1 1 1] -> 1_1_1_1_1_1.png
func OutputFilename(selection []int) string {
	parts := make([]string, 0, len(selection))
	for _, n := range selection {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, "_") + ".png"
}

// ImageFilename derives the generated image name from the raw order message.
func ImageFilename(message string) string {
	return strings.ReplaceAll(message, ",", "_") + ".png"
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layer %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode layer %s: %w", path, err)
	}
	return img, nil
}
