package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/headshot"
	"github.com/menta2k/headshot/internal/config"
	"github.com/menta2k/headshot/internal/utils"
	"github.com/menta2k/headshot/pkg/locator"
	"github.com/menta2k/headshot/pkg/ollama"
	"github.com/menta2k/headshot/pkg/params"
)

func main() {
	var in, outDir, configPath, preset string
	var backend, cascade, model, url string
	var ext string
	var quality int
	var lossless bool
	var grayscale bool

	// Parameter overrides; negative sentinel = keep the preset value.
	var width, height int
	var zoom float64
	var shiftX, shiftY int
	var padTop, padBottom, padSide float64
	var border string

	flag.StringVar(&in, "in", "", "input image path or directory (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&configPath, "config", "", "JSON config file with presets (optional)")
	flag.StringVar(&preset, "preset", "default", "preset name to use")

	flag.StringVar(&backend, "backend", "pigo", "face detection backend: pigo or ollama")
	flag.StringVar(&cascade, "cascade", "", "pigo cascade file path (overrides config)")
	flag.StringVar(&model, "model", "openbmb/minicpm-v4.5", "vision model name for ollama backend")
	flag.StringVar(&url, "url", "http://localhost:11434", "ollama server URL")

	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp (default from config)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality 1-100 (default from config)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	flag.BoolVar(&grayscale, "grayscale", false, "convert output to grayscale")

	flag.IntVar(&width, "width", 0, "target width override")
	flag.IntVar(&height, "height", 0, "target height override")
	flag.Float64Var(&zoom, "zoom", 0, "zoom out factor override (0.5..3.0)")
	flag.IntVar(&shiftX, "shift-x", 0, "horizontal crop shift in pixels")
	flag.IntVar(&shiftY, "shift-y", 0, "vertical crop shift in pixels")
	flag.Float64Var(&padTop, "pad-top", -1, "headroom padding ratio override")
	flag.Float64Var(&padBottom, "pad-bottom", -1, "shoulder padding ratio override")
	flag.Float64Var(&padSide, "pad-side", -1, "side padding ratio override")
	flag.StringVar(&border, "border", "", "border color override, e.g. #ffffff")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in portrait.jpg [-preset default] [-backend pigo|ollama] [-out outdir]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	p, err := cfg.Preset(preset)
	if err != nil {
		log.Fatalf("Failed to load preset %q: %v (available: %v)", preset, err, cfg.PresetNames())
	}
	applyOverrides(&p, width, height, zoom, shiftX, shiftY, padTop, padBottom, padSide, border, grayscale)

	gen := headshot.New()
	switch backend {
	case "pigo":
		cascadePath := cfg.Detection.CascadePath
		if cascade != "" {
			cascadePath = cascade
		}
		if !utils.FileExists(cascadePath) {
			log.Fatalf("Cascade file not found: %s (set -cascade or detection.cascade_path)", cascadePath)
		}
		loc, err := locator.NewPigoLocatorFromFile(cascadePath, cfg.PigoConfig())
		if err != nil {
			log.Fatalf("Failed to create pigo locator: %v", err)
		}
		gen.SetLocator(loc)
	case "ollama":
		client, err := ollama.NewClient(url)
		if err != nil {
			log.Fatalf("Failed to create Ollama client: %v", err)
		}
		gen.SetLocator(locator.NewVisionLocator(client, locator.DefaultVisionConfig(model)))
	default:
		log.Fatalf("Unknown backend: %s (use 'pigo' or 'ollama')", backend)
	}

	if ext == "" {
		ext = cfg.Output.Format
	}
	if quality <= 0 {
		quality = cfg.Output.Quality
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	inputs := []string{in}
	if info, err := os.Stat(in); err == nil && info.IsDir() {
		inputs, err = utils.ListImageFiles(in)
		if err != nil {
			log.Fatal(err)
		}
		if len(inputs) == 0 {
			log.Fatalf("no image files found in %s", in)
		}
	}

	ctx := context.Background()
	for _, input := range inputs {
		if err := processOne(ctx, gen, input, outDir, ext, quality, lossless, p); err != nil {
			log.Printf("%s: %v", input, err)
		}
	}
}

func processOne(ctx context.Context, gen *headshot.Generator, input, outDir, ext string, quality int, lossless bool, p params.ProcessingParameters) error {
	img, err := gen.LoadImage(input)
	if err != nil {
		return err
	}
	if err := gen.ValidateImage(img); err != nil {
		return err
	}

	result, err := gen.DetectAndProcess(ctx, img, p)
	if err != nil {
		if errors.Is(err, headshot.ErrDetection) {
			return fmt.Errorf("detection backend failed: %w", err)
		}
		return err
	}

	if result.Face != nil {
		log.Printf("%s: face at %dx%d@%d,%d crop=%v", input,
			result.Face.W, result.Face.H, result.Face.X, result.Face.Y, result.Crop)
	} else {
		log.Printf("%s: no face detected, used center crop %v", input, result.Crop)
	}

	outPath := utils.GenerateOutputFilename(input, outDir, "_headshot", ext)
	if err := gen.SaveImageAs(result.Image, outPath, ext, quality, lossless); err != nil {
		return err
	}
	log.Printf("wrote %s", outPath)
	return nil
}

func applyOverrides(p *params.ProcessingParameters, width, height int, zoom float64, shiftX, shiftY int, padTop, padBottom, padSide float64, border string, grayscale bool) {
	if width > 0 {
		p.TargetWidth = width
	}
	if height > 0 {
		p.TargetHeight = height
	}
	if zoom > 0 {
		p.ZoomOutFactor = zoom
	}
	if shiftX != 0 {
		p.ShiftX = shiftX
	}
	if shiftY != 0 {
		p.ShiftY = shiftY
	}
	if padTop >= 0 {
		p.PaddingTopRatio = padTop
	}
	if padBottom >= 0 {
		p.PaddingBottomRatio = padBottom
	}
	if padSide >= 0 {
		p.PaddingSideRatio = padSide
	}
	if border != "" {
		if c, err := params.ParseHexColor(border); err == nil {
			p.BorderColor = c
		} else {
			log.Printf("ignoring invalid border color %q", border)
		}
	}
	if grayscale {
		p.Grayscale = true
	}
}
