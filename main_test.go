package main

import (
	"testing"

	"github.com/df07/go-blackhole-renderer/pkg/scene"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()

	sc := scene.NewDefaultScene(8, 8)
	quality, err := scene.QualityPreset("low")
	if err != nil {
		t.Fatalf("Low quality preset missing: %v", err)
	}
	sc.Quality = quality
	return sc
}

func TestRender_SingleFrame(t *testing.T) {
	img, err := render(testScene(t), 1)
	if err != nil {
		t.Fatalf("Single-frame render failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("Unexpected image size %v", img.Bounds())
	}
}

func TestRender_Progressive(t *testing.T) {
	img, err := render(testScene(t), 2)
	if err != nil {
		t.Fatalf("Progressive render failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("Unexpected image size %v", img.Bounds())
	}
}
