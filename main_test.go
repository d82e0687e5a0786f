package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlaspack/atlas"
	"atlaspack/rectpack"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for i, size := range [][2]int{{20, 12}, {8, 30}, {16, 16}} {
		img := imaging.New(size[0], size[1], color.NRGBA{R: uint8(60 * i), G: 120, B: 30, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(dir, []string{"a.png", "b.png", "c.png"}[i])))
	}
	return dir
}

func TestHeuristicsCmd(t *testing.T) {
	out, _, err := execute(t, "heuristics")
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.Len(t, lines, len(rectpack.Heuristics()))
	assert.Equal(t, "BAF", lines[0])
	assert.Contains(t, lines, "BLSF_BSSF_SQR")
}

func TestPackAndUnpackCmd(t *testing.T) {
	in := writeInput(t)
	out := t.TempDir()

	_, logs, err := execute(t, "pack", "-v", "--input", in, "--output", out,
		"--width", "64", "--height", "64", "--padding", "1", "--heuristic", "BSSF_BAF")
	require.NoError(t, err, logs)
	assert.FileExists(t, filepath.Join(out, "atlas.png"))
	assert.FileExists(t, filepath.Join(out, atlas.MetadataFile))
	assert.Contains(t, logs, "placed sprite")

	restored := t.TempDir()
	_, logs, err = execute(t, "unpack", filepath.Join(out, atlas.MetadataFile), "--output", restored)
	require.NoError(t, err, logs)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		assert.FileExists(t, filepath.Join(restored, name))
	}
}

func TestPackInvalidHeuristic(t *testing.T) {
	_, _, err := execute(t, "pack", "--input", writeInput(t), "--output", t.TempDir(), "--heuristic", "ContactPoint")
	assert.ErrorIs(t, err, atlas.ErrInvalidOptions)
	assert.ErrorIs(t, err, rectpack.ErrInvalidHeuristic)
}

func TestPackConfigOverride(t *testing.T) {
	in := writeInput(t)
	out := t.TempDir()
	config := filepath.Join(t.TempDir(), "atlas.toml")
	toml := "input = \"" + filepath.ToSlash(in) + "\"\nwidth = 8\nheight = 64\norder = \"maxside\"\n"
	require.NoError(t, os.WriteFile(config, []byte(toml), 0644))

	_, _, err := execute(t, "pack", "--config", config, "--output", out)
	assert.ErrorIs(t, err, atlas.ErrSpriteTooLarge, "width comes from the config file")

	_, logs, err := execute(t, "pack", "--config", config, "--output", out, "--width", "64")
	require.NoError(t, err, logs)
	assert.FileExists(t, filepath.Join(out, atlas.MetadataFile))
}

func TestPackMissingInput(t *testing.T) {
	_, _, err := execute(t, "pack", "--input", filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
