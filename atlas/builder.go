package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/bits"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"atlaspack/rectpack"
)

// ErrSpriteTooLarge is returned when a sprite cannot fit an empty atlas in
// any allowed orientation.
var ErrSpriteTooLarge = errors.New("sprite larger than atlas")

// Builder 把精灵打包成一张或多张图集。
type Builder struct {
	opts      Options
	heuristic rectpack.Heuristic
	order     rectpack.SortFunc
	logger    *log.Logger
}

// NewBuilder validates opts. A nil logger falls back to log.Default().
func NewBuilder(opts Options, logger *log.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	heuristic, _ := rectpack.ParseHeuristic(opts.Heuristic)
	order, _ := rectpack.ParseSortFunc(opts.Order)
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{opts: opts, heuristic: heuristic, order: order, logger: logger}, nil
}

func (b *Builder) newPacker() *rectpack.Packer {
	// Options were validated, so the size and heuristic are accepted.
	p, _ := rectpack.NewPacker(b.opts.MaxWidth, b.opts.MaxHeight, b.heuristic)
	p.AllowRotate(b.opts.Rotate)
	p.SetPadding(b.opts.Padding)
	p.Sorter(b.order, false)
	return p
}

// fits reports whether a w x h sprite fits an empty atlas.
func (b *Builder) fits(w, h int) bool {
	maxW, maxH := b.opts.MaxWidth-2*b.opts.Padding, b.opts.MaxHeight-2*b.opts.Padding
	return (w <= maxW && h <= maxH) || (b.opts.Rotate && h <= maxW && w <= maxH)
}

// Build packs sprites into as few atlases as the packer manages, filling
// each atlas before spilling the rest into the next one.
func (b *Builder) Build(ctx context.Context, sprites []*Sprite) ([]*Atlas, error) {
	byID := make(map[int]*Sprite, len(sprites))
	sizes := make([]rectpack.Size, 0, len(sprites))
	for _, s := range sprites {
		size := s.Size()
		if !b.fits(size.X, size.Y) {
			return nil, fmt.Errorf("%w: %s is %dx%d, atlas is %dx%d with padding %d",
				ErrSpriteTooLarge, s.Name, size.X, size.Y, b.opts.MaxWidth, b.opts.MaxHeight, b.opts.Padding)
		}
		byID[s.ID] = s
		sizes = append(sizes, rectpack.NewSizeID(s.ID, size.X, size.Y))
	}

	var atlases []*Atlas
	for len(sizes) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		p := b.newPacker()
		p.Insert(sizes...)
		p.PackSpill()
		if len(p.Rects()) == 0 {
			return nil, fmt.Errorf("atlas %d: %w", len(atlases), rectpack.ErrNoFit)
		}
		if b.opts.AutoSize {
			size := p.Shrink()
			b.logger.Debug("shrunk atlas", "index", len(atlases), "size", size)
		}
		sizes = slices.Clone(p.Unpacked())

		atlas := b.compose(p, byID)
		bounds := atlas.Image.Bounds()
		b.logger.Info("packed atlas",
			"index", len(atlases),
			"sprites", len(p.Rects()),
			"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
			"used", fmt.Sprintf("%.2f%%", p.Used(true)*100),
			"left", len(sizes),
			"elapsed", time.Since(start).Round(time.Millisecond))
		atlases = append(atlases, atlas)
	}
	return atlases, nil
}

// compose draws the packed sprites onto a transparent image.
func (b *Builder) compose(p *rectpack.Packer, byID map[int]*Sprite) *Atlas {
	size := p.Size()
	if b.opts.PowerOfTwo {
		size.Width = nextPowerOfTwo(size.Width)
		size.Height = nextPowerOfTwo(size.Height)
	}
	dst := imaging.New(size.Width, size.Height, color.NRGBA{})
	atlas := &Atlas{Image: dst, Frames: make([]Frame, 0, len(p.Rects()))}
	for _, r := range p.Rects() {
		sprite := byID[r.ID]
		src := sprite.Image
		if r.Rotated {
			src = imaging.Rotate270(src)
		}
		region := image.Rect(r.X, r.Y, r.Right(), r.Bottom())
		draw.Draw(dst, region, src, src.Bounds().Min, draw.Src)

		atlas.Frames = append(atlas.Frames, Frame{
			Filename:   sprite.Name,
			Region:     boxOf(region),
			SourceSize: Dim{W: sprite.SourceSize.X, H: sprite.SourceSize.Y},
			SourceRect: boxOf(sprite.Trim),
			Trimmed:    sprite.Trimmed(),
			Rotated:    r.Rotated,
		})
		b.logger.Debug("placed sprite", "sprite", sprite.Name, "rect", r, "rotated", r.Rotated)
	}
	return atlas
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
