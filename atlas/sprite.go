package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"golang.org/x/sync/errgroup"
)

// ErrNoImages is returned by ScanDir when the directory holds no images.
var ErrNoImages = errors.New("no images found")

// Sprite 是一张已解码（并可能已裁剪）的输入图片。
type Sprite struct {
	ID   int
	Path string
	// Name 是文件名，作为元数据中的键
	Name string
	// Image 是参与打包的像素，边界从 (0,0) 开始
	Image image.Image
	// SourceSize 是原始图片的尺寸
	SourceSize image.Point
	// Trim 是 Image 在原始图片中的位置
	Trim image.Rectangle
}

// Size returns the packed size of the sprite.
func (s *Sprite) Size() image.Point {
	return s.Image.Bounds().Size()
}

// Trimmed reports whether transparent borders were cut off.
func (s *Sprite) Trimmed() bool {
	return s.Trim != image.Rectangle{Max: s.SourceSize}
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// ScanDir lists the images directly inside dir. Names are ordered
// naturally ("run2.png" before "run10.png") when naturalSort is set and
// lexically otherwise.
func ScanDir(dir string, naturalSort bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	if naturalSort {
		sort.Sort(natural.StringSlice(paths))
	}
	return paths, nil
}

// LoadSprites decodes paths concurrently. The sprite ID is its index in
// paths. With trim set, borders whose alpha is not above threshold are cut.
func LoadSprites(ctx context.Context, paths []string, trim bool, threshold uint8) ([]*Sprite, error) {
	sprites := make([]*Sprite, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sprite, err := loadSprite(i, path, trim, threshold)
			if err != nil {
				return err
			}
			sprites[i] = sprite
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sprites, nil
}

func loadSprite(id int, path string, trim bool, threshold uint8) (*Sprite, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	bounds := src.Bounds()
	sprite := &Sprite{
		ID:         id,
		Path:       path,
		Name:       filepath.Base(path),
		SourceSize: bounds.Size(),
		Trim:       image.Rectangle{Max: bounds.Size()},
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("decode %s: empty image", path)
	}
	if !trim {
		sprite.Image = imaging.Clone(src)
		return sprite, nil
	}
	box := TrimBounds(src, threshold)
	sprite.Image = imaging.Crop(src, box)
	sprite.Trim = box.Sub(bounds.Min)
	return sprite, nil
}

// TrimBounds 检测图像的透明边缘，返回 alpha 大于 threshold 的像素的最小包围矩形。
// 图像完全透明时返回整个边界。
func TrimBounds(img image.Image, threshold uint8) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	mark := func(x, y int) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	switch src := img.(type) {
	case *image.NRGBA:
		// 直接访问alpha通道
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+4 {
				if src.Pix[i+3] > threshold {
					mark(x, y)
				}
			}
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+4 {
				if src.Pix[i+3] > threshold {
					mark(x, y)
				}
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				// RGBA()返回的是16bit
				if _, _, _, a := img.At(x, y).RGBA(); uint8(a>>8) > threshold {
					mark(x, y)
				}
			}
		}
	}
	if maxX < minX {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
