package atlas

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Unpack 根据元数据从图集中还原每张原始图片，写入 outDir。
// 被裁剪的透明边缘会补回，旋转的精灵会转回原方向。返回写出的图片数量。
func Unpack(ctx context.Context, metadataPath, outDir string) (int, error) {
	doc, err := ReadDocument(metadataPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}

	var written atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, data := range doc.Atlases {
		src, err := imaging.Open(filepath.Join(filepath.Dir(metadataPath), data.AtlasName))
		if err != nil {
			g.Wait()
			return int(written.Load()), fmt.Errorf("open atlas %s: %w", data.AtlasName, err)
		}
		for name, frame := range data.SpriteList {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				// 元数据中的名称不允许带目录
				path := filepath.Join(outDir, filepath.Base(name))
				if err := imaging.Save(restoreFrame(src, frame), path); err != nil {
					return fmt.Errorf("save %s: %w", path, err)
				}
				written.Add(1)
				return nil
			})
		}
	}
	err = g.Wait()
	return int(written.Load()), err
}

// restoreFrame crops frame out of an atlas and undoes rotation and trimming.
func restoreFrame(src image.Image, frame Frame) *image.NRGBA {
	sub := imaging.Crop(src, frame.Region.rect())
	if frame.Rotated {
		sub = imaging.Rotate90(sub)
	}
	if !frame.Trimmed {
		return sub
	}
	canvas := imaging.New(frame.SourceSize.W, frame.SourceSize.H, color.NRGBA{})
	return imaging.Paste(canvas, sub, image.Pt(frame.SourceRect.X, frame.SourceRect.Y))
}
