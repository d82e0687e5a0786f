package atlas

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Version 写入元数据，标识生成图集的程序版本
	Version = "0.2.0"

	// MetadataFile is the name of the metadata file WriteAtlases produces.
	MetadataFile = "atlases.json"
)

// Box 是图集或原始图片中的一个矩形区域
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Dim 是宽高
type Dim struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (b Box) rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

func boxOf(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Frame 存储一个精灵在图集中的信息
type Frame struct {
	Filename string `json:"filename"`
	// Region 是精灵在图集中占据的区域，旋转时宽高已交换
	Region Box `json:"region"`
	// SourceSize 是原始图片的尺寸
	SourceSize Dim `json:"sourceSize"`
	// SourceRect 是裁剪后的像素在原始图片中的位置，旋转前的坐标
	SourceRect Box  `json:"sourceRect"`
	Trimmed    bool `json:"trimmed"`
	// Rotated 为 true 时，精灵以顺时针旋转90°存放
	Rotated bool `json:"rotated"`
}

// Atlas 是一张图集图片以及其中的精灵
type Atlas struct {
	// Name 是写入磁盘时的文件名，由 WriteAtlases 设置
	Name   string
	Image  *image.NRGBA
	Frames []Frame
}

// Meta 描述一次构建
type Meta struct {
	Version   string `json:"version"`
	BuildID   string `json:"buildId"`
	Timestamp string `json:"timestamp"`
}

// AtlasData 是一张图集的元数据
type AtlasData struct {
	AtlasName  string           `json:"atlasName"`
	SpriteList map[string]Frame `json:"spriteList"`
	TotalSize  Dim              `json:"totalSize"`
}

// Document 是 atlases.json 的内容
type Document struct {
	Meta    Meta        `json:"meta"`
	Atlases []AtlasData `json:"atlases"`
}

// atlasName 单张图集时使用 atlas.png，否则按序号命名
func atlasName(index, count int) string {
	if count == 1 {
		return "atlas.png"
	}
	return fmt.Sprintf("atlas_%d.png", index)
}

// WriteAtlases saves every atlas image into dir and writes the metadata file
// next to them. It returns the metadata path.
func WriteAtlases(dir string, atlases []*Atlas) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	doc := Document{
		Meta: Meta{
			Version:   Version,
			BuildID:   uuid.New().String(),
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		},
		Atlases: make([]AtlasData, len(atlases)),
	}
	for i, a := range atlases {
		a.Name = atlasName(i, len(atlases))
		if err := imaging.Save(a.Image, filepath.Join(dir, a.Name)); err != nil {
			return "", fmt.Errorf("save %s: %w", a.Name, err)
		}
		data := &doc.Atlases[i]
		data.AtlasName = a.Name
		data.SpriteList = make(map[string]Frame, len(a.Frames))
		for _, f := range a.Frames {
			data.SpriteList[f.Filename] = f
		}
		size := a.Image.Bounds().Size()
		data.TotalSize = Dim{W: size.X, H: size.Y}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, MetadataFile)
	return path, os.WriteFile(path, out, 0644)
}

// ReadDocument loads a metadata file written by WriteAtlases.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
