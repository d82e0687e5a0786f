package atlas

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"atlaspack/rectpack"
)

// ErrInvalidOptions is returned by Options.Validate.
var ErrInvalidOptions = errors.New("invalid options")

// Options 是图集构建的全部配置，可以从 TOML 文件加载。
type Options struct {
	InputDir    string `toml:"input"`     // 输入目录
	OutputDir   string `toml:"output"`    // 输出目录
	MaxWidth    int    `toml:"width"`     // 图集最大宽度
	MaxHeight   int    `toml:"height"`    // 图集最大高度
	Padding     int    `toml:"padding"`   // 精灵之间以及与边缘之间的间距
	Rotate      bool   `toml:"rotate"`    // 是否允许旋转
	Trim        bool   `toml:"trim"`      // 是否裁剪透明边缘
	Threshold   uint8  `toml:"threshold"` // 透明度阈值，alpha 不大于该值视为透明
	NaturalSort bool   `toml:"natural_sort"`
	AutoSize    bool   `toml:"auto_size"` // 是否自动收缩图集
	PowerOfTwo  bool   `toml:"pow2"`      // 图集尺寸是否取2的幂
	Heuristic   string `toml:"heuristic"` // 启发式名称，如 "BAF_BSSF"
	Order       string `toml:"order"`     // 打包前的排序方式，如 "area"
}

// DefaultOptions returns the options used when neither a config file nor a
// flag sets a value.
func DefaultOptions() Options {
	return Options{
		InputDir:    "input",
		OutputDir:   "output",
		MaxWidth:    rectpack.DefaultSize,
		MaxHeight:   rectpack.DefaultSize,
		Rotate:      true,
		Trim:        true,
		NaturalSort: true,
		AutoSize:    true,
		Heuristic:   rectpack.BestAreaFitShortSideTiebreak.String(),
		Order:       "area",
	}
}

// LoadOptions reads a TOML config file on top of DefaultOptions.
// If the file does not exist, it returns DefaultOptions with no error.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return Options{}, err
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, opts.Validate()
}

// Validate checks sizes and resolves the heuristic and order names.
func (o Options) Validate() error {
	if o.MaxWidth <= 0 || o.MaxHeight <= 0 {
		return fmt.Errorf("%w: atlas size %dx%d", ErrInvalidOptions, o.MaxWidth, o.MaxHeight)
	}
	if o.Padding < 0 || 2*o.Padding >= min(o.MaxWidth, o.MaxHeight) {
		return fmt.Errorf("%w: padding %d", ErrInvalidOptions, o.Padding)
	}
	if _, err := rectpack.ParseHeuristic(o.Heuristic); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if _, err := rectpack.ParseSortFunc(o.Order); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}
