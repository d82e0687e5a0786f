package rectpack

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultSize 定义了矩形包装器的默认最大宽度/高度值
// 基于现代GPU的最大纹理尺寸。如果这个库不是用于创建纹理图集，
// 那么这个值除了提供一个合理的起点外没有特殊意义。
const DefaultSize = 4096

var (
	// ErrAreaExceeded 表示待打包矩形的总面积超过了包装区域。
	ErrAreaExceeded = errors.New("total area exceeds bin area")
	// ErrNoFit 表示面积足够，但无法找到可行的排列。
	ErrNoFit = errors.New("rectangles do not fit in bin")
	// ErrInvalidSize 表示宽度或高度不是正数。
	ErrInvalidSize = errors.New("width and height must be greater than 0")
)

// Packer 包含2D矩形包装器的状态。
// 每次 Pack 都会把已包装和暂存的所有尺寸重新放入一个空的包装区域。
type Packer struct {
	// unpacked 包含尚未包装或无法包装的尺寸
	unpacked []Size

	// packed 包含已包装的矩形（已去除间距）
	packed []Rect

	maxWidth  int
	maxHeight int
	heuristic Heuristic

	allowRotate bool

	// sortFunc 定义打包前排序尺寸所用的比较函数，只影响同分时的先后顺序
	//
	// 默认值：SortArea
	sortFunc SortFunc
	sortRev  bool

	// padding 定义矩形之间以及矩形与边缘之间预留的空隙
	//
	// 默认值：0
	padding int
}

// NewPacker 创建并初始化一个新的矩形包装器
// 参数:
//
//	maxWidth - 包装区域的最大宽度(必须大于0)
//	maxHeight - 包装区域的最大高度(必须大于0)
//	heuristic - 评分启发式
func NewPacker(maxWidth, maxHeight int, heuristic Heuristic) (*Packer, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w (given %vx%v)", ErrInvalidSize, maxWidth, maxHeight)
	}
	if !heuristic.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeuristic, heuristic)
	}
	return &Packer{
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		heuristic: heuristic,
		sortFunc:  SortArea,
	}, nil
}

// NewDefaultPacker 创建使用默认配置的包装器
// 默认配置:
//   - 最大尺寸: DefaultSize (4096x4096)
//   - 启发式: BestAreaFitShortSideTiebreak
func NewDefaultPacker() *Packer {
	packer, _ := NewPacker(DefaultSize, DefaultSize, BestAreaFitShortSideTiebreak)
	return packer
}

// Insert 向包装器中暂存多个尺寸，等待 Pack 打包
func (p *Packer) Insert(sizes ...Size) {
	p.unpacked = append(p.unpacked, sizes...)
}

// InsertSize 向包装器中暂存指定ID和尺寸的矩形
func (p *Packer) InsertSize(id, width, height int) {
	p.Insert(NewSizeID(id, width, height))
}

// Sorter 设置打包前的排序函数和排序顺序，compare 为 nil 时保持插入顺序
func (p *Packer) Sorter(compare SortFunc, reverse bool) {
	p.sortFunc = compare
	p.sortRev = reverse
}

// AllowRotate 设置是否允许矩形旋转90°
//
// 默认值: false
func (p *Packer) AllowRotate(enabled bool) {
	p.allowRotate = enabled
}

// SetPadding 设置矩形周围的间距，负数按0处理
func (p *Packer) SetPadding(padding int) {
	p.padding = max(padding, 0)
}

// Heuristic 返回包装器使用的启发式
func (p *Packer) Heuristic() Heuristic {
	return p.heuristic
}

// MaxSize 返回包装区域的最大尺寸
func (p *Packer) MaxSize() Size {
	return NewSize(p.maxWidth, p.maxHeight)
}

// Rects 获取所有已成功包装的矩形(由内部管理，如需修改请复制)
func (p *Packer) Rects() []Rect {
	return p.packed
}

// Unpacked 获取所有暂存但未包装的矩形尺寸(由内部管理，如需修改请复制)
func (p *Packer) Unpacked() []Size {
	return p.unpacked
}

// Map 创建矩形ID到矩形对象的映射
func (p *Packer) Map() map[int]Rect {
	mapping := make(map[int]Rect, len(p.packed))
	for _, rect := range p.packed {
		mapping[rect.ID] = rect
	}
	return mapping
}

// Size 计算包含所有已包装矩形（含间距）所需的最小尺寸
func (p *Packer) Size() Size {
	var size Size
	for _, rect := range p.packed {
		size.Width = max(size.Width, rect.Right()+p.padding)
		size.Height = max(size.Height, rect.Bottom()+p.padding)
	}
	return size
}

// UsedArea 返回已包装矩形的总面积
func (p *Packer) UsedArea() int {
	area := 0
	for _, rect := range p.packed {
		area += rect.Area()
	}
	return area
}

// Used 计算空间利用率(0.0-1.0)
//
//	current - true:相对当前包围尺寸 false:相对最大包装区域
func (p *Packer) Used(current bool) float64 {
	size := p.MaxSize()
	if current {
		size = p.Size()
	}
	if size.Area() == 0 {
		return 0
	}
	return float64(p.UsedArea()) / float64(size.Area())
}

// Clear 清除所有已包装和暂存的矩形（保留配置）
func (p *Packer) Clear() {
	p.packed = p.packed[:0]
	p.unpacked = p.unpacked[:0]
}

// Pack 把已包装和暂存的所有尺寸重新打包到一个包装区域中。
// 失败时返回 ErrInvalidSize、ErrAreaExceeded 或 ErrNoFit，
// 此时所有尺寸都保留在 Unpacked 中，Rects 为空。
func (p *Packer) Pack() error {
	sizes := p.collect()
	if len(sizes) == 0 {
		return nil
	}
	fail := func(err error) error {
		p.packed = p.packed[:0]
		p.unpacked = sizes
		return err
	}
	binW, binH := p.maxWidth-p.padding, p.maxHeight-p.padding
	if binW <= 0 || binH <= 0 {
		return fail(fmt.Errorf("%w: padding %d leaves no room", ErrInvalidSize, p.padding))
	}
	reqs := p.requests(sizes)
	for _, r := range reqs {
		if r.Width <= p.padding || r.Height <= p.padding {
			return fail(fmt.Errorf("%w: rect %d is %s", ErrInvalidSize, r.ID, unpadSize(r.Size, p.padding)))
		}
	}
	if !fitsArea(binW, binH, reqs) {
		return fail(fmt.Errorf("%w: %d rects in %dx%d", ErrAreaExceeded, len(reqs), p.maxWidth, p.maxHeight))
	}
	if !Pack(binW, binH, p.allowRotate, p.heuristic, reqs) {
		return fail(fmt.Errorf("%w: %d rects in %dx%d", ErrNoFit, len(reqs), p.maxWidth, p.maxHeight))
	}
	p.packed = p.packed[:0]
	for _, r := range reqs {
		p.packed = append(p.packed, unpadRect(r, p.padding))
	}
	p.unpacked = p.unpacked[:0]
	return nil
}

// PackSpill 与 Pack 类似，但不做面积预检查，也不要求全部放入：
// 找不到可行位置时停止，已放置的子集是一个有效的排列，保留在 Rects 中，
// 其余尺寸留在 Unpacked 中，可以交给下一个包装器。
// 返回是否全部包装成功。
func (p *Packer) PackSpill() bool {
	sizes := p.collect()
	p.packed = p.packed[:0]
	p.unpacked = p.unpacked[:0]
	if len(sizes) == 0 {
		return true
	}
	binW, binH := p.maxWidth-p.padding, p.maxHeight-p.padding
	var reqs []Rect
	var origin []Size
	for i, r := range p.requests(sizes) {
		if binW <= 0 || binH <= 0 || r.Width <= p.padding || r.Height <= p.padding {
			p.unpacked = append(p.unpacked, sizes[i])
			continue
		}
		reqs = append(reqs, r)
		origin = append(origin, sizes[i])
	}
	if len(reqs) > 0 {
		run := newRun(binW, binH, p.allowRotate, p.heuristic, reqs)
		run.pack()
		placed := make([]bool, len(reqs))
		for i := range placed {
			placed[i] = true
		}
		for _, idx := range run.remaining {
			placed[idx] = false
		}
		for i, r := range reqs {
			if placed[i] {
				p.packed = append(p.packed, unpadRect(r, p.padding))
			} else {
				p.unpacked = append(p.unpacked, origin[i])
			}
		}
	}
	return len(p.unpacked) == 0
}

// Shrink 寻找仍能容纳所有已包装矩形的最小包装区域（先缩小高度，再缩小宽度），
// 并把已包装矩形重新打包到该尺寸。暂存的尺寸保持不变，因此可以在 PackSpill 之后调用。
// 已包装的子集无法在当前尺寸下单独重新打包时，保持原样。
// 返回缩小后的最大尺寸。
func (p *Packer) Shrink() Size {
	if len(p.packed) == 0 {
		return p.MaxSize()
	}
	sizes := p.sorted(p.packedSizes())
	fits := func(width, height int) bool {
		return Pack(width-p.padding, height-p.padding, p.allowRotate, p.heuristic, p.requests(sizes))
	}
	width, height := p.maxWidth, p.maxHeight
	if !fits(width, height) {
		return p.MaxSize()
	}

	area := 0
	for _, s := range sizes {
		area += (s.Width + p.padding) * (s.Height + p.padding)
	}
	minHeight := ceilDiv(area, width-p.padding) + p.padding
	height = shrinkSide(minHeight, height, func(h int) bool { return fits(width, h) })
	minWidth := ceilDiv(area, height-p.padding) + p.padding
	width = shrinkSide(minWidth, width, func(w int) bool { return fits(w, height) })

	reqs := p.requests(sizes)
	Pack(width-p.padding, height-p.padding, p.allowRotate, p.heuristic, reqs)
	p.maxWidth, p.maxHeight = width, height
	p.packed = p.packed[:0]
	for _, r := range reqs {
		p.packed = append(p.packed, unpadRect(r, p.padding))
	}
	return p.MaxSize()
}

// shrinkSide binary searches the smallest value in (lo, hi] accepted by fits.
// hi must be accepted; lo is a lower bound below which nothing fits.
func shrinkSide(lo, hi int, fits func(int) bool) int {
	lo = max(lo-1, 0)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if fits(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// collect 汇总已包装矩形的原始尺寸和暂存尺寸，并按排序函数排序
func (p *Packer) collect() []Size {
	return p.sorted(append(p.packedSizes(), p.unpacked...))
}

// packedSizes 返回已包装矩形旋转前的尺寸
func (p *Packer) packedSizes() []Size {
	sizes := make([]Size, 0, len(p.packed)+len(p.unpacked))
	for _, r := range p.packed {
		s := r.Size
		if r.Rotated {
			s.Width, s.Height = s.Height, s.Width
		}
		sizes = append(sizes, s)
	}
	return sizes
}

func (p *Packer) sorted(sizes []Size) []Size {
	if p.sortFunc != nil {
		if p.sortRev {
			slices.SortStableFunc(sizes, func(a, b Size) int {
				return p.sortFunc(b, a)
			})
		} else {
			slices.SortStableFunc(sizes, p.sortFunc)
		}
	} else if p.sortRev {
		slices.Reverse(sizes)
	}
	return sizes
}

// requests 把尺寸转换为带间距的放置请求
func (p *Packer) requests(sizes []Size) []Rect {
	reqs := make([]Rect, len(sizes))
	for i, s := range sizes {
		reqs[i].Size = padSize(s, p.padding)
	}
	return reqs
}

// padSize 在给定的尺寸上加上指定的间距
func padSize(size Size, padding int) Size {
	size.Width += padding
	size.Height += padding
	return size
}

func unpadSize(size Size, padding int) Size {
	size.Width -= padding
	size.Height -= padding
	return size
}

// unpadRect 从放置结果中移除间距：矩形向右下偏移 padding，尺寸还原
func unpadRect(rect Rect, padding int) Rect {
	rect.X += padding
	rect.Y += padding
	rect.Size = unpadSize(rect.Size, padding)
	return rect
}
