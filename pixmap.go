package pixaccel

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/pixaccel/pixfmt"
)

// Usage selects where a new pixmap keeps its pixels.
type Usage uint8

const (
	// UsageGPU allocates a texture and framebuffer.
	UsageGPU Usage = iota
	// UsageCPU allocates a CPU buffer only.
	UsageCPU
	// UsageMap allocates a staging buffer that receives read-back pixels.
	UsageMap
)

func (u Usage) String() string {
	switch u {
	case UsageGPU:
		return "gpu"
	case UsageCPU:
		return "cpu"
	case UsageMap:
		return "map"
	}
	return fmt.Sprintf("Usage(%d)", uint8(u))
}

// Pixmap is a rectangular pixel buffer that may be mirrored by a GPU
// backing. Rows are padded to 32-bit boundaries.
type Pixmap struct {
	width     int
	height    int
	depth     int
	stride    int
	format    pixfmt.Format
	isPicture bool
	usage     Usage

	data    []byte
	backing *Backing
	pending Pending
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Depth returns the number of significant bits per pixel.
func (p *Pixmap) Depth() int { return p.depth }

// Stride returns the byte length of a row of Data.
func (p *Pixmap) Stride() int { return p.stride }

// Format returns the pixel layout of Data.
func (p *Pixmap) Format() pixfmt.Format { return p.format }

// IsPicture reports whether the pixmap carries an explicit picture format.
func (p *Pixmap) IsPicture() bool { return p.isPicture }

// Usage returns the usage the pixmap was created with.
func (p *Pixmap) Usage() Usage { return p.usage }

// Data returns the CPU pixels, or nil when only the GPU holds them.
func (p *Pixmap) Data() []byte { return p.data }

// Backing returns the GPU backing, or nil.
func (p *Pixmap) Backing() *Backing { return p.backing }

// Pending returns the deferred operation not yet rendered.
func (p *Pixmap) Pending() Pending { return p.pending }

// SetFormat tags the pixmap with a picture format of the same pixel size.
func (p *Pixmap) SetFormat(f pixfmt.Format) error {
	if !f.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if f.BitsPerPixel() != p.format.BitsPerPixel() {
		return fmt.Errorf("%w: %v does not fit depth %d", ErrUnsupportedFormat, f, p.depth)
	}
	p.format = f
	p.isPicture = true
	return nil
}

// Pixel returns the pixel word at x, y of Data. It reports false when x, y
// is outside the pixmap or there is no CPU data.
func (p *Pixmap) Pixel(x, y int) (uint32, bool) {
	if p.data == nil || x < 0 || y < 0 || x >= p.width || y >= p.height {
		return 0, false
	}
	row := p.data[y*p.stride:]
	switch bpp := p.format.BitsPerPixel(); bpp {
	case 1:
		return uint32(row[x/8]>>(x%8)) & 1, true
	case 8:
		return uint32(row[x]), true
	case 16:
		return uint32(binary.LittleEndian.Uint16(row[x*2:])), true
	default:
		return binary.LittleEndian.Uint32(row[x*4:]), true
	}
}

// SetPixel stores a pixel word at x, y of Data. Writes outside the pixmap
// or without CPU data are ignored.
func (p *Pixmap) SetPixel(x, y int, v uint32) {
	if p.data == nil || x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	row := p.data[y*p.stride:]
	switch bpp := p.format.BitsPerPixel(); bpp {
	case 1:
		bit := byte(1) << (x % 8)
		if v&1 != 0 {
			row[x/8] |= bit
		} else {
			row[x/8] &^= bit
		}
	case 8:
		row[x] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(row[x*2:], uint16(v))
	default:
		binary.LittleEndian.PutUint32(row[x*4:], v)
	}
}

// contains reports whether the rectangle lies inside the pixmap.
func (p *Pixmap) contains(x, y, w, h int) bool {
	return w > 0 && h > 0 && x >= 0 && y >= 0 && x+w <= p.width && y+h <= p.height
}

// CreatePixmap allocates a w×h pixmap of depth with the default format
// for that depth.
func (s *Screen) CreatePixmap(w, h, depth int, usage Usage) (*Pixmap, error) {
	f := pixfmt.ForDepth(depth)
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: depth %d", ErrUnsupportedFormat, depth)
	}
	return s.newPixmap(w, h, depth, f, usage)
}

// CreatePicture allocates a w×h pixmap tagged with picture format f.
func (s *Screen) CreatePicture(w, h int, f pixfmt.Format, usage Usage) (*Pixmap, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	p, err := s.newPixmap(w, h, f.Depth(), f, usage)
	if err != nil {
		return nil, err
	}
	p.isPicture = true
	return p, nil
}

func (s *Screen) newPixmap(w, h, depth int, f pixfmt.Format, usage Usage) (*Pixmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	p := &Pixmap{
		width:  w,
		height: h,
		depth:  depth,
		stride: pixfmt.RowStride(w, f.BitsPerPixel()),
		format: f,
		usage:  usage,
	}

	switch usage {
	case UsageCPU:
		p.data = make([]byte, p.stride*h)
	case UsageMap:
		d, release := s.acquire()
		defer release()
		pbo, err := d.CreateBuffer()
		if err != nil {
			return nil, fmt.Errorf("%w: staging buffer: %w", ErrAllocation, err)
		}
		if err := d.BufferData(pbo, p.stride*h); err != nil {
			d.DestroyBuffer(pbo)
			return nil, fmt.Errorf("%w: staging buffer: %w", ErrAllocation, err)
		}
		p.backing = &Backing{width: w, height: h, pbo: pbo}
	case UsageGPU:
		desc, err := s.resolve(f, pixfmt.Upload)
		if err != nil {
			return nil, err
		}
		b, err := s.NewBacking(w, h, desc.Internal, 0)
		if err != nil {
			return nil, err
		}
		s.AttachBacking(p, b)
	default:
		return nil, fmt.Errorf("pixaccel: unknown usage %v", usage)
	}
	return p, nil
}

// DestroyPixmap releases the backing, its framebuffer and staging buffer,
// and drops CPU data. Any pending fill is discarded without drawing.
func (s *Screen) DestroyPixmap(p *Pixmap) {
	if b := s.DetachBacking(p); b != nil {
		s.DestroyBacking(b)
	}
	p.data = nil
	p.pending = Pending{}
}
