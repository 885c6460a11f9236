package pixaccel

import (
	"fmt"

	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// Extract returns a standalone w×h pixmap holding the rectangle at x, y of
// p, with the same depth and format.
//
// With AccessWO the result is an uninitialized CPU pixmap and p is not
// touched. Otherwise the rectangle is downloaded: on the Desktop flavor
// into a map-backed pixmap whose Data aliases its staging buffer, on
// Embedded into a CPU pixmap.
func (s *Screen) Extract(p *Pixmap, x, y, w, h int, access gpucore.Access) (*Pixmap, error) {
	if !p.contains(x, y, w, h) {
		return nil, fmt.Errorf("%w: extract %dx%d+%d+%d from %dx%d", ErrInvalidDimensions, w, h, x, y, p.width, p.height)
	}
	if access == gpucore.AccessWO {
		sub, err := s.CreatePixmap(w, h, p.depth, UsageCPU)
		if err != nil {
			return nil, err
		}
		inheritFormat(sub, p)
		return sub, nil
	}

	if b := p.backing; b == nil || b.fb == gpucore.InvalidID {
		return nil, fmt.Errorf("%w: extract", ErrNoBacking)
	}
	usage := UsageCPU
	if s.caps.Flavor == pixfmt.Desktop {
		usage = UsageMap
	}
	sub, err := s.CreatePixmap(w, h, p.depth, usage)
	if err != nil {
		return nil, err
	}
	inheritFormat(sub, p)

	var pbo gpucore.BufferID
	if sub.backing != nil {
		pbo = sub.backing.pbo
	}
	out, err := s.DownloadRegion(p, x, y, w, h, sub.stride, sub.data, pbo, access)
	if err != nil {
		s.DestroyPixmap(sub)
		return nil, err
	}
	if pbo != gpucore.InvalidID {
		sub.backing.mapped = true
		sub.backing.pboValid = true
	}
	sub.data = out
	return sub, nil
}

func inheritFormat(sub, p *Pixmap) {
	sub.format = p.format
	sub.isPicture = p.isPicture
}

// Reinsert writes sub back into the rectangle at x, y of p unless access
// is AccessRO, then destroys sub in every case.
func (s *Screen) Reinsert(sub, p *Pixmap, x, y, w, h int, access gpucore.Access) error {
	defer s.DestroyPixmap(sub)
	if access == gpucore.AccessRO {
		return nil
	}

	if b := sub.backing; b != nil && b.pboValid {
		d, release := s.acquire()
		if b.mapped {
			d.UnmapBuffer(b.pbo)
			b.mapped = false
		}
		release()
		return s.UploadRegion(p, x, y, w, h, sub.stride, nil, b.pbo)
	}
	return s.UploadRegion(p, x, y, w, h, sub.stride, sub.data, gpucore.InvalidID)
}
