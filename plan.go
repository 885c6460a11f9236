package pixaccel

import (
	"github.com/gogpu/pixaccel/gpucore"
	"github.com/gogpu/pixaccel/pixfmt"
)

// uploadPlan is the transfer strategy for one upload, computed once from
// the format descriptor and the screen capabilities.
type uploadPlan struct {
	// desc is what the GPU receives, after any CPU conversion.
	desc pixfmt.Descriptor
	// convert is the CPU conversion run before the GPU sees the data.
	convert pixfmt.Descriptor
	// convertFirst repacks the source on the CPU.
	convertFirst bool
	// textureOnly means a backing without a framebuffer suffices.
	textureOnly bool
	// flip means pixmap rows run opposite to framebuffer rows.
	flip bool
	// fast uploads straight into the backing texture.
	fast bool
}

// program is the finishing shader for the slow path.
func (pl uploadPlan) program() gpucore.Program {
	return gpucore.Program{NoAlpha: pl.desc.NoAlpha, Swap: pl.desc.Swap}
}

// texcoords selects the transient texture coordinates for the slow path.
func (pl uploadPlan) texcoords() gpucore.Quad {
	if pl.flip {
		return uploadFlipTexcoords
	}
	return uploadTexcoords
}

func planUpload(desc pixfmt.Descriptor, caps gpucore.Caps) uploadPlan {
	pl := uploadPlan{
		desc: desc,
		flip: !caps.YInverted,
	}
	pl.textureOnly = !desc.NoAlpha && !desc.Reformat.NeedsConversion() && !desc.Swap && !pl.flip

	if caps.Flavor == pixfmt.Embedded && desc.Reformat.NeedsConversion() {
		pl.convertFirst = true
		pl.convert = desc
		pl.desc.NoAlpha = false
		pl.desc.Reformat = pixfmt.ReformatNone
		pl.desc.Swap = false
	}
	pl.fast = !pl.desc.NoAlpha && !pl.desc.Reformat.NeedsConversion() && !pl.desc.Swap && !pl.flip
	return pl
}

// downloadPlan is the transfer strategy for one download.
type downloadPlan struct {
	desc pixfmt.Descriptor
	// postConvert repacks the read-back data on the CPU.
	postConvert bool
	// a1Intermediate stages a 1-bit read as one byte per pixel.
	a1Intermediate bool
	// prepare renders through a temporary framebuffer to normalize the
	// channel order before reading.
	prepare bool
	// direct reads rows in the wanted order; otherwise rows are reversed
	// through a temporary buffer.
	direct bool
	// invert asks the read for bottom-up packing.
	invert bool
}

func planDownload(desc pixfmt.Descriptor, caps gpucore.Caps, depth int) downloadPlan {
	pl := downloadPlan{
		desc:        desc,
		postConvert: desc.Reformat.NeedsConversion(),
		direct:      caps.PackInvert || caps.YInverted,
	}
	pl.a1Intermediate = pl.postConvert && depth == 1
	pl.prepare = caps.Flavor == pixfmt.Embedded && !pl.postConvert && desc.Swap
	pl.invert = pl.direct && !caps.YInverted
	return pl
}

// program is the finishing shader for the normalizing pass.
func (pl downloadPlan) program() gpucore.Program {
	return gpucore.Program{NoAlpha: pl.desc.NoAlpha, Swap: pl.desc.Swap}
}
