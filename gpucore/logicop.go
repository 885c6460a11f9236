package gpucore

// LogicOp is a raster operation combining a source value with the
// destination. The numbering matches the X11 GX codes.
type LogicOp uint8

const (
	LogicClear LogicOp = iota
	LogicAnd
	LogicAndReverse
	LogicCopy
	LogicAndInverted
	LogicNoop
	LogicXor
	LogicOr
	LogicNor
	LogicEquiv
	LogicInvert
	LogicOrReverse
	LogicCopyInverted
	LogicOrInverted
	LogicNand
	LogicSet
)

// Apply combines s and d under op, restricted to mask.
func (op LogicOp) Apply(s, d, mask uint32) uint32 {
	var v uint32
	switch op {
	case LogicClear:
		v = 0
	case LogicAnd:
		v = s & d
	case LogicAndReverse:
		v = s &^ d
	case LogicCopy:
		v = s
	case LogicAndInverted:
		v = ^s & d
	case LogicNoop:
		v = d
	case LogicXor:
		v = s ^ d
	case LogicOr:
		v = s | d
	case LogicNor:
		v = ^(s | d)
	case LogicEquiv:
		v = ^(s ^ d)
	case LogicInvert:
		v = ^d
	case LogicOrReverse:
		v = s | ^d
	case LogicCopyInverted:
		v = ^s
	case LogicOrInverted:
		v = ^s | d
	case LogicNand:
		v = ^(s & d)
	case LogicSet:
		v = ^uint32(0)
	}
	return v & mask
}
