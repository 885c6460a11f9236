package pixfmt

import "fmt"

// Reformat selects a CPU-side repack between a GPU-native layout and a
// legacy layout the GPU API cannot transfer directly.
type Reformat uint8

const (
	ReformatNone Reformat = iota

	// ReformatDownloadA1 packs an 8-bit alpha buffer into a 1-bit mask.
	ReformatDownloadA1
	// ReformatUploadA1 expands a 1-bit mask into an 8-bit alpha buffer.
	ReformatUploadA1

	// ReformatDownload2101010 repacks 8-8-8-8 words (a24 b16 g8 r0) into
	// 2-10-10-10 words (a30 b20 g10 r0).
	ReformatDownload2101010
	// ReformatUpload2101010 is the inverse of ReformatDownload2101010.
	ReformatUpload2101010

	// ReformatDownload1555 repacks 5-5-5-1 words (r11 g6 b1 a0) into
	// 1-5-5-5 words (a15 b10 g5 r0).
	ReformatDownload1555
	// ReformatUpload1555 is the inverse of ReformatDownload1555.
	ReformatUpload1555
)

var reformatNames = [...]string{
	ReformatNone:            "none",
	ReformatDownloadA1:      "download-a1",
	ReformatUploadA1:        "upload-a1",
	ReformatDownload2101010: "download-2101010",
	ReformatUpload2101010:   "upload-2101010",
	ReformatDownload1555:    "download-1555",
	ReformatUpload1555:      "upload-1555",
}

func (r Reformat) String() string {
	if int(r) < len(reformatNames) {
		return reformatNames[r]
	}
	return fmt.Sprintf("Reformat(%d)", uint8(r))
}

// NeedsConversion reports whether r requires running the converter.
func (r Reformat) NeedsConversion() bool { return r != ReformatNone }

// IsUpload reports whether r converts legacy data for the GPU.
func (r Reformat) IsUpload() bool {
	return r == ReformatUploadA1 || r == ReformatUpload2101010 || r == ReformatUpload1555
}

// Inverse returns the mode converting in the opposite direction.
func (r Reformat) Inverse() Reformat {
	switch r {
	case ReformatDownloadA1:
		return ReformatUploadA1
	case ReformatUploadA1:
		return ReformatDownloadA1
	case ReformatDownload2101010:
		return ReformatUpload2101010
	case ReformatUpload2101010:
		return ReformatDownload2101010
	case ReformatDownload1555:
		return ReformatUpload1555
	case ReformatUpload1555:
		return ReformatDownload1555
	}
	return r
}

// forDirection maps a download-direction mode to the mode for dir.
func (r Reformat) forDirection(dir Direction) Reformat {
	if r == ReformatNone {
		return r
	}
	if (dir == Upload) != r.IsUpload() {
		return r.Inverse()
	}
	return r
}
