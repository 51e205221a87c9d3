package macho

import (
	"fmt"

	"github.com/blacktop/go-macho/types"
)

// decodeFileHeader fills a go-macho FileHeader field by field from the raw header
// bytes. The 64-bit reserved word is not kept.
func decodeFileHeader(b []byte) types.FileHeader {
	o := hostOrder
	return types.FileHeader{
		Magic:        types.Magic(o.Uint32(b[0:])),
		CPU:          types.CPU(o.Uint32(b[4:])),
		SubCPU:       types.CPUSubtype(o.Uint32(b[8:])),
		Type:         types.HeaderType(o.Uint32(b[12:])),
		NCommands:    o.Uint32(b[16:]),
		SizeCommands: o.Uint32(b[20:]),
		Flags:        types.HeaderFlag(o.Uint32(b[24:])),
	}
}

// A Header is a decoded thin image header and where its load commands start.
type Header struct {
	types.FileHeader
	Offset      int64 // absolute offset of the header
	LoadsOffset int64 // absolute offset of the first load command
	Width       int
	Swapped     bool
}

func (h *Header) String() string {
	return fmt.Sprintf(
		"Magic         = %s\n"+
			"Type          = %s\n"+
			"CPU           = %s\n"+
			"Commands      = %d (Size: %d)\n",
		MagicName(h.Magic),
		h.Type,
		CPUName(h.CPU),
		h.NCommands,
		h.SizeCommands,
	)
}

// ReadHeader decodes the thin header at off, whose magic has already been
// classified as info.
func ReadHeader(r *Reader, off int64, info MagicInfo) (*Header, error) {
	size := info.HeaderSize()
	dat, err := r.ReadAt(off, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read mach header: %w", err)
	}
	h := &Header{
		FileHeader:  decodeFileHeader(dat),
		Offset:      off,
		LoadsOffset: off + int64(size),
		Width:       info.Width,
		Swapped:     info.Swap,
	}
	if info.Swap {
		swapFileHeader(&h.FileHeader)
	}
	return h, nil
}
