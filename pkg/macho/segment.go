package macho

import (
	"fmt"
	"strings"

	"github.com/blacktop/go-macho/types"
)

func decodeSegment32(b []byte) types.Segment32 {
	o := hostOrder
	s := types.Segment32{
		LoadCmd: types.LoadCmd(o.Uint32(b[0:])),
		Len:     o.Uint32(b[4:]),
		Addr:    o.Uint32(b[24:]),
		Memsz:   o.Uint32(b[28:]),
		Offset:  o.Uint32(b[32:]),
		Filesz:  o.Uint32(b[36:]),
		Maxprot: types.VmProtection(o.Uint32(b[40:])),
		Prot:    types.VmProtection(o.Uint32(b[44:])),
		Nsect:   o.Uint32(b[48:]),
		Flag:    types.SegFlag(o.Uint32(b[52:])),
	}
	copy(s.Name[:], b[8:24])
	return s
}

func decodeSegment64(b []byte) types.Segment64 {
	o := hostOrder
	s := types.Segment64{
		LoadCmd: types.LoadCmd(o.Uint32(b[0:])),
		Len:     o.Uint32(b[4:]),
		Addr:    o.Uint64(b[24:]),
		Memsz:   o.Uint64(b[32:]),
		Offset:  o.Uint64(b[40:]),
		Filesz:  o.Uint64(b[48:]),
		Maxprot: types.VmProtection(o.Uint32(b[56:])),
		Prot:    types.VmProtection(o.Uint32(b[60:])),
		Nsect:   o.Uint32(b[64:]),
		Flag:    types.SegFlag(o.Uint32(b[68:])),
	}
	copy(s.Name[:], b[8:24])
	return s
}

// A Segment is a decoded segment command of either width.
type Segment struct {
	Name    string
	Addr    uint64
	Memsz   uint64
	Offset  uint64
	Filesz  uint64
	Maxprot uint32
	Prot    uint32
	Nsect   uint32
	Flag    uint32
}

// segName trims the trailing NUL padding of a 16 byte segment name. A name using
// all 16 bytes has no terminator and is returned whole. Interior NULs are
// kept, so such a name is printed with its raw bytes.
func segName(name [16]byte) string {
	return strings.TrimRight(string(name[:]), "\x00")
}

// ReadSegment decodes the segment command at off. width selects the 32-bit or
// 64-bit layout.
func ReadSegment(r *Reader, off int64, width int, swap bool) (*Segment, error) {
	if width == 64 {
		dat, err := r.ReadAt(off, segment64Size)
		if err != nil {
			return nil, fmt.Errorf("failed to read segment_command_64: %w", err)
		}
		s := decodeSegment64(dat)
		if swap {
			swapSegment64(&s)
		}
		return &Segment{
			Name:    segName(s.Name),
			Addr:    s.Addr,
			Memsz:   s.Memsz,
			Offset:  s.Offset,
			Filesz:  s.Filesz,
			Maxprot: uint32(s.Maxprot),
			Prot:    uint32(s.Prot),
			Nsect:   s.Nsect,
			Flag:    uint32(s.Flag),
		}, nil
	}

	dat, err := r.ReadAt(off, segment32Size)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment_command: %w", err)
	}
	s := decodeSegment32(dat)
	if swap {
		swapSegment32(&s)
	}
	return &Segment{
		Name:    segName(s.Name),
		Addr:    uint64(s.Addr),
		Memsz:   uint64(s.Memsz),
		Offset:  uint64(s.Offset),
		Filesz:  uint64(s.Filesz),
		Maxprot: uint32(s.Maxprot),
		Prot:    uint32(s.Prot),
		Nsect:   s.Nsect,
		Flag:    uint32(s.Flag),
	}, nil
}
