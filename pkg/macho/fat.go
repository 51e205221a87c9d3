package macho

import (
	"fmt"

	"github.com/apex/log"
	gomacho "github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
)

// maxFatArches bounds the slice table so a corrupt count cannot drive millions
// of reads.
const maxFatArches = 256

func decodeFatArch(b []byte) gomacho.FatArchHeader {
	o := hostOrder
	return gomacho.FatArchHeader{
		CPU:    types.CPU(o.Uint32(b[0:])),
		SubCPU: types.CPUSubtype(o.Uint32(b[4:])),
		Offset: o.Uint32(b[8:]),
		Size:   o.Uint32(b[12:]),
		Align:  o.Uint32(b[16:]),
	}
}

// ReadFatArches reads the fat header at offset 0 and the slice table after it.
// info is the classification of the outer fat magic; entries follow its byte
// order, whatever the order of the images they point at. An empty table is not
// an error.
func ReadFatArches(r *Reader, info MagicInfo) ([]gomacho.FatArchHeader, error) {
	dat, err := r.ReadAt(0, fatHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read fat header: %w", err)
	}
	narch := hostOrder.Uint32(dat[4:])
	if info.Swap {
		narch = swap32(narch)
	}
	if narch == 0 {
		log.Debug("Fat header declares no images")
		return nil, nil
	}
	if narch > maxFatArches {
		return nil, &FormatError{Off: 4, Msg: fmt.Sprintf("%d images declared", narch), Err: ErrMalformedFatHeader}
	}

	arches := make([]gomacho.FatArchHeader, narch)
	for i := range arches {
		off := int64(fatHeaderSize + i*fatArchSize)
		dat, err := r.ReadAt(off, fatArchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read fat arch %d: %w", i, err)
		}
		arches[i] = decodeFatArch(dat)
		if info.Swap {
			swapFatArch(&arches[i])
		}
	}
	return arches, nil
}
