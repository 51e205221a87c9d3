package macho

import (
	"fmt"

	"github.com/blacktop/go-macho/types"
)

// Byte swapped forms of the go-macho magics: what a host reads from a file
// written in the other byte order.
const (
	Cigam32  types.Magic = 0xcefaedfe
	Cigam64  types.Magic = 0xcffaedfe
	CigamFat types.Magic = 0xbebafeca
)

var magicNames = []intName{
	{uint32(types.Magic32), "32-bit MachO"},
	{uint32(Cigam32), "32-bit MachO (swapped)"},
	{uint32(types.Magic64), "64-bit MachO"},
	{uint32(Cigam64), "64-bit MachO (swapped)"},
	{uint32(types.MagicFat), "Fat MachO"},
	{uint32(CigamFat), "Fat MachO (swapped)"},
}

// MagicName describes m, including whether it was read byte swapped.
func MagicName(m types.Magic) string { return stringName(uint32(m), magicNames) }

// MagicInfo is what a magic number says about the bytes that follow it.
type MagicInfo struct {
	Magic types.Magic
	Width int  // 32 or 64
	Swap  bool // file byte order differs from the host's
	Fat   bool
}

// HeaderSize returns the size of the thin header that follows this magic.
func (i MagicInfo) HeaderSize() int {
	if i.Width == 64 {
		return types.FileHeaderSize64
	}
	return types.FileHeaderSize32
}

// Classify maps one of the six magic numbers to its word width, byte order and
// framing. Any other value wraps ErrUnrecognizedMagic.
func Classify(m types.Magic) (MagicInfo, error) {
	switch m {
	case types.Magic32:
		return MagicInfo{Magic: m, Width: 32}, nil
	case Cigam32:
		return MagicInfo{Magic: m, Width: 32, Swap: true}, nil
	case types.Magic64:
		return MagicInfo{Magic: m, Width: 64}, nil
	case Cigam64:
		return MagicInfo{Magic: m, Width: 64, Swap: true}, nil
	case types.MagicFat:
		return MagicInfo{Magic: m, Width: 32, Fat: true}, nil
	case CigamFat:
		return MagicInfo{Magic: m, Width: 32, Swap: true, Fat: true}, nil
	default:
		return MagicInfo{Magic: m}, fmt.Errorf("%w %#08x", ErrUnrecognizedMagic, uint32(m))
	}
}

// ReadMagic reads and classifies the magic number at off.
func ReadMagic(r *Reader, off int64) (MagicInfo, error) {
	dat, err := r.ReadAt(off, 4)
	if err != nil {
		return MagicInfo{}, err
	}
	m := types.Magic(hostOrder.Uint32(dat))
	info, err := Classify(m)
	if err != nil {
		return info, &FormatError{Off: off, Msg: fmt.Sprintf("%#08x", uint32(m)), Err: ErrUnrecognizedMagic}
	}
	return info, nil
}
