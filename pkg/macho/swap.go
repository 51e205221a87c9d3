package macho

import (
	"math/bits"

	gomacho "github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
)

// The swap functions reverse the byte order of every integer field of a freshly
// decoded structure. Fixed size name buffers are left alone. Swapping twice
// gives back the original value.

func swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }
func swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

func swapCmd(c types.LoadCmd) types.LoadCmd { return types.LoadCmd(swap32(uint32(c))) }

func swapProt(p types.VmProtection) types.VmProtection {
	return types.VmProtection(swap32(uint32(p)))
}

func swapFatArch(a *gomacho.FatArchHeader) {
	a.CPU = types.CPU(swap32(uint32(a.CPU)))
	a.SubCPU = types.CPUSubtype(swap32(uint32(a.SubCPU)))
	a.Offset = swap32(a.Offset)
	a.Size = swap32(a.Size)
	a.Align = swap32(a.Align)
}

func swapFileHeader(h *types.FileHeader) {
	h.Magic = types.Magic(swap32(uint32(h.Magic)))
	h.CPU = types.CPU(swap32(uint32(h.CPU)))
	h.SubCPU = types.CPUSubtype(swap32(uint32(h.SubCPU)))
	h.Type = types.HeaderType(swap32(uint32(h.Type)))
	h.NCommands = swap32(h.NCommands)
	h.SizeCommands = swap32(h.SizeCommands)
	h.Flags = types.HeaderFlag(swap32(uint32(h.Flags)))
}

func swapLoadCmdHeader(l *LoadCmdHeader) {
	l.Cmd = swapCmd(l.Cmd)
	l.Len = swap32(l.Len)
}

func swapSegment32(s *types.Segment32) {
	s.LoadCmd = swapCmd(s.LoadCmd)
	s.Len = swap32(s.Len)
	s.Addr = swap32(s.Addr)
	s.Memsz = swap32(s.Memsz)
	s.Offset = swap32(s.Offset)
	s.Filesz = swap32(s.Filesz)
	s.Maxprot = swapProt(s.Maxprot)
	s.Prot = swapProt(s.Prot)
	s.Nsect = swap32(s.Nsect)
	s.Flag = types.SegFlag(swap32(uint32(s.Flag)))
}

func swapSegment64(s *types.Segment64) {
	s.LoadCmd = swapCmd(s.LoadCmd)
	s.Len = swap32(s.Len)
	s.Addr = swap64(s.Addr)
	s.Memsz = swap64(s.Memsz)
	s.Offset = swap64(s.Offset)
	s.Filesz = swap64(s.Filesz)
	s.Maxprot = swapProt(s.Maxprot)
	s.Prot = swapProt(s.Prot)
	s.Nsect = swap32(s.Nsect)
	s.Flag = types.SegFlag(swap32(uint32(s.Flag)))
}
