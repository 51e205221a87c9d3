package macho

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/blacktop/go-macho/types"
)

// cmdSpec describes one load command of a synthetic image. name is only used by
// segment commands; every other command is 16 bytes of header plus padding.
type cmdSpec struct {
	cmd  types.LoadCmd
	name string
}

type image struct {
	order binary.ByteOrder
	is64  bool
	cpu   types.CPU
	cmds  []cmdSpec
}

func (img image) headerSize() int {
	if img.is64 {
		return types.FileHeaderSize64
	}
	return types.FileHeaderSize32
}

func putSegment32(b []byte, s types.Segment32, o binary.ByteOrder) {
	o.PutUint32(b[0:], uint32(s.LoadCmd))
	o.PutUint32(b[4:], s.Len)
	copy(b[8:24], s.Name[:])
	o.PutUint32(b[24:], s.Addr)
	o.PutUint32(b[28:], s.Memsz)
	o.PutUint32(b[32:], s.Offset)
	o.PutUint32(b[36:], s.Filesz)
	o.PutUint32(b[40:], uint32(s.Maxprot))
	o.PutUint32(b[44:], uint32(s.Prot))
	o.PutUint32(b[48:], s.Nsect)
	o.PutUint32(b[52:], uint32(s.Flag))
}

func putSegment64(b []byte, s types.Segment64, o binary.ByteOrder) {
	o.PutUint32(b[0:], uint32(s.LoadCmd))
	o.PutUint32(b[4:], s.Len)
	copy(b[8:24], s.Name[:])
	o.PutUint64(b[24:], s.Addr)
	o.PutUint64(b[32:], s.Memsz)
	o.PutUint64(b[40:], s.Offset)
	o.PutUint64(b[48:], s.Filesz)
	o.PutUint32(b[56:], uint32(s.Maxprot))
	o.PutUint32(b[60:], uint32(s.Prot))
	o.PutUint32(b[64:], s.Nsect)
	o.PutUint32(b[68:], uint32(s.Flag))
}

// putFileHeader writes h and returns the header bytes for its width.
func putFileHeader(h types.FileHeader, o binary.ByteOrder) []byte {
	b := make([]byte, types.FileHeaderSize64)
	n := h.Put(b, o)
	return b[:n]
}

func (img image) bytes() []byte {
	var body []byte
	for _, c := range img.cmds {
		switch c.cmd {
		case types.LC_SEGMENT:
			s := types.Segment32{LoadCmd: c.cmd, Len: segment32Size, Addr: 0x1000, Memsz: 0x1000, Nsect: 1}
			copy(s.Name[:], c.name)
			b := make([]byte, segment32Size)
			putSegment32(b, s, img.order)
			body = append(body, b...)
		case types.LC_SEGMENT_64:
			s := types.Segment64{LoadCmd: c.cmd, Len: segment64Size, Addr: 0x100000000, Memsz: 0x4000, Nsect: 2}
			copy(s.Name[:], c.name)
			b := make([]byte, segment64Size)
			putSegment64(b, s, img.order)
			body = append(body, b...)
		default:
			b := make([]byte, 16)
			l := LoadCmdHeader{Cmd: c.cmd, Len: 16}
			l.Put(b, img.order)
			body = append(body, b...)
		}
	}

	fh := types.FileHeader{
		Magic:        types.Magic32,
		CPU:          img.cpu,
		Type:         types.MH_EXECUTE,
		NCommands:    uint32(len(img.cmds)),
		SizeCommands: uint32(len(body)),
	}
	if img.is64 {
		fh.Magic = types.Magic64
	}
	return append(putFileHeader(fh, img.order), body...)
}

type fatSlice struct {
	cpu  types.CPU
	data []byte
}

// putFatHeader writes the magic and slice count of a fat archive.
func putFatHeader(b []byte, narch uint32, o binary.ByteOrder) {
	o.PutUint32(b[0:], uint32(types.MagicFat))
	o.PutUint32(b[4:], narch)
}

// fatFile lays out slices page aligned after a fat header written in order.
func fatFile(order binary.ByteOrder, slices ...fatSlice) []byte {
	const align = 0x1000
	out := make([]byte, align)
	putFatHeader(out, uint32(len(slices)), order)
	for i, s := range slices {
		b := out[fatHeaderSize+i*fatArchSize:]
		order.PutUint32(b[0:], uint32(s.cpu))
		order.PutUint32(b[8:], uint32(len(out)))
		order.PutUint32(b[12:], uint32(len(s.data)))
		order.PutUint32(b[16:], 12)
		padded := make([]byte, (len(s.data)+align-1)/align*align)
		copy(padded, s.data)
		out = append(out, padded...)
	}
	return out
}

// isSwapped reports whether data written in o needs swapping on this host.
func isSwapped(o binary.ByteOrder) bool {
	b := make([]byte, 4)
	o.PutUint32(b, 1)
	return hostOrder.Uint32(b) != 1
}

type countingReader struct {
	r     io.ReaderAt
	reads int
}

func (c *countingReader) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	return c.r.ReadAt(p, off)
}

func inspectLines(data []byte, conf *Config) (string, error) {
	var buf bytes.Buffer
	err := NewInspector(bytes.NewReader(data), NewLineWriter(&buf), conf).Inspect()
	return buf.String(), err
}
