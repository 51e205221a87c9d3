package macho

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/apex/log"
	"github.com/blacktop/go-macho/types"
)

// A LoadCmdHeader is the command tag and total size every load command starts
// with. Len includes the header itself. go-macho only embeds this pair inside
// its per-command structs.
type LoadCmdHeader struct {
	Cmd types.LoadCmd
	Len uint32
}

func (l *LoadCmdHeader) decode(b []byte) {
	l.Cmd = types.LoadCmd(hostOrder.Uint32(b[0:]))
	l.Len = hostOrder.Uint32(b[4:])
}

func (l *LoadCmdHeader) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[0:], uint32(l.Cmd))
	o.PutUint32(b[4:], l.Len)
	return loadCmdHeaderSize
}

func swapCmd(c types.LoadCmd) types.LoadCmd { return types.LoadCmd(swap32(uint32(c))) }

// A Load is one entry of a load command table.
type Load struct {
	LoadCmdHeader
	Index  uint32
	Offset int64 // absolute offset of the command
}

// Loads yields the ncmd load commands starting at off, in table order. A
// command shorter than its own header is yielded with an
// ErrMalformedLoadCommand error and ends the sequence, as does a failed read.
func Loads(r *Reader, off int64, swap bool, ncmd uint32) iter.Seq2[Load, error] {
	return func(yield func(Load, error) bool) {
		cur := off
		for i := uint32(0); i < ncmd; i++ {
			dat, err := r.ReadAt(cur, loadCmdHeaderSize)
			if err != nil {
				yield(Load{Index: i, Offset: cur}, fmt.Errorf("failed to read load command %d: %w", i, err))
				return
			}
			l := Load{Index: i, Offset: cur}
			l.decode(dat)
			if swap {
				swapLoadCmdHeader(&l.LoadCmdHeader)
			}
			if l.Len < loadCmdHeaderSize {
				yield(l, &FormatError{
					Off: cur,
					Msg: fmt.Sprintf("load command %d (%s) has size %d", i, l.Cmd, l.Len),
					Err: ErrMalformedLoadCommand,
				})
				return
			}
			if !yield(l, nil) {
				return
			}
			cur += int64(l.Len)
		}
	}
}

// Walk visits the load commands of hdr, passing every segment command to h.
// Other commands are skipped without reading their payload. Once all NCommands
// commands have been visited their sizes must add up to SizeCommands; a mismatch is
// returned as an ErrMalformedLoadCommand after the segments were handed out.
func Walk(r *Reader, hdr *Header, h Handler) error {
	var total uint64
	for l, err := range Loads(r, hdr.LoadsOffset, hdr.Swapped, hdr.NCommands) {
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"index":  l.Index,
			"cmd":    l.Cmd.String(),
			"size":   l.Len,
			"offset": fmt.Sprintf("%#x", l.Offset),
		}).Debug("Load command")
		total += uint64(l.Len)

		var width int
		switch l.Cmd {
		case types.LC_SEGMENT:
			width = 32
		case types.LC_SEGMENT_64:
			width = 64
		default:
			continue
		}
		seg, err := ReadSegment(r, l.Offset, width, hdr.Swapped)
		if err != nil {
			return err
		}
		if err := h.HandleSegment(seg); err != nil {
			return &sinkError{err}
		}
	}

	if total != uint64(hdr.SizeCommands) {
		return &FormatError{
			Off: hdr.LoadsOffset + int64(total),
			Msg: fmt.Sprintf("%d load commands use %d bytes, header declares %d", hdr.NCommands, total, hdr.SizeCommands),
			Err: ErrMalformedLoadCommand,
		}
	}
	return nil
}
