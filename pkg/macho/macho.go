// Package macho decodes just enough of a Mach-O file, thin or fat, to report the
// CPU type of every image and the names of the segments it declares.
//
// Every structure is read into a byte buffer and decoded field by field at its
// on-disk offset, then byte swapped when the magic says the file was written in
// the opposite byte order.
package macho

import (
	"encoding/binary"
	"fmt"
)

// On-disk structure sizes.
const (
	fatHeaderSize     = 2 * 4
	fatArchSize       = 5 * 4
	loadCmdHeaderSize = 2 * 4
	segment32Size     = 2*4 + 16 + 8*4
	segment64Size     = 2*4 + 16 + 4*8 + 4*4
)

// hostOrder is the order raw fields are decoded in before any swap is applied.
var hostOrder binary.ByteOrder = binary.NativeEndian

type intName struct {
	i uint32
	s string
}

func stringName(i uint32, names []intName) string {
	for _, n := range names {
		if n.i == i {
			return n.s
		}
	}
	return fmt.Sprintf("%#x", i)
}
