package macho

import (
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
)

// A Reader performs the offset addressed, fixed size reads the decoders are built
// on. It keeps no cursor: every read names its absolute offset.
type Reader struct {
	r        io.ReaderAt
	zeroFill bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithZeroFill makes short reads succeed with the missing bytes set to zero
// instead of failing with ErrTruncatedRead. I/O errors other than EOF are
// still returned.
func WithZeroFill() ReaderOption {
	return func(r *Reader) {
		r.zeroFill = true
	}
}

// NewReader returns a Reader over r.
func NewReader(r io.ReaderAt, opts ...ReaderOption) *Reader {
	rd := &Reader{r: r}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// ReadAt returns exactly size bytes starting at off.
func (r *Reader) ReadAt(off int64, size int) ([]byte, error) {
	dat := make([]byte, size)
	n, err := r.r.ReadAt(dat, off)
	if n == size {
		// io.ReaderAt may report io.EOF alongside a complete read
		return dat, nil
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read %d bytes at %#x: %w", size, off, err)
	}
	if r.zeroFill {
		log.WithFields(log.Fields{
			"offset": fmt.Sprintf("%#x", off),
			"want":   size,
			"got":    n,
		}).Debug("Zero filling short read")
		clear(dat[n:])
		return dat, nil
	}
	return nil, &FormatError{Off: off, Msg: fmt.Sprintf("need %d bytes, got %d", size, n), Err: ErrTruncatedRead}
}
