package macho

import (
	"fmt"
	"io"
)

// A Handler receives decoded records in file traversal order: a header, then
// that image's segments, then the next image's header.
type Handler interface {
	HandleHeader(*Header) error
	HandleSegment(*Segment) error
}

// sinkError marks a failure of the Handler rather than of the file being
// decoded; it stops the whole inspection.
type sinkError struct{ err error }

func (e *sinkError) Error() string { return e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

// LineWriter prints one line per header (the cpu name) and one per segment
// (`segname: <name>`).
type LineWriter struct {
	w io.Writer
	// CPUColor and NameColor decorate the cpu and segment names when set.
	CPUColor  func(a ...any) string
	NameColor func(a ...any) string
}

// NewLineWriter returns a LineWriter printing to w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

func (lw *LineWriter) HandleHeader(h *Header) error {
	name := CPUName(h.CPU)
	if lw.CPUColor != nil {
		name = lw.CPUColor(name)
	}
	_, err := fmt.Fprintln(lw.w, name)
	return err
}

func (lw *LineWriter) HandleSegment(s *Segment) error {
	name := s.Name
	if lw.NameColor != nil {
		name = lw.NameColor(name)
	}
	_, err := fmt.Fprintf(lw.w, "segname: %s\n", name)
	return err
}

// Image is the collected result for one thin image.
type Image struct {
	Offset   int64    `json:"offset"`
	CPU      string   `json:"cpu"`
	Segments []string `json:"segments"`
}

// Collector gathers decoded records into Images.
type Collector struct {
	Images []*Image `json:"images"`
}

func (c *Collector) HandleHeader(h *Header) error {
	c.Images = append(c.Images, &Image{
		Offset:   h.Offset,
		CPU:      CPUName(h.CPU),
		Segments: []string{},
	})
	return nil
}

func (c *Collector) HandleSegment(s *Segment) error {
	if len(c.Images) == 0 {
		return fmt.Errorf("segment %q handled before any header", s.Name)
	}
	img := c.Images[len(c.Images)-1]
	img.Segments = append(img.Segments, s.Name)
	return nil
}
