package macho

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/blacktop/go-macho/types"
)

func walkLines(t *testing.T, data []byte) (string, error) {
	t.Helper()
	r := NewReader(bytes.NewReader(data))
	info, err := ReadMagic(r, 0)
	if err != nil {
		t.Fatalf("ReadMagic() error = %v", err)
	}
	hdr, err := ReadHeader(r, 0, info)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	var buf bytes.Buffer
	err = Walk(r, hdr, NewLineWriter(&buf))
	return buf.String(), err
}

func TestWalkSegmentAmongOtherCommands(t *testing.T) {
	for _, o := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(o.String(), func(t *testing.T) {
			data := image{
				order: o,
				cpu:   types.CPU386,
				cmds: []cmdSpec{
					{cmd: types.LC_UUID},
					{cmd: types.LC_SEGMENT, name: "__TEXT"},
					{cmd: types.LC_SOURCE_VERSION},
				},
			}.bytes()

			got, err := walkLines(t, data)
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if want := "segname: __TEXT\n"; got != want {
				t.Errorf("Walk() output = %q, want %q", got, want)
			}
		})
	}
}

func TestWalkNoCommands(t *testing.T) {
	cr := &countingReader{r: bytes.NewReader(make([]byte, types.FileHeaderSize64))}
	hdr := &Header{LoadsOffset: types.FileHeaderSize64, Width: 64}

	var buf bytes.Buffer
	if err := Walk(NewReader(cr), hdr, NewLineWriter(&buf)); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Walk() output = %q, want none", buf.String())
	}
	if cr.reads != 0 {
		t.Errorf("Walk() made %d reads, want 0", cr.reads)
	}
}

func TestWalkSegmentNames(t *testing.T) {
	tests := []struct {
		name string
		seg  string
		want string
	}{
		{"padded", "__DATA", "segname: __DATA\n"},
		{"full width", "ABCDEFGHIJKLMNOP", "segname: ABCDEFGHIJKLMNOP\n"},
		{"inner nul", "__X\x00Y", "segname: __X\x00Y\n"},
		{"empty", "", "segname: \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := image{
				order: binary.LittleEndian,
				is64:  true,
				cpu:   types.CPUArm64,
				cmds:  []cmdSpec{{cmd: types.LC_SEGMENT_64, name: tt.seg}},
			}.bytes()
			got, err := walkLines(t, data)
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Walk() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalkRejectsUndersizedCommand(t *testing.T) {
	for _, size := range []uint32{0, 4} {
		img := image{
			order: binary.LittleEndian,
			is64:  true,
			cpu:   types.CPUAmd64,
			cmds: []cmdSpec{
				{cmd: types.LC_SEGMENT_64, name: "__PAGEZERO"},
				{cmd: types.LC_UUID},
				{cmd: types.LC_SEGMENT_64, name: "__TEXT"},
			},
		}
		data := img.bytes()
		bad := int64(types.FileHeaderSize64 + segment64Size)
		binary.LittleEndian.PutUint32(data[bad+4:], size)

		got, err := walkLines(t, data)
		if !errors.Is(err, ErrMalformedLoadCommand) {
			t.Fatalf("Walk(cmdsize=%d) error = %v, want ErrMalformedLoadCommand", size, err)
		}
		var fe *FormatError
		if !errors.As(err, &fe) || fe.Off != bad {
			t.Errorf("Walk(cmdsize=%d) error = %v, want offset %#x", size, err, bad)
		}
		if want := "segname: __PAGEZERO\n"; got != want {
			t.Errorf("Walk(cmdsize=%d) output = %q, want %q", size, got, want)
		}
	}
}

func TestWalkReportsSizeMismatch(t *testing.T) {
	data := image{
		order: binary.BigEndian,
		cpu:   types.CPUArm,
		cmds: []cmdSpec{
			{cmd: types.LC_SEGMENT, name: "__TEXT"},
			{cmd: types.LC_SEGMENT, name: "__DATA"},
		},
	}.bytes()
	// declare 8 more bytes of commands than are present
	binary.BigEndian.PutUint32(data[20:], 2*segment32Size+8)

	got, err := walkLines(t, data)
	if !errors.Is(err, ErrMalformedLoadCommand) {
		t.Fatalf("Walk() error = %v, want ErrMalformedLoadCommand", err)
	}
	var fe *FormatError
	if want := int64(types.FileHeaderSize32 + 2*segment32Size); !errors.As(err, &fe) || fe.Off != want {
		t.Errorf("Walk() error = %v, want offset %#x", err, want)
	}
	if want := "segname: __TEXT\nsegname: __DATA\n"; got != want {
		t.Errorf("Walk() output = %q, want %q", got, want)
	}
}

func TestWalkTruncatedSegment(t *testing.T) {
	data := image{
		order: binary.LittleEndian,
		is64:  true,
		cpu:   types.CPUArm64,
		cmds:  []cmdSpec{{cmd: types.LC_SEGMENT_64, name: "__TEXT"}},
	}.bytes()

	_, err := walkLines(t, data[:types.FileHeaderSize64+segment64Size-1])
	if !errors.Is(err, ErrTruncatedRead) {
		t.Fatalf("Walk() error = %v, want ErrTruncatedRead", err)
	}
}

func TestLoadsStopsWhenAsked(t *testing.T) {
	data := image{
		order: binary.LittleEndian,
		cpu:   types.CPU386,
		cmds: []cmdSpec{
			{cmd: types.LC_UUID},
			{cmd: types.LC_UUID},
			{cmd: types.LC_UUID},
		},
	}.bytes()
	cr := &countingReader{r: bytes.NewReader(data)}

	var seen []Load
	for l, err := range Loads(NewReader(cr), types.FileHeaderSize32, isSwapped(binary.LittleEndian), 3) {
		if err != nil {
			t.Fatalf("Loads() error = %v", err)
		}
		seen = append(seen, l)
		break
	}
	if len(seen) != 1 || seen[0].Offset != types.FileHeaderSize32 || seen[0].Cmd != types.LC_UUID {
		t.Errorf("Loads() yielded %+v", seen)
	}
	if cr.reads != 1 {
		t.Errorf("Loads() made %d reads, want 1", cr.reads)
	}
}
