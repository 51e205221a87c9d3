package macho

import (
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	gomacho "github.com/blacktop/go-macho"
	"github.com/dustin/go-humanize"
)

// Config controls an Inspector.
type Config struct {
	// ZeroFill zero fills short reads instead of failing with ErrTruncatedRead.
	ZeroFill bool
	// Arch limits a fat archive to the slices with this cpu name. Thin images
	// ignore it.
	Arch string
}

// An Inspector decodes one file and hands its headers and segments to a Handler.
type Inspector struct {
	r    *Reader
	h    Handler
	conf *Config
}

// NewInspector returns an Inspector reading from r. A nil conf is the zero
// Config.
func NewInspector(r io.ReaderAt, h Handler, conf *Config) *Inspector {
	if conf == nil {
		conf = &Config{}
	}
	var opts []ReaderOption
	if conf.ZeroFill {
		opts = append(opts, WithZeroFill())
	}
	return &Inspector{
		r:    NewReader(r, opts...),
		h:    h,
		conf: conf,
	}
}

// Inspect classifies the magic at offset 0 and decodes the thin image, or every
// slice of the fat archive in table order. A slice that fails to decode does not
// stop its siblings; all slice errors are joined in the returned error.
func (i *Inspector) Inspect() error {
	info, err := ReadMagic(i.r, 0)
	if err != nil {
		return err
	}
	log.WithField("magic", info.Magic.String()).Debug("Classified file")
	if info.Fat {
		return i.fat(info)
	}
	return i.thin(0, info)
}

func (i *Inspector) thin(off int64, info MagicInfo) error {
	hdr, err := ReadHeader(i.r, off, info)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"offset":  fmt.Sprintf("%#x", off),
		"type":    hdr.Type.String(),
		"ncmds":   hdr.NCommands,
		"swapped": hdr.Swapped,
	}).Debug("Mach header")
	if err := i.h.HandleHeader(hdr); err != nil {
		return &sinkError{err}
	}
	return Walk(i.r, hdr, i.h)
}

func (i *Inspector) fat(info MagicInfo) error {
	arches, err := ReadFatArches(i.r, info)
	if err != nil {
		return err
	}

	var errs []error
	for idx, arch := range arches {
		name := CPUName(arch.CPU)
		if i.conf.Arch != "" && name != i.conf.Arch {
			log.Debugf("Skipping %s slice %d", name, idx)
			continue
		}
		log.WithFields(log.Fields{
			"slice":  idx,
			"cpu":    name,
			"offset": fmt.Sprintf("%#x", arch.Offset),
			"size":   humanize.Bytes(uint64(arch.Size)),
		}).Debug("Decoding fat slice")
		if err := i.slice(arch); err != nil {
			var se *sinkError
			if errors.As(err, &se) {
				return se.err
			}
			errs = append(errs, fmt.Errorf("slice %d (%s): %w", idx, name, err))
		}
	}
	return errors.Join(errs...)
}

// slice classifies a fat slice on its own; its byte order need not match the
// fat header's.
func (i *Inspector) slice(arch gomacho.FatArchHeader) error {
	off := int64(arch.Offset)
	info, err := ReadMagic(i.r, off)
	if err != nil {
		return err
	}
	if info.Fat {
		return &FormatError{Off: off, Msg: "fat archive nested in a fat slice", Err: ErrUnrecognizedMagic}
	}
	return i.thin(off, info)
}
