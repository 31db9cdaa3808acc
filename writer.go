package cpio

import (
	"io"
	"io/fs"
	"os"
)

// Writer builds a CPIO archive by appending entries in order, then
// finishing with a trailer. It owns the underlying sink for the
// lifetime of construction.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	format Format

	offset int64

	curSize int64
	curLeft int64
	curSum  uint32
	wantCRC bool

	strict bool
	seen   map[linkKey]bool

	finished bool
}

// NewWriter constructs a Writer that emits format into w. The default
// format, when the zero Format is passed by a caller that means "use
// the default", is FormatNewASCII.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, seen: make(map[linkKey]bool)}
}

// SetStrict enables rejection of duplicate (dev, ino) entries on
// WriteHeader. Off by default, matching GNU cpio's passthrough behavior.
func (b *Writer) SetStrict(strict bool) { b.strict = strict }

func (b *Writer) codec() headerCodec {
	switch b.format {
	case FormatNewCRC:
		return newcCodec{crc: true}
	case FormatOldBinary:
		return oldBinCodec{}
	case FormatPortableASCII:
		return odcCodec{}
	default:
		return newcCodec{crc: false}
	}
}

func (b *Writer) write(p []byte) error {
	n, err := b.w.Write(p)
	b.offset += int64(n)
	if err != nil {
		return newError(KindIO, "cpio: write", "", err)
	}
	return nil
}

// WriteHeader writes h's header and name, readying the Writer to accept
// exactly h.Size bytes of body via Write. Callers must Write exactly
// h.Size bytes (or zero, for directories/devices/symlinks-via-body)
// before the next WriteHeader or Close.
func (b *Writer) WriteHeader(h *Header) error {
	if b.finished {
		return ErrFinished
	}
	if b.curLeft != 0 {
		return newError(KindSizeMismatch, "cpio: write header", h.Name, nil)
	}
	if b.strict && h.NLink > 1 {
		key := h.linkKey()
		if b.seen[key] {
			return newError(KindValueTooLarge, "cpio: write header", h.Name, nil)
		}
		b.seen[key] = true
	}

	nameBytes := append([]byte(h.Name), 0)
	codec := b.codec()

	var hdr []byte
	var err error
	switch c := codec.(type) {
	case newcCodec:
		hdr, err = c.encodeHeader(h, uint32(len(nameBytes)))
	case oldBinCodec:
		hdr, err = c.encodeHeader(h, uint32(len(nameBytes)))
	case odcCodec:
		hdr, err = c.encodeHeader(h, uint32(len(nameBytes)))
	}
	if err != nil {
		return err
	}

	if err := b.write(hdr); err != nil {
		return err
	}
	if err := b.write(nameBytes); err != nil {
		return err
	}
	if err := writePadding(b.w, int64(codec.headerLen())+int64(len(nameBytes)), codec.alignment()); err != nil {
		return err
	}
	b.offset += int64(padLen(int64(codec.headerLen())+int64(len(nameBytes)), codec.alignment()))

	b.curSize = h.Size
	b.curLeft = h.Size
	b.curSum = 0
	b.wantCRC = codec.format() == FormatNewCRC
	return nil
}

// Write streams body bytes for the entry most recently introduced by
// WriteHeader. Writing more than Size bytes, or finishing an entry
// (via the next WriteHeader or Close) having written fewer, is
// SizeMismatch.
func (b *Writer) Write(p []byte) (int, error) {
	if int64(len(p)) > b.curLeft {
		return 0, newError(KindSizeMismatch, "cpio: write body", "", nil)
	}
	wasLeft := b.curLeft
	if b.wantCRC {
		for _, c := range p {
			b.curSum += uint32(c)
		}
	}
	n, err := b.w.Write(p)
	b.offset += int64(n)
	b.curLeft -= int64(n)
	if err != nil {
		return n, newError(KindIO, "cpio: write body", "", err)
	}
	if b.curLeft == 0 && wasLeft > 0 {
		if err := writePadding(b.w, b.curSize, b.alignment()); err != nil {
			return n, err
		}
		b.offset += int64(padLen(b.curSize, b.alignment()))
	}
	return n, nil
}

func (b *Writer) alignment() int {
	switch b.format {
	case FormatOldBinary:
		return 2
	case FormatPortableASCII:
		return 1
	default:
		return 4
	}
}

// Checksum reports the running body checksum computed so far for the
// current entry; meaningful only under FormatNewCRC.
func (b *Writer) Checksum() uint32 { return b.curSum }

// AppendPath stats the filesystem object at path, writes the resulting
// header under name, and streams its contents: file bytes for regular
// files, the link target for symlinks, nothing for directories, devices,
// and fifos.
func (b *Writer) AppendPath(path, name string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return newError(KindIO, "cpio: append path", name, err)
	}
	h, err := StatHeader(name, info)
	if err != nil {
		return err
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return newError(KindIO, "cpio: append path", name, err)
		}
		h.Size = int64(len(target))
		if err := b.WriteHeader(h); err != nil {
			return err
		}
		_, err = b.Write([]byte(target))
		return err
	}

	if !info.Mode().IsRegular() {
		h.Size = 0
		return b.WriteHeader(h)
	}

	f, err := os.Open(path)
	if err != nil {
		return newError(KindIO, "cpio: append path", name, err)
	}
	defer f.Close()

	if b.format == FormatNewCRC {
		sum, err := sumFile(f)
		if err != nil {
			return newError(KindIO, "cpio: append path", name, err)
		}
		h.Checksum = sum
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return newError(KindIO, "cpio: append path", name, err)
		}
	}

	if err := b.WriteHeader(h); err != nil {
		return err
	}
	buf := make([]byte, 32*1024)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := b.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return newError(KindIO, "cpio: append path", name, rerr)
		}
	}
}

func sumFile(f *os.File) (uint32, error) {
	buf := make([]byte, 32*1024)
	var sum uint32
	for {
		n, err := f.Read(buf)
		for _, c := range buf[:n] {
			sum += uint32(c)
		}
		if err == io.EOF {
			return sum, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Close emits the trailer entry and refuses further appends.
func (b *Writer) Close() error {
	if b.finished {
		return nil
	}
	if b.curLeft != 0 {
		return newError(KindSizeMismatch, "cpio: close", "", nil)
	}
	trailer := &Header{Name: Trailer, NLink: 1}
	if err := b.WriteHeader(trailer); err != nil {
		return err
	}
	b.finished = true
	return nil
}
