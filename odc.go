package cpio

// Portable ASCII ("odc") header layout: 6-byte magic followed by octal
// ASCII fields, 76 bytes total, no padding anywhere in the format.
//
//	magic(6) dev(6) ino(6) mode(6) uid(6) gid(6) nlink(6) rdev(6)
//	mtime(11) namesize(6) filesize(11)
const (
	odcMagic      = "070707"
	odcHeaderLen  = 76
	odcAlign      = 1 // no padding
	odcFieldLen6  = 6
	odcFieldLen11 = 11
	odcMax6       = 0o777777
	odcMax11      = 0o77777777777
)

type odcCodec struct{}

func (c odcCodec) format() Format { return FormatPortableASCII }
func (c odcCodec) headerLen() int { return odcHeaderLen }
func (c odcCodec) alignment() int { return odcAlign }

func decodeOctal(b []byte) (uint64, error) {
	var v uint64
	for _, c := range b {
		if c < '0' || c > '7' {
			return 0, errInvalidOctal
		}
		v = v<<3 | uint64(c-'0')
	}
	return v, nil
}

func encodeOctal(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = '0' + byte(v&0x7)
		v >>= 3
	}
}

var errInvalidOctal = &Error{Kind: KindInvalidField}

// decodeRest parses the 70 bytes that follow the magic. odc packs dev and
// rdev as single fields rather than split major/minor; they are mapped
// onto DevMajor/RDevMajor with the minor halves left zero, matching the
// convention used for devices that fit in a single octal word.
func (c odcCodec) decodeRest(rest []byte) (*Header, uint32, error) {
	if len(rest) != odcHeaderLen-6 {
		return nil, 0, newError(KindTruncated, "cpio: decode header", "", nil)
	}
	off := 0
	next6 := func() (uint64, error) {
		v, err := decodeOctal(rest[off : off+odcFieldLen6])
		off += odcFieldLen6
		return v, err
	}
	next11 := func() (uint64, error) {
		v, err := decodeOctal(rest[off : off+odcFieldLen11])
		off += odcFieldLen11
		return v, err
	}

	dev, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	ino, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	mode, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	uid, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	gid, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	nlink, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	rdev, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	mtime, err := next11()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	nameSize, err := next6()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}
	fileSize, err := next11()
	if err != nil {
		return nil, 0, newError(KindInvalidField, "cpio: decode header", "", err)
	}

	h := &Header{
		Ino:       uint32(ino),
		Mode:      uint32(mode),
		UID:       uint32(uid),
		GID:       uint32(gid),
		NLink:     uint32(nlink),
		ModTime:   int64(mtime),
		Size:      int64(fileSize),
		DevMajor:  uint32(dev),
		RDevMajor: uint32(rdev),
	}
	return h, uint32(nameSize), nil
}

func (c odcCodec) encodeHeader(h *Header, nameSize uint32) ([]byte, error) {
	if h.Size < 0 || uint64(h.Size) > odcMax11 {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}
	if h.ModTime < 0 || uint64(h.ModTime) > odcMax11 {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}
	for _, v := range []uint32{uint32(h.DevMajor), uint32(h.Ino), h.Mode, h.UID, h.GID, h.NLink, h.RDevMajor} {
		if uint64(v) > odcMax6 {
			return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
		}
	}
	if uint64(nameSize) > odcMax6 {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}

	buf := make([]byte, odcHeaderLen)
	copy(buf[0:6], odcMagic)
	off := 6
	put6 := func(v uint64) {
		encodeOctal(buf[off:off+odcFieldLen6], v)
		off += odcFieldLen6
	}
	put11 := func(v uint64) {
		encodeOctal(buf[off:off+odcFieldLen11], v)
		off += odcFieldLen11
	}

	put6(uint64(h.DevMajor))
	put6(uint64(h.Ino))
	put6(uint64(h.Mode))
	put6(uint64(h.UID))
	put6(uint64(h.GID))
	put6(uint64(h.NLink))
	put6(uint64(h.RDevMajor))
	put11(uint64(h.ModTime))
	put6(uint64(nameSize))
	put11(uint64(h.Size))

	return buf, nil
}
