package cpio

// Old Binary header layout: 26 bytes of 16-bit words, little-endian
// unless the first two bytes decode as 0xC771 in which case every
// 16-bit field thereafter is byte-swapped.
//
//	magic(2) dev(2) ino(2) mode(2) uid(2) gid(2) nlink(2) rdev(2)
//	mtime_hi(2) mtime_lo(2) namesize(2) filesize_hi(2) filesize_lo(2)
const (
	oldBinMagic     = 0o070707 // 0x71C7, read little-endian
	oldBinMagicSwap = 0o143561 // 0xC771, byte-swapped reading of oldBinMagic
	oldBinHeaderLen = 26
	oldBinAlign     = 2
	oldBinNumWords  = 12 // words after magic: dev..filesize_lo
)

type oldBinCodec struct {
	swap bool
}

func (c oldBinCodec) format() Format { return FormatOldBinary }
func (c oldBinCodec) headerLen() int { return oldBinHeaderLen }
func (c oldBinCodec) alignment() int { return oldBinAlign }

func decodeU16(b []byte, swap bool) uint16 {
	if swap {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func encodeU16(dst []byte, v uint16, swap bool) {
	if swap {
		dst[0] = byte(v >> 8)
		dst[1] = byte(v)
	} else {
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
	}
}

// detectOldBinMagic reports whether the 2 magic bytes identify Old
// Binary, and if so whether the rest of the stream must be byte-swapped.
func detectOldBinMagic(b []byte) (isOldBin bool, swap bool) {
	le := uint16(b[1])<<8 | uint16(b[0])
	switch le {
	case oldBinMagic:
		return true, false
	case oldBinMagicSwap:
		return true, true
	default:
		return false, false
	}
}

// decodeRest parses the 24 bytes (12 words) that follow the magic.
func (c oldBinCodec) decodeRest(rest []byte) (*Header, uint32, error) {
	if len(rest) != oldBinHeaderLen-2 {
		return nil, 0, newError(KindTruncated, "cpio: decode header", "", nil)
	}
	words := make([]uint16, oldBinNumWords)
	for i := 0; i < oldBinNumWords; i++ {
		words[i] = decodeU16(rest[i*2:i*2+2], c.swap)
	}
	dev := words[0]
	ino := words[1]
	mode := words[2]
	uid := words[3]
	gid := words[4]
	nlink := words[5]
	rdev := words[6]
	mtimeHi := words[7]
	mtimeLo := words[8]
	nameSize := words[9]
	sizeHi := words[10]
	sizeLo := words[11]

	h := &Header{
		Ino:       uint32(ino),
		Mode:      uint32(mode),
		UID:       uint32(uid),
		GID:       uint32(gid),
		NLink:     uint32(nlink),
		ModTime:   int64(uint32(mtimeHi)<<16 | uint32(mtimeLo)),
		Size:      int64(uint32(sizeHi)<<16 | uint32(sizeLo)),
		DevMajor:  uint32(dev >> 8),
		DevMinor:  uint32(dev & 0xff),
		RDevMajor: uint32(rdev >> 8),
		RDevMinor: uint32(rdev & 0xff),
	}
	return h, uint32(nameSize), nil
}

func (c oldBinCodec) encodeHeader(h *Header, nameSize uint32) ([]byte, error) {
	if h.Size < 0 || h.Size > 0xffffffff { // two 16-bit words, reconstructed as (hi<<16)|lo
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}
	if h.Ino > 0xffff || h.Mode > 0xffff || h.UID > 0xffff || h.GID > 0xffff || h.NLink > 0xffff {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}
	if h.DevMajor > 0xff || h.DevMinor > 0xff || h.RDevMajor > 0xff || h.RDevMinor > 0xff {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}
	if nameSize > 0xffff {
		return nil, newError(KindValueTooLarge, "cpio: encode header", h.Name, nil)
	}

	dev := uint16(h.DevMajor)<<8 | uint16(h.DevMinor)
	rdev := uint16(h.RDevMajor)<<8 | uint16(h.RDevMinor)
	mtime := uint32(h.ModTime)
	size := uint64(h.Size)

	buf := make([]byte, oldBinHeaderLen)
	encodeU16(buf[0:2], uint16(oldBinMagic), c.swap)
	words := [oldBinNumWords]uint16{
		dev,
		uint16(h.Ino),
		uint16(h.Mode),
		uint16(h.UID),
		uint16(h.GID),
		uint16(h.NLink),
		rdev,
		uint16(mtime >> 16),
		uint16(mtime),
		uint16(nameSize),
		uint16(size >> 16),
		uint16(size),
	}
	for i, v := range words {
		encodeU16(buf[2+i*2:2+i*2+2], v, c.swap)
	}
	return buf, nil
}
