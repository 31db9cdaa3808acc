package cpio

import "io/fs"

// Format identifies one of the on-disk CPIO header encodings this
// package can read and write.
type Format int

const (
	// FormatNewASCII is the SVR4 "newc" format, magic 070701.
	FormatNewASCII Format = iota
	// FormatNewCRC is FormatNewASCII with a running body checksum, magic 070702.
	FormatNewCRC
	// FormatOldBinary is the original 16-bit binary format, magic 0o070707
	// (0x71C7, or 0xC771 when read with the opposite byte order).
	FormatOldBinary
	// FormatPortableASCII is the POSIX "odc" octal-ASCII format, magic 070707.
	FormatPortableASCII
)

func (f Format) String() string {
	switch f {
	case FormatNewASCII:
		return "newc"
	case FormatNewCRC:
		return "crc"
	case FormatOldBinary:
		return "bin"
	case FormatPortableASCII:
		return "odc"
	default:
		return "unknown"
	}
}

// Trailer is the sentinel name marking end-of-archive.
const Trailer = "TRAILER!!!"

// FileType classifies the kind of filesystem object an entry describes.
type FileType uint32

const (
	TypeRegular FileType = iota
	TypeDir
	TypeSymlink
	TypeCharDevice
	TypeBlockDevice
	TypeFIFO
	TypeSocket
	TypeUnknown
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDir:
		return "directory"
	case TypeSymlink:
		return "symlink"
	case TypeCharDevice:
		return "char device"
	case TypeBlockDevice:
		return "block device"
	case TypeFIFO:
		return "fifo"
	case TypeSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// modeTypeBits are the POSIX S_IFMT bits embedded in Header.Mode.
const (
	modeFmtMask   = 0170000
	modeFmtFIFO   = 0010000
	modeFmtChar   = 0020000
	modeFmtDir    = 0040000
	modeFmtBlock  = 0060000
	modeFmtReg    = 0100000
	modeFmtLink   = 0120000
	modeFmtSocket = 0140000
)

// fileTypeFromMode derives a FileType from the S_IFMT bits of a raw mode
// word, as decoded off the wire.
func fileTypeFromMode(mode uint32) FileType {
	switch mode & modeFmtMask {
	case modeFmtFIFO:
		return TypeFIFO
	case modeFmtChar:
		return TypeCharDevice
	case modeFmtDir:
		return TypeDir
	case modeFmtBlock:
		return TypeBlockDevice
	case modeFmtReg:
		return TypeRegular
	case modeFmtLink:
		return TypeSymlink
	case modeFmtSocket:
		return TypeSocket
	default:
		return TypeUnknown
	}
}

// modeFmtBitsFor returns the S_IFMT bits to OR into Mode for t, so that
// headers built programmatically (rather than decoded off the wire)
// still carry a type consistent with FileType.
func modeFmtBitsFor(t FileType) uint32 {
	switch t {
	case TypeFIFO:
		return modeFmtFIFO
	case TypeCharDevice:
		return modeFmtChar
	case TypeDir:
		return modeFmtDir
	case TypeBlockDevice:
		return modeFmtBlock
	case TypeRegular:
		return modeFmtReg
	case TypeSymlink:
		return modeFmtLink
	case TypeSocket:
		return modeFmtSocket
	default:
		return 0
	}
}

// Header is the normalized representation of a CPIO entry's metadata,
// carried between the format codec and callers of Reader/Writer,
// independent of which of the on-disk encodings produced or will
// consume it.
type Header struct {
	Name string

	Mode uint32 // full POSIX mode word: type bits + permission bits + setuid/setgid/sticky

	UID, GID uint32
	NLink    uint32
	ModTime  int64 // seconds since epoch

	Size int64

	DevMajor, DevMinor   uint32 // device containing the file; identifies hard-link groups together with Ino
	RDevMajor, RDevMinor uint32 // device node number; meaningful only for char/block devices

	Ino uint32

	Checksum uint32 // meaningful only when read/written as FormatNewCRC

	Linkname string // symlink target; not carried on the wire (the target travels as the body) and not set by StatHeader or Reader
}

// FileType reports the type encoded in Mode.
func (h *Header) FileType() FileType {
	return fileTypeFromMode(h.Mode)
}

// SetFileType clears any previous S_IFMT bits in Mode and sets those for t.
func (h *Header) SetFileType(t FileType) {
	h.Mode = (h.Mode &^ uint32(modeFmtMask)) | modeFmtBitsFor(t)
}

// Perm reports the permission bits (mode & 0o7777) of Mode.
func (h *Header) Perm() fs.FileMode {
	return fs.FileMode(h.Mode & 0o7777)
}

// FileMode converts Mode to an fs.FileMode, mapping CPIO's type bits to
// the corresponding fs.Mode* bits.
func (h *Header) FileMode() fs.FileMode {
	m := fs.FileMode(h.Mode & 0o7777)
	switch h.FileType() {
	case TypeDir:
		m |= fs.ModeDir
	case TypeSymlink:
		m |= fs.ModeSymlink
	case TypeCharDevice:
		m |= fs.ModeDevice | fs.ModeCharDevice
	case TypeBlockDevice:
		m |= fs.ModeDevice
	case TypeFIFO:
		m |= fs.ModeNamedPipe
	case TypeSocket:
		m |= fs.ModeSocket
	}
	if h.Mode&0o1000 != 0 {
		m |= fs.ModeSticky
	}
	if h.Mode&0o2000 != 0 {
		m |= fs.ModeSetgid
	}
	if h.Mode&0o4000 != 0 {
		m |= fs.ModeSetuid
	}
	return m
}

// linkKey identifies a hard-link group: entries sharing the same
// (dev_major, dev_minor, ino) triple refer to the same underlying inode.
type linkKey struct {
	major, minor, ino uint32
}

func (h *Header) linkKey() linkKey {
	return linkKey{h.DevMajor, h.DevMinor, h.Ino}
}
