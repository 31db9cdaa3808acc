//go:build !windows

package cpio

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// populateStat fills in the fields StatHeader cannot derive from
// fs.FileInfo alone: ids, device numbers, link count, inode.
func populateStat(info fs.FileInfo, h *Header) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	h.UID = stat.Uid
	h.GID = stat.Gid
	h.NLink = uint32(stat.Nlink)
	h.Ino = uint32(stat.Ino)
	h.DevMajor = uint32(unix.Major(uint64(stat.Dev)))
	h.DevMinor = uint32(unix.Minor(uint64(stat.Dev)))
	if h.FileType() == TypeCharDevice || h.FileType() == TypeBlockDevice {
		h.RDevMajor = uint32(unix.Major(uint64(stat.Rdev)))
		h.RDevMinor = uint32(unix.Minor(uint64(stat.Rdev)))
	}
}

func mknodeAt(path string, h *Header) error {
	switch h.FileType() {
	case TypeFIFO:
		if err := unix.Mkfifo(path, h.Mode&0o7777); err != nil {
			return newError(KindIO, "cpio: mkfifo", h.Name, err)
		}
		return nil
	case TypeCharDevice, TypeBlockDevice, TypeSocket:
		mode := h.Mode
		dev := int(unix.Mkdev(h.RDevMajor, h.RDevMinor))
		if err := unix.Mknod(path, mode, dev); err != nil {
			return newError(KindIO, "cpio: mknod", h.Name, err)
		}
		return nil
	default:
		return newError(KindInvalidField, "cpio: mknod", h.Name, nil)
	}
}

func lchownPath(path string, h *Header) error {
	if err := unix.Lchown(path, int(h.UID), int(h.GID)); err != nil {
		return newError(KindIO, "cpio: lchown", h.Name, err)
	}
	return nil
}

func lutimesPath(path string, h *Header) error {
	return lutimesPathRaw(path, h.ModTime)
}

func lutimesPathRaw(path string, modTime int64) error {
	t := time.Unix(modTime, 0)
	tv := []unix.Timeval{
		unix.NsecToTimeval(t.UnixNano()),
		unix.NsecToTimeval(t.UnixNano()),
	}
	if err := unix.Lutimes(path, tv); err != nil {
		return newError(KindIO, "cpio: set times", path, err)
	}
	return nil
}
