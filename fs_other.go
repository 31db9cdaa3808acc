//go:build windows

package cpio

import "io/fs"

// populateStat is a no-op on platforms without POSIX stat fields;
// uid/gid/device numbers stay zero.
func populateStat(info fs.FileInfo, h *Header) {}

func mknodeAt(path string, h *Header) error {
	return newError(KindIO, "cpio: mknod", h.Name, ErrUnsupportedPlatform)
}

func lchownPath(path string, h *Header) error { return nil }

func lutimesPath(path string, h *Header) error { return lutimesPathRaw(path, h.ModTime) }

func lutimesPathRaw(path string, modTime int64) error { return nil }
