package cpio

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// StatHeader produces a metadata record for the filesystem object at
// path, as seen through info (typically from os.Lstat). Symlink targets
// are not read here; Writer.AppendPath reads the target itself and
// writes it as the entry body.
func StatHeader(path string, info fs.FileInfo) (*Header, error) {
	h := &Header{
		Name:    path,
		Mode:    uint32(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: info.ModTime().Unix(),
		NLink:   1,
	}
	switch {
	case info.Mode().IsDir():
		h.SetFileType(TypeDir)
		h.Size = 0
	case info.Mode()&fs.ModeSymlink != 0:
		h.SetFileType(TypeSymlink)
	case info.Mode()&fs.ModeNamedPipe != 0:
		h.SetFileType(TypeFIFO)
		h.Size = 0
	case info.Mode()&fs.ModeSocket != 0:
		h.SetFileType(TypeSocket)
		h.Size = 0
	case info.Mode()&fs.ModeDevice != 0:
		if info.Mode()&fs.ModeCharDevice != 0 {
			h.SetFileType(TypeCharDevice)
		} else {
			h.SetFileType(TypeBlockDevice)
		}
		h.Size = 0
	default:
		h.SetFileType(TypeRegular)
	}
	if info.Mode()&fs.ModeSticky != 0 {
		h.Mode |= 0o1000
	}
	if info.Mode()&fs.ModeSetgid != 0 {
		h.Mode |= 0o2000
	}
	if info.Mode()&fs.ModeSetuid != 0 {
		h.Mode |= 0o4000
	}
	populateStat(info, h)
	return h, nil
}

// Extractor applies archive entries to the filesystem rooted at Root,
// handling path-safety normalization, deferred mode/mtime application,
// and hard-link reconstruction.
type Extractor struct {
	Root string

	links     *linkTable
	dirFixups []dirFixup
}

type dirFixup struct {
	path    string
	mode    fs.FileMode
	modTime int64
}

// NewExtractor returns an Extractor rooted at root.
func NewExtractor(root string) *Extractor {
	return &Extractor{Root: root, links: newLinkTable()}
}

// Extract materializes one entry. body is consumed fully by Extract
// when h describes a regular file or symlink; it may be nil otherwise.
func (e *Extractor) Extract(h *Header, body io.Reader) error {
	rel, err := normalizePath(h.Name)
	if err != nil {
		return err
	}
	full := filepath.Join(e.Root, rel)

	switch h.FileType() {
	case TypeDir:
		if err := os.MkdirAll(full, 0o755); err != nil {
			return newError(KindIO, "cpio: extract", h.Name, err)
		}
		e.dirFixups = append(e.dirFixups, dirFixup{full, h.FileMode(), h.ModTime})
		return nil

	case TypeSymlink:
		target, err := io.ReadAll(body)
		if err != nil {
			return newError(KindIO, "cpio: extract", h.Name, err)
		}
		if err := os.RemoveAll(full); err != nil {
			return newError(KindIO, "cpio: extract", h.Name, err)
		}
		if err := os.Symlink(string(target), full); err != nil {
			return newError(KindIO, "cpio: extract", h.Name, err)
		}
		return lchownPath(full, h)

	case TypeRegular:
		return e.extractRegular(h, full, body)

	case TypeCharDevice, TypeBlockDevice, TypeFIFO, TypeSocket:
		if err := mknodeAt(full, h); err != nil {
			return err
		}
		return lchownPath(full, h)

	default:
		return newError(KindInvalidField, "cpio: extract", h.Name, nil)
	}
}

// extractRegular implements the hard-link reconstruction protocol: an
// nlink>1 member with file_size==0 is deferred until a body-carrying
// member resolves the group.
func (e *Extractor) extractRegular(h *Header, full string, body io.Reader) error {
	key := h.linkKey()
	grouped := h.NLink > 1

	if grouped && h.Size == 0 {
		if target, ok := e.links.target(key); ok {
			if err := os.RemoveAll(full); err != nil {
				return newError(KindIO, "cpio: extract", h.Name, err)
			}
			if err := os.Link(target, full); err != nil {
				return newError(KindIO, "cpio: extract", h.Name, err)
			}
			return nil
		}
		e.links.addPending(key, full)
		return nil
	}

	if err := writeRegular(full, h, body); err != nil {
		return err
	}
	if grouped {
		for _, path := range e.links.resolve(key, full) {
			if err := os.RemoveAll(path); err != nil {
				return newError(KindIO, "cpio: extract", h.Name, err)
			}
			if err := os.Link(full, path); err != nil {
				return newError(KindIO, "cpio: extract", h.Name, err)
			}
		}
	}
	return nil
}

func writeRegular(full string, h *Header, body io.Reader) error {
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return newError(KindIO, "cpio: extract", h.Name, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return newError(KindIO, "cpio: extract", h.Name, err)
	}
	if err := f.Close(); err != nil {
		return newError(KindIO, "cpio: extract", h.Name, err)
	}
	if err := os.Chmod(full, h.FileMode().Perm()); err != nil {
		return newError(KindIO, "cpio: extract", h.Name, err)
	}
	if err := lchownPath(full, h); err != nil {
		return err
	}
	return lutimesPath(full, h)
}

// Finish applies deferred directory mode/mtime fixups, deepest paths
// first so that a child's chmod/utimes runs before its parent's, and
// reports DanglingHardLink if any hard-link group was never resolved.
func (e *Extractor) Finish() error {
	sort.Slice(e.dirFixups, func(i, j int) bool {
		return len(e.dirFixups[i].path) > len(e.dirFixups[j].path)
	})
	for _, fx := range e.dirFixups {
		if err := os.Chmod(fx.path, fx.mode.Perm()); err != nil {
			return newError(KindIO, "cpio: fix up directory", fx.path, err)
		}
		if err := lutimesPathRaw(fx.path, fx.modTime); err != nil {
			return err
		}
	}
	if dangling := e.links.dangling(); len(dangling) > 0 {
		return ErrDanglingHardLink
	}
	return nil
}
