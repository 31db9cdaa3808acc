package cpio

import "strings"

// normalizePath applies the path-safety policy to name: absolute paths
// and NUL bytes are rejected, and `.`/`..` components are resolved
// logically without touching the filesystem. Any resolution that would
// escape the extraction root fails with UnsafePath.
func normalizePath(name string) (string, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return "", newError(KindUnsafePath, "cpio: normalize path", name, nil)
	}
	if strings.HasPrefix(name, "/") {
		return "", newError(KindUnsafePath, "cpio: normalize path", name, nil)
	}

	parts := strings.Split(name, "/")
	var stack []string
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(stack) == 0 {
				return "", newError(KindUnsafePath, "cpio: normalize path", name, nil)
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, p)
		}
	}
	return strings.Join(stack, "/"), nil
}
