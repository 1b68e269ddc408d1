//go:build unix

package filesystem

import (
	"os"
	"syscall"
)

func identityOf(path string, info os.FileInfo) fileID {
	if info != nil {
		if st, ok := info.Sys().(*syscall.Stat_t); ok && (st.Dev != 0 || st.Ino != 0) {
			return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}
		}
	}
	return fileID{path: path}
}
