//go:build !unix

package filesystem

import "os"

func identityOf(path string, _ os.FileInfo) fileID {
	return fileID{path: path}
}
