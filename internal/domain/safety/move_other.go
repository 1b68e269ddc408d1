//go:build !linux
// +build !linux

package safety

func moveNoReplace(src, dst string) error {
	return moveChecked(src, dst)
}
