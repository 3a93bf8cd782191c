package device

import (
	"os"

	"golang.org/x/sys/unix"
)

// IOCtl はファイルに対して ioctl を発行する。
// Fd() はファイルをブロッキングモードに戻してしまうため SyscallConn 経由で呼び出す。
func IOCtl(f *os.File, cmd uintptr, arg uintptr) error {
	conn, err := f.SyscallConn()
	if err != nil {
		return err
	}

	var errno unix.Errno
	if err := conn.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, cmd, arg)
	}); err != nil {
		return err
	}
	if errno != 0 {
		return errno
	}
	return nil
}
