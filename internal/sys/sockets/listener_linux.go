//go:build linux

package sockets

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"oneshot/internal/shared/errors"
	"oneshot/internal/shared/logger"
)

// listen builds the socket step by step so that creation, bind and listen
// fail with distinct kinds and the backlog is exactly the one requested.
func listen(host string, port int, backlog int) (*Listener, error) {
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return nil, errors.NewError(errors.KindBind, "ERROR on binding").Base(fmt.Errorf("not an IPv4 address: %q", host))
	}
	if port < 0 || port > 65535 {
		return nil, errors.NewError(errors.KindBind, "ERROR on binding").Base(fmt.Errorf("port out of range: %d", port))
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, errors.NewError(errors.KindResourceCreation, "ERROR opening socket").Base(err)
	}

	reuse := true
	if err := setReuseAddr(fd); err != nil {
		// bind may still succeed; the only cost is TIME_WAIT conflicts.
		reuse = false
		logger.Warn().Err(err).Msgf("continuing without address reuse")
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, errors.NewError(errors.KindBind, "ERROR on binding").Base(err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, errors.NewError(errors.KindListen, "ERROR on listen").Base(err)
	}

	// net.FileListener dups the descriptor, so the file is closed either way.
	file := os.NewFile(uintptr(fd), fmt.Sprintf("tcp4-listener-%s-%d", host, port))
	ln, err := net.FileListener(file)
	file.Close()
	if err != nil {
		return nil, errors.NewError(errors.KindListen, "ERROR on listen").Base(err)
	}

	return &Listener{Listener: ln, Backlog: backlog, ReuseAddr: reuse}, nil
}

func setReuseAddr(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return errors.NewError(errors.KindResourceCreation, "failed to set SO_REUSEADDR").Base(err)
	}
	return nil
}
