//go:build !linux

package sockets

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"oneshot/internal/shared/errors"
)

// listen 在非Linux系统上使用标准库监听。Go 在 unix 平台上默认设置 SO_REUSEADDR，
// backlog 由系统决定，创建与绑定失败无法区分，统一归为 bind。
func listen(host string, port int, backlog int) (*Listener, error) {
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return nil, errors.NewError(errors.KindBind, "ERROR on binding").Base(fmt.Errorf("not an IPv4 address: %q", host))
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp4", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	if err != nil {
		return nil, errors.NewError(errors.KindBind, "ERROR on binding").Base(err)
	}
	return &Listener{Listener: ln, Backlog: backlog, ReuseAddr: true}, nil
}
