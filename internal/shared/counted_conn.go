package shared

import (
	"net"
	"sync/atomic"
)

// CountedConn 是一个 net.Conn 的包装器，按服务端视角统计收到和发出的字节数。
type CountedConn struct {
	net.Conn
	received *atomic.Uint64
	sent     *atomic.Uint64
}

// NewCountedConn wraps conn. Either counter may be shared with other owners.
func NewCountedConn(conn net.Conn, received, sent *atomic.Uint64) *CountedConn {
	return &CountedConn{
		Conn:     conn,
		received: received,
		sent:     sent,
	}
}

// Read 从底层连接读取数据，并增加接收计数。
func (c *CountedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.received.Add(uint64(n))
	}
	return n, err
}

// Write 将数据写入底层连接，并增加发送计数。
func (c *CountedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.sent.Add(uint64(n))
	}
	return n, err
}

func (c *CountedConn) Received() uint64 { return c.received.Load() }

func (c *CountedConn) Sent() uint64 { return c.sent.Load() }
