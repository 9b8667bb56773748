package source

import (
	"context"
	"net"
	"time"

	"github.com/statuswatch/statuswatch/pkg/types"
)

const dialTimeout = 5 * time.Second

// tcpChecker reports UP when a TCP connection to the endpoint succeeds.
type tcpChecker struct {
	endpoint string
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
}

func newTCP(endpoint string) *tcpChecker {
	d := &net.Dialer{Timeout: dialTimeout}
	return &tcpChecker{endpoint: endpoint, dial: d.DialContext}
}

func (c *tcpChecker) Check(ctx context.Context) types.Status {
	conn, err := c.dial(ctx, "tcp", c.endpoint)
	if err != nil {
		return types.StatusDown
	}
	conn.Close()
	return types.StatusUp
}
