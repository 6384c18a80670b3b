package netcore

import (
	"fmt"
	"net"
	"strconv"
)

// Address is an immutable (host, port) pair. It is comparable and is used
// as the map key everywhere a per-node value is tracked.
type Address struct {
	Host string
	Port int
}

func NewAddress(host string, port int) Address {
	return Address{Host: host, Port: port}
}

// ParseAddress parses "host:port".
func ParseAddress(s string) (Address, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{}, fmt.Errorf("address:%w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Address{}, fmt.Errorf("address:%w", err)
	}
	return Address{Host: host, Port: port}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func (a Address) IsZero() bool {
	return a.Host == "" && a.Port == 0
}
