package supplier

import (
	"context"
	"net"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/log"
)

const (
	dnsCacheSize       = 128
	dnsLookupTimeout   = 2 * time.Second
	DefaultDNSCacheTTL = 30 * time.Second
)

var _ netcore.AddressSupplier = &DNSSupplier{}

// DNSSupplier is a delegate resolver: it maps a configured hostname to the
// currently published A record, caching results in a TTL'd LRU so steady
// traffic does not hammer the resolver. On lookup failure it falls back to
// the unresolved hostname and lets the dialer take its chances.
type DNSSupplier struct {
	host   string
	port   int
	cache  *expirable.LRU[string, netcore.Address]
	lookup func(host string) ([]string, error)
}

func NewDNSSupplier(host string, port int, ttl time.Duration) *DNSSupplier {
	if ttl <= 0 {
		ttl = DefaultDNSCacheTTL
	}
	return &DNSSupplier{
		host:   host,
		port:   port,
		cache:  expirable.NewLRU[string, netcore.Address](dnsCacheSize, nil, ttl),
		lookup: defaultLookup,
	}
}

func (s *DNSSupplier) Get() netcore.Address {
	if addr, ok := s.cache.Get(s.host); ok {
		return addr
	}
	hosts, err := s.lookup(s.host)
	if err != nil || len(hosts) == 0 {
		log.Debugf("dns lookup %s failed:[%v]", s.host, err)
		return netcore.NewAddress(s.host, s.port)
	}
	addr := netcore.NewAddress(hosts[0], s.port)
	s.cache.Add(s.host, addr)
	return addr
}

func defaultLookup(host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dnsLookupTimeout)
	defer cancel()
	return net.DefaultResolver.LookupHost(ctx, host)
}
