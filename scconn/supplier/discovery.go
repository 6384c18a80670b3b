package supplier

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/sjy-dv/scconn/scconn/netcore"
	"github.com/sjy-dv/scconn/scconn/pkg/log"
)

// DefaultDiscoveryMethod is the full method name of the topology endpoint.
// The reply is a google.protobuf.StringValue holding "host:port".
const DefaultDiscoveryMethod = "/scconn.discovery.Topology/Endpoint"

const discoveryCallTimeout = 2 * time.Second

var _ netcore.AddressSupplier = &DiscoverySupplier{}

// DiscoverySupplier is a delegate resolver backed by a topology/discovery
// gRPC service. Every Get asks the service for the node currently serving
// the client's slot of the keyspace; the fallback address is returned when
// the service is unreachable, keeping Get total.
type DiscoverySupplier struct {
	conn     *grpc.ClientConn
	method   string
	fallback netcore.Address
}

// NewDiscoverySupplier connects to the discovery service at discoveryAddr.
// The connection is lazy; dial errors surface on the first call.
func NewDiscoverySupplier(discoveryAddr string, fallback netcore.Address) (*DiscoverySupplier, error) {
	conn, err := grpc.Dial(discoveryAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &DiscoverySupplier{
		conn:     conn,
		method:   DefaultDiscoveryMethod,
		fallback: fallback,
	}, nil
}

func (s *DiscoverySupplier) Get() netcore.Address {
	ctx, cancel := context.WithTimeout(context.Background(), discoveryCallTimeout)
	defer cancel()
	reply := &wrapperspb.StringValue{}
	if err := s.conn.Invoke(ctx, s.method, &emptypb.Empty{}, reply); err != nil {
		log.Debugf("discovery endpoint call failed:[%v]", err)
		return s.fallback
	}
	addr, err := netcore.ParseAddress(reply.GetValue())
	if err != nil {
		log.Warnf("discovery returned bad address %q:[%v]", reply.GetValue(), err)
		return s.fallback
	}
	return addr
}

func (s *DiscoverySupplier) Close() error {
	return s.conn.Close()
}
