package transport

import (
	"context"

	"github.com/melih-ucgun/shopsnap/internal/config"
	"github.com/melih-ucgun/shopsnap/internal/core"
)

// Localhost is the host name that selects the local transport.
const Localhost = "localhost"

// New returns the transport for hostName: local for Localhost, SSH for a host
// defined in cfg.
func New(ctx context.Context, cfg *config.Config, hostName string) (core.Transport, error) {
	if hostName == "" || hostName == Localhost {
		return core.NewLocalTransport(), nil
	}
	host, err := cfg.FindHost(hostName)
	if err != nil {
		return nil, err
	}
	return NewSSHTransport(ctx, *host)
}
