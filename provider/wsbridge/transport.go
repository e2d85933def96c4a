package wsbridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lnbridge/go-webln/provider"
)

// transport carries one WebLN call to a browser wallet and returns its raw
// JSON result. The Server is the only implementation; tests substitute it.
type transport interface {
	call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

var _ transport = (*Server)(nil)

func (s *Server) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	p := s.currentPeer()
	if p == nil {
		return nil, provider.Wrap(provider.KindUnavailable, ErrNoPeer, "no browser tab with webln connected to the bridge")
	}

	f, err := newCallFrame(method, params)
	if err != nil {
		return nil, provider.Wrap(provider.KindInvalidRequest, err, "encode request")
	}

	ch := p.expect(f.ID)
	defer p.forget(f.ID)

	if err := p.writeFrame(f); err != nil {
		if errors.Is(err, ErrPeerReplaced) || errors.Is(err, ErrPeerGone) || errors.Is(err, ErrServerClosed) {
			return nil, provider.Wrap(provider.KindUnavailable, err, err.Error())
		}
		return nil, provider.Wrap(provider.KindTransport, err, "send call to browser tab")
	}

	select {
	case res := <-ch:
		if res.Error != nil {
			return nil, res.Error.toProviderError(method)
		}
		return res.Result, nil
	case <-p.done:
		err := p.err()
		return nil, provider.Wrap(provider.KindUnavailable, err, err.Error())
	case <-ctx.Done():
		return nil, provider.Wrap(provider.KindOf(ctx.Err()), ctx.Err(), "waiting for browser wallet")
	}
}
