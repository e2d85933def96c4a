package nwc

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
)

// relayConn is the part of a Nostr relay connection the wallet client uses.
type relayConn interface {
	publish(ctx context.Context, ev nostr.Event) error
	// subscribe delivers events matching filter until cancel is called.
	subscribe(ctx context.Context, filter nostr.Filter) (events <-chan *nostr.Event, cancel func(), err error)
	connected() bool
	close() error
}

type dialFunc func(ctx context.Context, url string) (relayConn, error)

// nostrRelay adapts *nostr.Relay.
type nostrRelay struct {
	r *nostr.Relay
}

func dialNostr(ctx context.Context, url string) (relayConn, error) {
	r, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, err
	}
	return &nostrRelay{r: r}, nil
}

func (n *nostrRelay) publish(ctx context.Context, ev nostr.Event) error {
	return n.r.Publish(ctx, ev)
}

func (n *nostrRelay) subscribe(ctx context.Context, filter nostr.Filter) (<-chan *nostr.Event, func(), error) {
	sub, err := n.r.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		return nil, nil, err
	}
	return sub.Events, sub.Unsub, nil
}

func (n *nostrRelay) connected() bool {
	return n.r.IsConnected()
}

func (n *nostrRelay) close() error {
	return n.r.Close()
}
