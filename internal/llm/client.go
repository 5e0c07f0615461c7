package llm

import (
	"context"
	"fmt"
	"time"
)

// Client is the Provider used by the writing pipeline. Every call takes a
// fresh key from the KeyProvider and issues exactly one upstream request.
type Client struct {
	keys    KeyProvider
	factory ProviderFactory
	model   string
	timeout time.Duration
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client over a key source and provider factory.
func NewClient(keys KeyProvider, factory ProviderFactory, model string, timeout time.Duration) *Client {
	return &Client{keys: keys, factory: factory, model: model, timeout: timeout}
}

// NewClientFromConfig wires a KeyRing and the configured provider factory.
func NewClientFromConfig(cfg Config) (*Client, error) {
	factory, err := NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	keys := NewKeyRing(cfg.APIKeys...)
	if cfg.Provider == ProviderMock && keys.Len() == 0 {
		keys = NewKeyRing("mock")
	}
	return NewClient(keys, factory, cfg.ResolvedModel(), cfg.Timeout), nil
}

func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	key, ok := c.keys.NextKey(ctx)
	if !ok || key == "" {
		return nil, &ConfigurationError{}
	}

	p, err := c.factory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("initialize provider: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return p.Generate(ctx, req)
}

func (c *Client) ModelID() string {
	return c.model
}
