package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/oguzhankarahan/quoteboard/internal/model"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// fakeProvider is a scripted provider for chain tests.
type fakeProvider struct {
	name  string
	quote model.Quote
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	f.calls++
	if f.err != nil {
		return model.Quote{}, f.err
	}
	q := f.quote
	q.Symbol = symbol
	return q, nil
}

func TestResolveFirstSuccessWins(t *testing.T) {
	p1 := &fakeProvider{name: "a", err: errors.New("a down")}
	p2 := &fakeProvider{name: "b", quote: model.Quote{Price: model.Float(100)}}
	p3 := &fakeProvider{name: "c", quote: model.Quote{Price: model.Float(999)}}

	r := New([]provider.Provider{p1, p2, p3}, nil)

	q, name := r.Resolve(context.Background(), "BTC")

	if !q.Resolved() || *q.Price != 100 {
		t.Errorf("quote = %+v, want provider b's price", q)
	}
	if name != "b" {
		t.Errorf("provider = %q, want b", name)
	}
	if p1.calls != 1 || p2.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", p1.calls, p2.calls)
	}
	// Providers after the first success must not be invoked.
	if p3.calls != 0 {
		t.Errorf("p3.calls = %d, want 0", p3.calls)
	}
}

func TestResolveAllFailKeepsLastError(t *testing.T) {
	p1 := &fakeProvider{name: "a", err: errors.New("first error")}
	p2 := &fakeProvider{name: "b", err: errors.New("last error")}

	r := New([]provider.Provider{p1, p2}, nil)

	q, name := r.Resolve(context.Background(), "BTC")

	if q.Resolved() {
		t.Fatal("quote should be failed")
	}
	if q.Error != "last error" {
		t.Errorf("Error = %q, want the last provider's message", q.Error)
	}
	if name != "b" {
		t.Errorf("provider = %q, want b", name)
	}
}

func TestResolveEmptyChain(t *testing.T) {
	r := New(nil, nil)

	q, name := r.Resolve(context.Background(), "BTC")

	if q.Resolved() {
		t.Fatal("quote should be failed")
	}
	if q.Error == "" || name != "" {
		t.Errorf("q.Error = %q, name = %q", q.Error, name)
	}
}

func TestRegistryChainSkipsUnregistered(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("crypto-yahoo", &fakeProvider{name: "yahoo"})

	chain := reg.Chain("crypto-tv", "crypto-yahoo")

	if len(chain) != 1 {
		t.Fatalf("len(chain) = %d, want 1", len(chain))
	}
	if chain[0].Name() != "yahoo" {
		t.Errorf("chain[0] = %q, want yahoo", chain[0].Name())
	}
	if reg.Registered("crypto-tv") {
		t.Error("crypto-tv should not be registered")
	}
}

func TestResolveAttemptsEveryProviderOnFailure(t *testing.T) {
	mk := func(name string) *fakeProvider {
		return &fakeProvider{name: name, err: errors.New(name + " down")}
	}
	p1, p2, p3 := mk("a"), mk("b"), mk("c")

	r := New([]provider.Provider{p1, p2, p3}, nil)
	r.Resolve(context.Background(), "X")

	for _, p := range []*fakeProvider{p1, p2, p3} {
		if p.calls != 1 {
			t.Errorf("%s.calls = %d, want 1", p.name, p.calls)
		}
	}
}
