package backend

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/billarchive/internal/common"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

type stub struct{ name string }

func (s stub) Name() string { return s.name }

func (stub) Subscriptions(context.Context) iter.Seq2[domain.Subscription, error] {
	return func(func(domain.Subscription, error) bool) {}
}

func (stub) Documents(context.Context, domain.Subscription) iter.Seq2[domain.Document, error] {
	return func(func(domain.Document, error) bool) {}
}

func (stub) Download(context.Context, domain.Document) ([]byte, error) { return nil, nil }

type guarded struct {
	stub
	safe bool
}

func (g guarded) InterleaveSafe() bool { return g.safe }

func TestRegistry_BuildAndModules(t *testing.T) {
	Register("test-registry", func(ctx context.Context, name string, p Params) (Backend, error) {
		if _, err := p.Required("needed"); err != nil {
			return nil, err
		}
		return stub{name: name}, nil
	})

	b, err := Build(context.Background(), "test-registry", "mine", Params{"needed": "x"})
	require.NoError(t, err)
	assert.Equal(t, "mine", b.Name())
	assert.Contains(t, Modules(), "test-registry")

	_, err = Build(context.Background(), "test-registry", "mine", Params{})
	assert.ErrorIs(t, err, common.ErrMissingParam)

	_, err = Build(context.Background(), "nope", "x", nil)
	assert.ErrorIs(t, err, common.ErrUnknownModule)

	assert.Panics(t, func() { Register("test-registry", nil) })
}

func TestParams(t *testing.T) {
	p := Params{"a": "1", "empty": "", "flag": "TRUE", "bad": "yes"}

	assert.Equal(t, "1", p.Get("a", "d"))
	assert.Equal(t, "d", p.Get("empty", "d"))
	assert.Equal(t, "d", p.Get("missing", "d"))

	b, err := p.Bool("flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = p.Bool("missing", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = p.Bool("bad", false)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestInterleaveSafe(t *testing.T) {
	assert.True(t, InterleaveSafe(guarded{safe: true}))
	assert.False(t, InterleaveSafe(guarded{safe: false}))

	var b Backend = stub{}
	_, isChecker := b.(InterleaveChecker)
	assert.False(t, isChecker)
	assert.True(t, InterleaveSafe(b))
}
