package llm

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Available(_ context.Context) bool { return s.available }

func (s *stubProvider) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestChainFirstAvailableWins(t *testing.T) {
	first := &stubProvider{name: "first", available: true, text: "from first"}
	second := &stubProvider{name: "second", available: true, text: "from second"}

	chain := NewChain(first, second)
	got, err := chain.GenerateText(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "from first", got)
	assert.Equal(t, 0, second.calls)
}

func TestChainSkipsUnavailable(t *testing.T) {
	down := &stubProvider{name: "down", available: false, text: "unused"}
	up := &stubProvider{name: "up", available: true, text: "from up"}

	chain := NewChain(down, up)
	got, err := chain.GenerateText(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "from up", got)
	assert.Equal(t, 0, down.calls)
}

func TestChainFallsThroughOnError(t *testing.T) {
	failing := &stubProvider{name: "failing", available: true, err: eris.New("boom")}
	backup := &stubProvider{name: "backup", available: true, text: "from backup"}

	chain := NewChain(failing, backup)
	got, err := chain.GenerateText(context.Background(), "prompt", 100)
	require.NoError(t, err)
	assert.Equal(t, "from backup", got)
	assert.Equal(t, 1, failing.calls)
}

func TestChainNoProvider(t *testing.T) {
	failing := &stubProvider{name: "failing", available: true, err: eris.New("boom")}
	down := &stubProvider{name: "down", available: false}

	chain := NewChain(failing, down)
	_, err := chain.GenerateText(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, ErrNoProvider)

	empty := NewChain()
	assert.False(t, empty.Enabled())
	_, err = empty.GenerateText(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, ErrNoProvider)
}
