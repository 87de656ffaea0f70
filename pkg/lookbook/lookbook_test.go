package lookbook

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
)

type mockGenerator struct {
	mu       sync.Mutex
	bases    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	failOn   string
}

func (m *mockGenerator) SynthesizeBaseModel(context.Context, *domain.EncodedImage) (string, error) {
	return "", errors.New("not used")
}

func (m *mockGenerator) ApplyGarment(context.Context, string, *domain.EncodedImage) (string, error) {
	return "", errors.New("not used")
}

func (m *mockGenerator) SynthesizePoseVariation(ctx context.Context, base, instruction string) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.bases = append(m.bases, base)
	m.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	if instruction == m.failOn {
		return "", errors.New("boom")
	}
	return "data:image/png;base64," + instruction, nil
}

func TestNewBuilder(t *testing.T) {
	t.Run("generatorが必須", func(t *testing.T) {
		_, err := NewBuilder(nil, 2, 0)
		assert.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	instructions := []string{"a", "b", "c", "d"}

	t.Run("入力順に結果を返す", func(t *testing.T) {
		gen := &mockGenerator{}
		b, err := NewBuilder(gen, 2, 0)
		require.NoError(t, err)

		shots, err := b.Build(context.Background(), "base", instructions)
		require.NoError(t, err)
		require.Len(t, shots, len(instructions))
		for i, shot := range shots {
			assert.Equal(t, i, shot.Index)
			assert.Equal(t, instructions[i], shot.Instruction)
			assert.Equal(t, "data:image/png;base64,"+instructions[i], shot.DataURL)
		}
		for _, base := range gen.bases {
			assert.Equal(t, "base", base)
		}
	})

	t.Run("同時実行数を超えない", func(t *testing.T) {
		gen := &mockGenerator{}
		b, err := NewBuilder(gen, 2, 0)
		require.NoError(t, err)

		_, err = b.Build(context.Background(), "base", instructions)
		require.NoError(t, err)
		assert.LessOrEqual(t, gen.peak.Load(), int32(2))
	})

	t.Run("失敗したポーズのエラーを返す", func(t *testing.T) {
		gen := &mockGenerator{failOn: "c"}
		b, err := NewBuilder(gen, 1, 0)
		require.NoError(t, err)

		shots, err := b.Build(context.Background(), "base", instructions)
		assert.Nil(t, shots)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pose 3 (c)")
	})

	t.Run("空のリストは空の結果", func(t *testing.T) {
		b, err := NewBuilder(&mockGenerator{}, 0, time.Millisecond)
		require.NoError(t, err)

		shots, err := b.Build(context.Background(), "base", nil)
		require.NoError(t, err)
		assert.Empty(t, shots)
	})
}
