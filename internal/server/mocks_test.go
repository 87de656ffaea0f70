package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
)

// fakeGenerator は呼び出しを記録し、固定の data URL か err を返します。
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	err   error
	// hook が設定されていれば生成前に呼ばれます
	hook func(op string)
}

func (f *fakeGenerator) record(op, result string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	n := len(f.calls)
	hook := f.hook
	err := f.err
	f.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s%d", result, n), nil
}

func (f *fakeGenerator) SynthesizeBaseModel(_ context.Context, _ *domain.EncodedImage) (string, error) {
	return f.record("model", "bW9kZWw")
}

func (f *fakeGenerator) ApplyGarment(_ context.Context, _ string, _ *domain.EncodedImage) (string, error) {
	return f.record("garment", "Z2FybWVudA")
}

func (f *fakeGenerator) SynthesizePoseVariation(_ context.Context, _ string, _ string) (string, error) {
	return f.record("pose", "cG9zZQ")
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeWardrobe struct {
	garments []domain.Garment
	// onFetch が設定されていれば取得の途中で呼ばれます
	onFetch func()
}

func (f *fakeWardrobe) Garments() []domain.Garment { return f.garments }

func (f *fakeWardrobe) Fetch(_ context.Context, id string) (*domain.Garment, *domain.EncodedImage, error) {
	if f.onFetch != nil {
		f.onFetch()
	}
	for _, g := range f.garments {
		if g.ID == id {
			return &g, domain.NewEncodedImage("image/jpeg", []byte("jpeg")), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", generator.ErrGarmentNotFound, id)
}
