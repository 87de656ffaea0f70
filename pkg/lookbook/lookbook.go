// Package lookbook は1枚の試着画像から複数ポーズの画像を並列に生成します。
package lookbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/generator"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Shot はポーズ1つ分の生成結果です。
type Shot struct {
	Index       int
	Instruction string
	DataURL     string
}

// Builder は生成の同時実行数と呼び出し間隔を制御します。
type Builder struct {
	gen      generator.ImageGenerator
	workers  int
	interval time.Duration
}

// NewBuilder は Builder を作成します。interval が0以下なら間隔制限なし、workers が0以下なら1並列です。
func NewBuilder(gen generator.ImageGenerator, workers int, interval time.Duration) (*Builder, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if workers <= 0 {
		workers = 1
	}
	return &Builder{gen: gen, workers: workers, interval: interval}, nil
}

// Build は baseDataURL を元に instructions の各ポーズを生成し、入力と同じ順序で返します。
// 1つでも失敗すると残りはキャンセルされ、最初のエラーを返します。
func (b *Builder) Build(ctx context.Context, baseDataURL string, instructions []string) ([]Shot, error) {
	shots := make([]Shot, len(instructions))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)

	var limiter *rate.Limiter
	if b.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(b.interval), 2)
	}

	for i, instruction := range instructions {
		eg.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					return err
				}
			}

			dataURL, err := b.gen.SynthesizePoseVariation(egCtx, baseDataURL, instruction)
			if err != nil {
				return fmt.Errorf("pose %d (%s) generation failed: %w", i+1, instruction, err)
			}
			slog.InfoContext(egCtx, "ポーズを生成しました", "index", i+1, "pose", instruction)

			shots[i] = Shot{Index: i, Instruction: instruction, DataURL: dataURL}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return shots, nil
}
