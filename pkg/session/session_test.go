package session

import (
	"testing"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withModel(t *testing.T) *Session {
	t.Helper()
	s := newSession("test")
	require.True(t, s.SetModel(s.Begin(SlotModel), "data:image/png;base64,bW9kZWw="))
	return s
}

func TestSession_StaleTokens(t *testing.T) {
	t.Run("古いトークンの結果は破棄される", func(t *testing.T) {
		s := newSession("test")
		slow := s.Begin(SlotModel)
		fast := s.Begin(SlotModel)

		assert.True(t, s.SetModel(fast, "data:image/png;base64,ZmFzdA=="))
		assert.False(t, s.SetModel(slow, "data:image/png;base64,c2xvdw=="))
		assert.Equal(t, "data:image/png;base64,ZmFzdA==", s.ModelImage())
	})

	t.Run("モデルが変わると実行中の試着は無効になる", func(t *testing.T) {
		s := withModel(t)
		token := s.Begin(SlotTryOn)
		require.True(t, s.SetModel(s.Begin(SlotModel), "data:image/png;base64,bmV3"))

		assert.False(t, s.PushGarment(token, domain.Garment{ID: "tee"}, "data:image/png;base64,dGVl"))
	})

	t.Run("ポーズ生成中に別のポーズを生成すると先の結果は反映されない", func(t *testing.T) {
		s := withModel(t)
		first := s.Begin(SlotTryOn)
		second := s.Begin(SlotTryOn)

		assert.True(t, s.SetPoseImage(second, "Side profile view", "data:image/png;base64,c2lkZQ=="))
		assert.False(t, s.SetPoseImage(first, "Walking towards camera", "data:image/png;base64,d2Fsaw=="))
		assert.Equal(t, "Side profile view", s.Snapshot().Pose)
	})
}

func TestSession_BeginWithSource(t *testing.T) {
	t.Run("モデルがなければトークンを発行しない", func(t *testing.T) {
		s := newSession("empty")
		token, current := s.BeginGarment()
		assert.Zero(t, token)
		assert.Empty(t, current)

		token, base := s.BeginPose()
		assert.Zero(t, token)
		assert.Empty(t, base)
		assert.True(t, s.IsLatest(SlotTryOn, 0))
	})

	t.Run("衣服の元画像は表示中のポーズの画像", func(t *testing.T) {
		s := withModel(t)
		require.True(t, s.SetPoseImage(s.Begin(SlotTryOn), "Side profile view", "data:image/png;base64,c2lkZQ=="))

		token, current := s.BeginGarment()
		assert.Equal(t, "data:image/png;base64,c2lkZQ==", current)
		assert.True(t, s.IsLatest(SlotTryOn, token))
	})

	t.Run("ポーズの元画像はレイヤーの既定ポーズの画像", func(t *testing.T) {
		s := withModel(t)
		require.True(t, s.SetPoseImage(s.Begin(SlotTryOn), "Side profile view", "data:image/png;base64,c2lkZQ=="))

		_, base := s.BeginPose()
		assert.Equal(t, "data:image/png;base64,bW9kZWw=", base)
	})

	t.Run("元画像を読んだ後にモデルが変わると衣服の結果は破棄される", func(t *testing.T) {
		s := withModel(t)
		token, current := s.BeginGarment()
		require.Equal(t, "data:image/png;base64,bW9kZWw=", current)

		require.True(t, s.SetModel(s.Begin(SlotModel), "data:image/png;base64,bmV3"))
		assert.False(t, s.PushGarment(token, domain.Garment{ID: "tee"}, "data:image/png;base64,dGVl"))
		assert.Empty(t, s.Snapshot().Garments)
	})

	t.Run("元画像を読んだ後にモデルが変わるとポーズの結果は破棄される", func(t *testing.T) {
		s := withModel(t)
		token, _ := s.BeginPose()

		require.True(t, s.SetModel(s.Begin(SlotModel), "data:image/png;base64,bmV3"))
		assert.False(t, s.SetPoseImage(token, "Side profile view", "data:image/png;base64,c2lkZQ=="))
		assert.Equal(t, pose.Default(), s.Snapshot().Pose)
	})
}

func TestSession_OutfitLayers(t *testing.T) {
	s := withModel(t)
	assert.Equal(t, "data:image/png;base64,bW9kZWw=", s.CurrentImage())

	t.Run("衣服を積むとポーズは既定に戻る", func(t *testing.T) {
		require.True(t, s.SetPoseImage(s.Begin(SlotTryOn), "Side profile view", "data:image/png;base64,c2lkZQ=="))
		require.True(t, s.PushGarment(s.Begin(SlotTryOn), domain.Garment{ID: "tee", Name: "T-shirt"}, "data:image/png;base64,dGVl"))

		view := s.Snapshot()
		assert.Equal(t, pose.Default(), view.Pose)
		assert.Equal(t, "data:image/png;base64,dGVl", view.CurrentImage)
		require.Len(t, view.Garments, 1)
		assert.Equal(t, "tee", view.Garments[0].ID)
	})

	t.Run("生成済みのポーズはキャッシュから選択できる", func(t *testing.T) {
		require.True(t, s.SetPoseImage(s.Begin(SlotTryOn), "Leaning against a wall", "data:image/png;base64,bGVhbg=="))
		require.True(t, s.SelectPose(pose.Default()))

		img, ok := s.CachedPose("Leaning against a wall")
		assert.True(t, ok)
		assert.Equal(t, "data:image/png;base64,bGVhbg==", img)
		assert.False(t, s.SelectPose("Jumping in the air, mid-action shot"))
	})

	t.Run("Undo は衣服レイヤーだけを取り除く", func(t *testing.T) {
		assert.True(t, s.Undo())
		assert.Empty(t, s.Snapshot().Garments)
		assert.Equal(t, "data:image/png;base64,bW9kZWw=", s.CurrentImage())
		assert.False(t, s.Undo(), "ベースモデルは取り除けない")
	})
}

func TestSession_CurrentImageFallback(t *testing.T) {
	s := withModel(t)
	// 自由入力を選択しただけでは画像がないので既定ポーズの画像を返す
	s.mu.Lock()
	s.pose.Select("dancing")
	s.mu.Unlock()

	assert.Equal(t, "data:image/png;base64,bW9kZWw=", s.CurrentImage())
	assert.True(t, s.Snapshot().CustomPose)
	assert.Equal(t, pose.Instructions[0], s.PeekPose(pose.Forward))
	assert.Equal(t, pose.Instructions[len(pose.Instructions)-1], s.PeekPose(pose.Backward))
}

func TestSession_WithoutModel(t *testing.T) {
	s := newSession("empty")
	assert.Empty(t, s.CurrentImage())
	assert.False(t, s.PushGarment(s.Begin(SlotTryOn), domain.Garment{}, "x"))
	assert.False(t, s.SetPoseImage(s.Begin(SlotTryOn), "p", "x"))
	assert.False(t, s.Undo())
}

func TestStore(t *testing.T) {
	store := NewStore(time.Minute)

	sess := store.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())

	store.Delete(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)

	_, ok = store.Get("unknown")
	assert.False(t, ok)
}
