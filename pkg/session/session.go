// Package session は試着セッションの状態（モデル画像、衣服レイヤー、ポーズ）をメモリ上で管理します。
package session

import (
	"sync"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/pose"
)

// Slot は同時に1つだけ結果を反映できる生成処理の種類です。
type Slot string

const (
	SlotModel Slot = "model"
	SlotTryOn Slot = "tryon"
)

// Session は1人の利用者の試着状態です。
// 生成結果はトークンで照合し、後から発行されたリクエストがあれば古い結果を破棄します。
type Session struct {
	ID string

	mu         sync.Mutex
	modelImage string
	layers     []domain.OutfitLayer
	pose       *pose.State
	tokens     map[Slot]uint64
	updatedAt  time.Time
}

// View は Session の読み取り専用スナップショットです。
type View struct {
	ID           string           `json:"id"`
	ModelImage   string           `json:"model_image,omitempty"`
	CurrentImage string           `json:"current_image,omitempty"`
	Pose         string           `json:"pose"`
	CustomPose   bool             `json:"custom_pose"`
	Garments     []domain.Garment `json:"garments"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		pose:      pose.NewState(pose.Instructions),
		tokens:    make(map[Slot]uint64),
		updatedAt: time.Now(),
	}
}

// Begin は slot の新しいトークンを発行します。以前のトークンは失効します。
func (s *Session) Begin(slot Slot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[slot]++
	return s.tokens[slot]
}

// BeginGarment は試着スロットのトークンを発行し、同じロックの中で衣服を着せる元画像（表示中の画像）を返します。
// モデル画像がまだなければトークンを発行せず 0, "" を返します。
func (s *Session) BeginGarment() (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.currentImageLocked()
	if current == "" {
		return 0, ""
	}
	s.tokens[SlotTryOn]++
	return s.tokens[SlotTryOn], current
}

// BeginPose は試着スロットのトークンを発行し、同じロックの中でポーズ生成の元画像を返します。
// モデル画像がまだなければトークンを発行せず 0, "" を返します。
func (s *Session) BeginPose() (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := s.layerBaseImageLocked()
	if base == "" {
		return 0, ""
	}
	s.tokens[SlotTryOn]++
	return s.tokens[SlotTryOn], base
}

// IsLatest は token が slot の最新トークンかどうかを返します。
func (s *Session) IsLatest(slot Slot, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[slot] == token
}

// SetModel はベースモデル画像を反映し、衣服レイヤーとポーズを初期化します。
// token が最新でなければ何もせず false を返します。
func (s *Session) SetModel(token uint64, dataURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[SlotModel] != token {
		return false
	}

	s.modelImage = dataURL
	s.pose = pose.NewState(pose.Instructions)
	s.layers = []domain.OutfitLayer{domain.NewOutfitLayer(nil, s.pose.Current(), dataURL)}
	// モデルが変わったので実行中の試着結果は反映させない
	s.tokens[SlotTryOn]++
	s.touch()
	return true
}

// ModelImage はベースモデル画像を返します。
func (s *Session) ModelImage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelImage
}

// CurrentImage は最上位レイヤーの現在のポーズの画像を返します。
// まだ生成されていないポーズの場合は、そのレイヤーの既定ポーズの画像を返します。
func (s *Session) CurrentImage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentImageLocked()
}

func (s *Session) currentImageLocked() string {
	if len(s.layers) == 0 {
		return ""
	}
	top := s.layers[len(s.layers)-1]
	if img, ok := top.PoseImages[s.pose.Current()]; ok {
		return img
	}
	return top.PoseImages[pose.Default()]
}

// layerBaseImageLocked は最上位レイヤーの既定ポーズの画像を返します。ポーズ生成の元画像に使います。
func (s *Session) layerBaseImageLocked() string {
	if len(s.layers) == 0 {
		return ""
	}
	return s.layers[len(s.layers)-1].PoseImages[pose.Default()]
}

// PushGarment は衣服を適用した画像を新しいレイヤーとして積みます。ポーズは既定に戻ります。
func (s *Session) PushGarment(token uint64, garment domain.Garment, dataURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[SlotTryOn] != token || len(s.layers) == 0 {
		return false
	}

	s.pose.Select(pose.Default())
	s.layers = append(s.layers, domain.NewOutfitLayer(&garment, s.pose.Current(), dataURL))
	s.touch()
	return true
}

// SetPoseImage は最上位レイヤーにポーズ画像を保存し、そのポーズを選択します。
func (s *Session) SetPoseImage(token uint64, instruction, dataURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[SlotTryOn] != token || len(s.layers) == 0 {
		return false
	}

	top := &s.layers[len(s.layers)-1]
	if top.PoseImages == nil {
		top.PoseImages = make(map[string]string)
	}
	top.PoseImages[instruction] = dataURL
	s.pose.Select(instruction)
	s.touch()
	return true
}

// CachedPose は最上位レイヤーで生成済みのポーズ画像を返します。
func (s *Session) CachedPose(instruction string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return "", false
	}
	img, ok := s.layers[len(s.layers)-1].PoseImages[instruction]
	return img, ok
}

// SelectPose は生成済みのポーズを選択します。未生成なら false を返します。
func (s *Session) SelectPose(instruction string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return false
	}
	if _, ok := s.layers[len(s.layers)-1].PoseImages[instruction]; !ok {
		return false
	}
	s.pose.Select(instruction)
	// 選択を切り替えた時点で、実行中のポーズ生成は古くなる
	s.tokens[SlotTryOn]++
	s.touch()
	return true
}

// PeekPose は direction 方向の次のポーズ指示を返します。
func (s *Session) PeekPose(direction pose.Direction) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose.Peek(direction)
}

// Undo は最後に適用した衣服レイヤーを取り除きます。ベースモデルは残ります。
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) <= 1 {
		return false
	}

	s.layers = s.layers[:len(s.layers)-1]
	s.pose.Select(pose.Default())
	s.tokens[SlotTryOn]++
	s.touch()
	return true
}

// Snapshot は現在の状態を View として返します。
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	garments := make([]domain.Garment, 0, len(s.layers))
	for _, l := range s.layers {
		if l.Garment != nil {
			garments = append(garments, *l.Garment)
		}
	}

	return View{
		ID:           s.ID,
		ModelImage:   s.modelImage,
		CurrentImage: s.currentImageLocked(),
		Pose:         s.pose.Current(),
		CustomPose:   s.pose.IsCustom(),
		Garments:     garments,
		UpdatedAt:    s.updatedAt,
	}
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
