package generator

const (
	// DefaultModel は画像編集に対応した Gemini モデルです。
	DefaultModel = "gemini-2.5-flash-image"

	UseImageCompression     = true
	ImageCompressionQuality = 85
	cacheKeyGarment         = "garment:"
)

// 画像と説明テキストの両方を受け取れるようにしておく
var responseModalities = []string{"IMAGE", "TEXT"}
