package models

// StickerSize is the physical size a printed sticker is rendered at.
type StickerSize string

const (
	SizeExtraSmall StickerSize = "Extra Small"
	SizeSmall      StickerSize = "Small"
	SizeMedium     StickerSize = "Medium"
	SizeLarge      StickerSize = "Large"
	SizeExtraLarge StickerSize = "Extra Large"
)

// StickerSizes lists all valid sizes in ascending order.
var StickerSizes = []StickerSize{SizeExtraSmall, SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge}

// Valid reports whether s is one of the known sticker sizes.
func (s StickerSize) Valid() bool {
	for _, v := range StickerSizes {
		if s == v {
			return true
		}
	}
	return false
}

// PrintableQR is the projection handed to the sticker renderer: everything
// needed to draw one scannable sticker, no mutation involved.
type PrintableQR struct {
	ID        int64       `json:"id"`
	DisplayID string      `json:"displayId"`
	UniqueID  string      `json:"uniqueId"`
	URL       string      `json:"url"`
	Size      StickerSize `json:"size"`
	Text      string      `json:"text"`
}
