package model

// ShopItem is a static catalog entry. The catalog itself is compiled in;
// only the daily selection and purchase set are persisted.
type ShopItem struct {
	ID          string    `json:"id"`
	Emoji       string    `json:"emoji"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cost        int       `json:"cost"`
	StatReward  *StatKind `json:"stat_reward,omitempty"`
}
