package model

// State is the full accountability snapshot, serialized as one JSON blob
// after every mutation and restored wholesale at startup.
type State struct {
	Profile Profile   `json:"profile"`
	Goals   *Goals    `json:"goals,omitempty"`
	Tasks   []Task    `json:"tasks"`
	Stats   Stats     `json:"stats"`
	Care    CareStats `json:"care"`
}

// ShopState tracks the current rotation day and what has been bought today.
// The purchased set is cleared whenever the day key rolls over.
type ShopState struct {
	LastDayKey   string   `json:"last_day_key"`
	PurchasedIDs []string `json:"purchased_ids"`
}
