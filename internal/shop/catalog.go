package shop

import "github.com/hodan/capyd/internal/model"

func stat(k model.StatKind) *model.StatKind { return &k }

// Catalog is the full compiled-in capyshop inventory. Only a daily subset
// is ever offered; see ItemsForDay.
var Catalog = []model.ShopItem{
	{ID: "citrus_treats", Emoji: "🍋", Title: "Citrus Treats", Description: "A snack pack for your capy. Boosts energy.", Cost: 28, StatReward: stat(model.StatEnergy)},
	{ID: "bubble_bath", Emoji: "🛁", Title: "Bubble Bath", Description: "A warm cleanup for your capy after a long day.", Cost: 34, StatReward: stat(model.StatHygiene)},
	{ID: "soft_blanket", Emoji: "🧺", Title: "Soft Blanket", Description: "Comfy rest setup that keeps your capy relaxed.", Cost: 30, StatReward: stat(model.StatMood)},
	{ID: "watermelon_bowl", Emoji: "🍉", Title: "Watermelon Bowl", Description: "Fresh fruit serving for your capy's mood.", Cost: 32, StatReward: stat(model.StatMood)},
	{ID: "river_toy", Emoji: "🦆", Title: "River Toy", Description: "A playful floatie toy for capy fun time.", Cost: 26, StatReward: stat(model.StatMood)},
	{ID: "leaf_salad", Emoji: "🥬", Title: "Leaf Salad", Description: "Healthy greens to keep your capy nourished.", Cost: 22, StatReward: stat(model.StatEnergy)},
	{ID: "sun_hat", Emoji: "👒", Title: "Sun Hat", Description: "Cute outdoor hat so your capy stays comfy outside.", Cost: 36},
	{ID: "rain_boots", Emoji: "🥾", Title: "Rain Boots", Description: "For splashy walks with your capy.", Cost: 24},
	{ID: "reed_mat", Emoji: "🧶", Title: "Reed Mat", Description: "A calm corner mat for your capy to chill.", Cost: 31, StatReward: stat(model.StatHygiene)},
	{ID: "pond_pass", Emoji: "🎟️", Title: "Pond Pass", Description: "A little day pass for capy water play.", Cost: 42, StatReward: stat(model.StatMood)},
	{ID: "grooming_kit", Emoji: "🪮", Title: "Grooming Kit", Description: "Brush and care tools for your capy.", Cost: 40, StatReward: stat(model.StatHygiene)},
	{ID: "cozy_lantern", Emoji: "🏮", Title: "Cozy Lantern", Description: "Night-time ambience for your capy's space.", Cost: 38},
}
