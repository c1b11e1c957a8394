package model

// Profile holds the user's name and free-text goals captured during
// onboarding.
type Profile struct {
	Name      string `json:"name"`
	GoalsText string `json:"goals_text"`
}
