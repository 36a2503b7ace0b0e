package entity

import "time"

// CreatorProfile - страница креатора на площадке, по которой считаются подписчики
type CreatorProfile struct {
	ID         int        `json:"id" db:"id"`
	CreatorID  int        `json:"creator_id" db:"creator_id"`
	ProfileURL string     `json:"profile_url" db:"profile_url"`
	Platform   Platform   `json:"platform" db:"platform"`
	Followers  int64      `json:"followers" db:"followers"`
	LastUpdate *time.Time `json:"last_update,omitempty" db:"last_update"`
}

type AddProfileRequest struct {
	CreatorID  int    `json:"creator_id" validate:"required,gt=0"`
	ProfileURL string `json:"profile_url" validate:"required,url,max=2048"`
}
