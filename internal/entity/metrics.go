package entity

// Metrics - снимок вовлечённости ролика, полученный одной из стратегий сбора
type Metrics struct {
	Title        string `json:"title" msgpack:"title"`
	Views        int64  `json:"views" msgpack:"views"`
	Likes        int64  `json:"likes" msgpack:"likes"`
	Comments     int64  `json:"comments" msgpack:"comments"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" msgpack:"thumbnail_url"`
}

// HasEngagement сообщает, есть ли хотя бы один положительный счётчик
func (m Metrics) HasEngagement() bool {
	return m.Views > 0 || m.Likes > 0 || m.Comments > 0
}

// IsZero - каноничный "нулевой кортеж": пустой заголовок, нулевые счётчики, без превью
func (m Metrics) IsZero() bool {
	return m == Metrics{}
}

type ExtractStatus string

const (
	ExtractSuccess     ExtractStatus = "success"
	ExtractUnavailable ExtractStatus = "unavailable"
)

// ExtractResult явно разделяет "метрики получены" и "ни одна стратегия не сработала",
// чтобы вызывающему коду не приходилось угадывать по нулям.
type ExtractResult struct {
	Status   ExtractStatus `json:"status" msgpack:"status"`
	Platform Platform      `json:"platform" msgpack:"platform"`
	Metrics  Metrics       `json:"metrics" msgpack:"metrics"`
	// Strategy - имя стратегии, давшей результат. Пусто, если Status == ExtractUnavailable.
	Strategy string `json:"strategy,omitempty" msgpack:"strategy"`
}

func (r ExtractResult) OK() bool {
	return r.Status == ExtractSuccess
}
