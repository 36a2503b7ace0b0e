package entity

import "strings"

type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformVK        Platform = "vk"
	PlatformThreads   Platform = "threads"
	PlatformTelegram  Platform = "telegram"
	PlatformMax       Platform = "max"
	PlatformLikee     Platform = "likee"
	PlatformOther     Platform = "other"
)

// platformPatterns проверяются по порядку, первое совпадение побеждает
var platformPatterns = []struct {
	platform Platform
	patterns []string
}{
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformInstagram, []string{"instagram.com"}},
	{PlatformVK, []string{"vk.com", "vk.ru"}},
	{PlatformThreads, []string{"threads.net"}},
	{PlatformTelegram, []string{"t.me", "telegram"}},
	{PlatformMax, []string{"max.ru"}},
	{PlatformLikee, []string{"likee.video", "likee.com"}},
}

// DetectPlatform определяет платформу по подстроке в ссылке.
// Функция чистая: используется и при подаче ролика, и перед сбором метрик.
func DetectPlatform(rawURL string) Platform {
	url := strings.ToLower(strings.TrimSpace(rawURL))
	if url == "" {
		return PlatformOther
	}
	for _, p := range platformPatterns {
		for _, pattern := range p.patterns {
			if strings.Contains(url, pattern) {
				return p.platform
			}
		}
	}
	return PlatformOther
}

func (p Platform) IsValid() bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformVK, PlatformThreads,
		PlatformTelegram, PlatformMax, PlatformLikee, PlatformOther:
		return true
	}
	return false
}
