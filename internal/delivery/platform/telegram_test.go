package platform

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

func TestTelegramNotifier(t *testing.T) {
	var (
		path   string
		text   string
		chatID string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		text = r.FormValue("text")
		chatID = r.FormValue("chat_id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100500,"type":"supergroup"}}}`)
	}))
	defer server.Close()

	notifier, err := NewTelegramNotifier("123:abc", -100500, server.URL)
	require.NoError(t, err)

	err = notifier.NotifyMetricsUnavailable(context.Background(), &entity.VideoAsset{
		ID: 7, ProjectID: 1, CreatorID: 2, Platform: entity.PlatformInstagram,
		VideoURL: "https://www.instagram.com/reel/Cxyz123AbC/?a=1&b=2",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, "/sendMessage"), path)
	assert.Equal(t, "-100500", chatID)
	assert.Contains(t, text, "Ролик #7 (instagram)")
	assert.Contains(t, text, "?a=1&amp;b=2")
}
