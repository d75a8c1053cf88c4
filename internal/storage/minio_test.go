package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name string
		img  models.ImageUpload
		err  error
	}{
		{name: "png", img: models.ImageUpload{ContentType: "image/png", Size: 10}},
		{name: "jpeg with params", img: models.ImageUpload{ContentType: "image/jpeg; charset=binary", Size: 10}},
		{name: "text", img: models.ImageUpload{ContentType: "text/plain", Size: 10}, err: ErrNotAnImage},
		{name: "missing type", img: models.ImageUpload{Size: 10}, err: ErrNotAnImage},
		{name: "too large", img: models.ImageUpload{ContentType: "image/png", Size: MaxImageSize + 1}, err: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImage(tt.img)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Photo.PNG", "image/png")
	assert.True(t, strings.HasPrefix(key, "items/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.NotEqual(t, key, ObjectKey("Photo.PNG", "image/png"), "keys must be unique")

	key = ObjectKey("blob", "image/png")
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	key = ObjectKey("blob", "application/x-unknown-thing")
	assert.Len(t, key, len("items/")+36)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://cdn.local/img/items/a.png", PublicURL("http://cdn.local/", "img", "items/a.png"))
	assert.Equal(t, "http://cdn.local/img/items/a.png", PublicURL("http://cdn.local", "img", "items/a.png"))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"uploaded image", "http://cdn.local/img/items/a.png", "items/a.png", true},
		{"other host", "https://example.com/img/items/a.png", "", false},
		{"other bucket", "http://cdn.local/docs/items/a.png", "", false},
		{"outside items", "http://cdn.local/img/avatars/a.png", "", false},
		{"path traversal", "http://cdn.local/img/items/../secret", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL("http://cdn.local/", "img", tt.url)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
