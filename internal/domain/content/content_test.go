package content

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContent(t *testing.T) {
	storeID := uuid.New()

	c, err := NewContent(storeID, "about-us", ContentTypePage)
	require.NoError(t, err)
	assert.Equal(t, storeID, c.MerchantStoreID)
	assert.False(t, c.Visible)

	_, err = NewContent(storeID, "", ContentTypePage)
	assert.Error(t, err)

	_, err = NewContent(storeID, "code", ContentType("BANNER"))
	assert.Error(t, err)
}

func TestContent_SetDescription(t *testing.T) {
	c, _ := NewContent(uuid.New(), "about", ContentTypePage)

	require.NoError(t, c.SetDescription(DescriptionInput{Language: "en", Name: "About Us", Body: "<p>hi</p>"}))
	firstID := c.Descriptions[0].ID
	require.NoError(t, c.SetDescription(DescriptionInput{Language: "en", Name: "About", SeUrl: "about"}))

	require.Len(t, c.Descriptions, 1)
	assert.Equal(t, firstID, c.Descriptions[0].ID)
	assert.Equal(t, "About", c.DescriptionFor("en").Name)
	assert.Equal(t, "about", c.DescriptionFor("en").SeUrl)
	assert.Equal(t, "", c.DescriptionFor("en").Description.Description)
}

func TestContent_Place(t *testing.T) {
	box, _ := NewContent(uuid.New(), "promo", ContentTypeBox)
	require.NoError(t, box.Place(ContentPositionLeft, true, 3))
	assert.Equal(t, ContentPositionLeft, box.ContentPosition)
	assert.Error(t, box.Place(ContentPosition("TOP"), false, 0))

	page, _ := NewContent(uuid.New(), "page", ContentTypePage)
	assert.Error(t, page.Place(ContentPositionRight, false, 0))
	assert.NoError(t, page.Place("", true, 1))
}

func TestCleanFolderPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"/a/b/", "a/b", false},
		{"a//b", "a/b", false},
		{`a\b`, "a/b", false},
		{"a/../b", "", true},
		{"..", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanFolderPath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputContentFile_Validate(t *testing.T) {
	ok := InputContentFile{FileName: "logo.png", FileContentType: FileContentTypeLogo}
	assert.NoError(t, ok.Validate())

	bad := InputContentFile{FileName: "../logo.png", FileContentType: FileContentTypeLogo}
	assert.Error(t, bad.Validate())

	badType := InputContentFile{FileName: "logo.png", FileContentType: "VIDEO"}
	assert.Error(t, badType.Validate())
}

func TestFileContentType_IsPublic(t *testing.T) {
	assert.True(t, FileContentTypeImage.IsPublic())
	assert.True(t, FileContentTypeStaticFile.IsPublic())
	assert.True(t, FileContentTypeLogo.IsPublic())
	assert.False(t, FileContentTypeProductDigital.IsPublic())
	assert.False(t, FileContentType("VIDEO").IsPublic())
}
