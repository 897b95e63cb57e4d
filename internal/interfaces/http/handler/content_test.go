package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	contentapp "github.com/salesmanager/backend/internal/application/content"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newContentHandler() (*ContentHandler, *MockContentRepository, *MockFileStore) {
	repo := new(MockContentRepository)
	files := new(MockFileStore)
	service := contentapp.NewContentService(repo, contentapp.NewStaticContentFileManager(files), zap.NewNop())
	return NewContentHandler(service), repo, files
}

func TestContentHandler_ListFiles(t *testing.T) {
	h, _, files := newContentHandler()
	files.On("GetFileNames", mock.Anything, "DEFAULT", content.FileContentTypeImage).
		Return([]string{"banner.png", "logo.gif"}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/private/content/files", nil)
	withStore(c, testStore("DEFAULT"))
	h.ListFiles(c)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(dto.ResponseStatusSuccess), gjson.Get(body, "response.status").Int())
	assert.Equal(t, "banner.png", gjson.Get(body, "response.data.0.name").String())
	assert.Equal(t, "logo.gif", gjson.Get(body, "response.data.1.name").String())
}

func TestContentHandler_ListFilesUnknownType(t *testing.T) {
	h, _, files := newContentHandler()

	c, w := newTestContext(http.MethodGet, "/api/v1/private/content/files?type=video", nil)
	withStore(c, testStore("DEFAULT"))
	h.ListFiles(c)

	// failures still answer 200, the envelope carries the outcome
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(dto.ResponseStatusFailure), gjson.Get(w.Body.String(), "response.status").Int())
	files.AssertNotCalled(t, "GetFileNames", mock.Anything, mock.Anything, mock.Anything)
}

func TestContentHandler_UploadFile(t *testing.T) {
	h, _, files := newContentHandler()
	files.On("AddFile", mock.Anything, "DEFAULT", mock.MatchedBy(func(f content.InputContentFile) bool {
		return f.FileName == "terms.pdf" && f.FileContentType == content.FileContentTypeStaticFile && f.Path == "legal"
	})).Return(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, "terms.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.WriteField("type", "static_file"))
	require.NoError(t, mw.WriteField("path", "/legal/"))
	require.NoError(t, mw.Close())

	c, w := newTestContext(http.MethodPost, "/api/v1/private/content/files", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	withStore(c, testStore("DEFAULT"))
	h.UploadFile(c)

	body := w.Body.String()
	assert.Equal(t, int64(dto.ResponseStatusOperationCompleted), gjson.Get(body, "response.status").Int())
	assert.Equal(t, "terms.pdf", gjson.Get(body, "response.dataMap.file.file_name").String())
	files.AssertExpectations(t)
}

func TestContentHandler_UploadFileMissing(t *testing.T) {
	h, _, _ := newContentHandler()
	c, w := newTestContext(http.MethodPost, "/api/v1/private/content/files", nil)
	withStore(c, testStore("DEFAULT"))

	h.UploadFile(c)

	body := w.Body.String()
	assert.Equal(t, int64(dto.ResponseStatusValidationFailed), gjson.Get(body, "response.status").Int())
	assert.NotEmpty(t, gjson.Get(body, "response.validations.file").String())
}

func TestContentHandler_RemoveFile(t *testing.T) {
	t.Run("removes the file", func(t *testing.T) {
		h, _, files := newContentHandler()
		files.On("RemoveFile", mock.Anything, "DEFAULT", content.FileContentTypeImage, "", "logo.gif").Return(nil)

		c, w := newTestContext(http.MethodDelete, "/api/v1/private/content/files?name=logo.gif", nil)
		withStore(c, testStore("DEFAULT"))
		h.RemoveFile(c)

		assert.Equal(t, int64(dto.ResponseStatusOperationCompleted), gjson.Get(w.Body.String(), "response.status").Int())
		files.AssertExpectations(t)
	})

	t.Run("path traversal is refused", func(t *testing.T) {
		h, _, files := newContentHandler()

		c, w := newTestContext(http.MethodDelete, "/api/v1/private/content/files?name=logo.gif&path=../other", nil)
		withStore(c, testStore("DEFAULT"))
		h.RemoveFile(c)

		assert.Equal(t, int64(dto.ResponseStatusFailure), gjson.Get(w.Body.String(), "response.status").Int())
		files.AssertNotCalled(t, "RemoveFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContentHandler_Folders(t *testing.T) {
	t.Run("add folder", func(t *testing.T) {
		h, _, files := newContentHandler()
		files.On("AddFolder", mock.Anything, "DEFAULT", "summer", "banners").Return(nil)

		c, w := newTestContext(http.MethodPost, "/api/v1/private/content/folders",
			strings.NewReader(`{"folder_name":"summer","path":"banners"}`))
		withStore(c, testStore("DEFAULT"))
		h.AddFolder(c)

		assert.Equal(t, int64(dto.ResponseStatusOperationCompleted), gjson.Get(w.Body.String(), "response.status").Int())
		files.AssertExpectations(t)
	})

	t.Run("folder name is required", func(t *testing.T) {
		h, _, _ := newContentHandler()

		c, w := newTestContext(http.MethodPost, "/api/v1/private/content/folders", strings.NewReader(`{"path":"banners"}`))
		withStore(c, testStore("DEFAULT"))
		h.AddFolder(c)

		body := w.Body.String()
		assert.Equal(t, int64(dto.ResponseStatusValidationFailed), gjson.Get(body, "response.status").Int())
		assert.True(t, gjson.Get(body, "response.validations.folder_name").Exists())
	})

	t.Run("remove folder failure", func(t *testing.T) {
		h, _, files := newContentHandler()
		files.On("RemoveFolder", mock.Anything, "DEFAULT", "summer", "").Return(errors.New("folder not empty"))

		c, w := newTestContext(http.MethodPost, "/api/v1/private/content/folders/remove", strings.NewReader(`{"folder_name":"summer"}`))
		withStore(c, testStore("DEFAULT"))
		h.RemoveFolder(c)

		body := w.Body.String()
		assert.Equal(t, int64(dto.ResponseStatusFailure), gjson.Get(body, "response.status").Int())
		assert.Equal(t, "folder not empty", gjson.Get(body, "response.statusMessage").String())
	})

	t.Run("list folders", func(t *testing.T) {
		h, _, files := newContentHandler()
		files.On("ListFolders", mock.Anything, "DEFAULT", "banners").Return([]string{"summer", "winter"}, nil)

		c, w := newTestContext(http.MethodGet, "/api/v1/private/content/folders?path=banners", nil)
		withStore(c, testStore("DEFAULT"))
		h.ListFolders(c)

		body := w.Body.String()
		assert.Equal(t, int64(2), gjson.Get(body, "response.data.#").Int())
		assert.Equal(t, "winter", gjson.Get(body, "response.data.1.folder").String())
	})
}

func TestContentHandler_GetFile(t *testing.T) {
	h, _, files := newContentHandler()
	files.On("GetFile", mock.Anything, "DEFAULT", content.FileContentTypeStaticFile, "", "terms.pdf").
		Return(&content.OutputContentFile{FileName: "terms.pdf", MimeType: "application/pdf", Body: []byte("%PDF")}, nil)
	files.On("GetFile", mock.Anything, "DEFAULT", content.FileContentTypeImage, "", "logo.gif").
		Return(&content.OutputContentFile{FileName: "logo.gif", MimeType: "image/gif", Body: []byte("GIF89a")}, nil)

	c, w := newTestContext(http.MethodGet, "/static/files/static_file/terms.pdf", nil)
	c.AddParam("type", "static_file")
	c.AddParam("name", "terms.pdf")
	withStore(c, testStore("DEFAULT"))
	h.GetFile(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="terms.pdf"`, w.Header().Get("Content-Disposition"))

	c, w = newTestContext(http.MethodGet, "/static/files/image/logo.gif", nil)
	c.AddParam("type", "image")
	c.AddParam("name", "logo.gif")
	withStore(c, testStore("DEFAULT"))
	h.GetFile(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
}

func TestContentHandler_CodeExists(t *testing.T) {
	h, repo, _ := newContentHandler()
	store := testStore("DEFAULT")
	repo.On("ExistsByCode", mock.Anything, store.ID, "about").Return(true, nil)
	repo.On("ExistsByCode", mock.Anything, store.ID, "faq").Return(false, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/private/content/unique?code=about", nil)
	withStore(c, store)
	h.CodeExists(c)
	assert.Equal(t, int64(dto.ResponseStatusCodeAlreadyExist), gjson.Get(w.Body.String(), "response.status").Int())

	c, w = newTestContext(http.MethodGet, "/api/v1/private/content/unique?code=faq", nil)
	withStore(c, store)
	h.CodeExists(c)
	assert.Equal(t, int64(dto.ResponseStatusSuccess), gjson.Get(w.Body.String(), "response.status").Int())
}

func TestContentHandler_GetFile_DigitalProductsAreNotPublic(t *testing.T) {
	for _, fileType := range []string{"product_digital", "PRODUCT_DIGITAL", "video"} {
		t.Run(fileType, func(t *testing.T) {
			h, _, files := newContentHandler()

			c, w := newTestContext(http.MethodGet, "/static/files/"+fileType+"/ebook.pdf?path=EBOOK-1", nil)
			c.AddParam("type", fileType)
			c.AddParam("name", "ebook.pdf")
			withStore(c, testStore("DEFAULT"))
			h.GetFile(c)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.NotContains(t, w.Body.String(), "%PDF")
			files.AssertNotCalled(t, "GetFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
