package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAjaxResponse_ToJSON_OmitsEmptySections(t *testing.T) {
	r := NewAjaxResponse(ResponseStatusSuccess)

	out, err := r.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":{"status":0}}`, out)
}

func TestAjaxResponse_ToJSON_Entries(t *testing.T) {
	r := NewAjaxResponse(ResponseStatusSuccess)
	r.StatusMessage = ResponseStatusSuccessMessage
	r.AddEntry(map[string]any{"name": "logo.png"})
	r.AddEntry(map[string]any{"name": "banner.jpg"})
	r.AddDataEntry("total", 2)

	out, err := r.ToJSON()
	require.NoError(t, err)

	assert.Equal(t, int64(0), gjson.Get(out, "response.status").Int())
	assert.Equal(t, "success", gjson.Get(out, "response.statusMessage").String())
	assert.Equal(t, "banner.jpg", gjson.Get(out, "response.data.1.name").String())
	assert.Equal(t, int64(2), gjson.Get(out, "response.dataMap.total").Int())
	assert.False(t, gjson.Get(out, "response.validations").Exists())
}

func TestAjaxResponse_Validation(t *testing.T) {
	r := NewAjaxResponse(ResponseStatusSuccess)
	r.AddValidationMessage("code", "Code already exists")

	assert.Equal(t, ResponseStatusValidationFailed, r.Status)
	out, err := r.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, "Code already exists", gjson.Get(out, "response.validations.code").String())
}

func TestAjaxResponse_SetErrorMessage(t *testing.T) {
	r := NewAjaxResponse(ResponseStatusSuccess)
	r.SetErrorMessage(errors.New("storage offline"))

	assert.Equal(t, ResponseStatusFailure, r.Status)
	assert.Equal(t, "storage offline", r.StatusMessage)
}

func TestAjaxResponse_Send(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	r := NewAjaxResponse(ResponseStatusCodeAlreadyExist)
	r.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"response":{"status":9998}}`, w.Body.String())
}
