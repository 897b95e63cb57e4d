package dto

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AJAX response status codes understood by the admin console
const (
	ResponseStatusSuccess            = 0
	ResponseStatusFailure            = -1
	ResponseStatusValidationFailed   = -2
	ResponseStatusOperationCompleted = 9999
	ResponseStatusCodeAlreadyExist   = 9998

	ResponseStatusSuccessMessage = "success"
	ResponseStatusFailureMessage = "failure"
)

// AjaxResponse is the envelope of admin console endpoints:
// {"response":{"status":0,"statusMessage":"...","data":[...],...}}.
// Empty sections are left out.
type AjaxResponse struct {
	Status             int
	StatusMessage      string
	Data               []map[string]any
	DataMap            map[string]any
	ValidationMessages map[string]string
}

// NewAjaxResponse creates a response with the given status
func NewAjaxResponse(status int) *AjaxResponse {
	return &AjaxResponse{Status: status}
}

// AddEntry appends a row to the data list
func (r *AjaxResponse) AddEntry(entry map[string]any) {
	r.Data = append(r.Data, entry)
}

// AddDataEntry sets a key of the data map
func (r *AjaxResponse) AddDataEntry(key string, value any) {
	if r.DataMap == nil {
		r.DataMap = make(map[string]any)
	}
	r.DataMap[key] = value
}

// AddValidationMessage records a field error and marks the response as failed validation
func (r *AjaxResponse) AddValidationMessage(field, message string) {
	if r.ValidationMessages == nil {
		r.ValidationMessages = make(map[string]string)
	}
	r.ValidationMessages[field] = message
	r.Status = ResponseStatusValidationFailed
}

// SetErrorMessage marks the response as failed with the error text
func (r *AjaxResponse) SetErrorMessage(err error) {
	r.Status = ResponseStatusFailure
	if err != nil {
		r.StatusMessage = err.Error()
	}
}

type ajaxBody struct {
	Status             int               `json:"status"`
	StatusMessage      string            `json:"statusMessage,omitempty"`
	Data               []map[string]any  `json:"data,omitempty"`
	DataMap            map[string]any    `json:"dataMap,omitempty"`
	ValidationMessages map[string]string `json:"validations,omitempty"`
}

// MarshalJSON renders the wrapped envelope
func (r *AjaxResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Response ajaxBody `json:"response"`
	}{
		Response: ajaxBody{
			Status:             r.Status,
			StatusMessage:      r.StatusMessage,
			Data:               r.Data,
			DataMap:            r.DataMap,
			ValidationMessages: r.ValidationMessages,
		},
	})
}

// ToJSON renders the response as a JSON string
func (r *AjaxResponse) ToJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Send writes the response. Failures answer 200 as well; the status field carries the outcome.
func (r *AjaxResponse) Send(c *gin.Context) {
	body, err := r.ToJSON()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
}
