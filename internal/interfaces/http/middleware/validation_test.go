package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type passwordForm struct {
	Email    string `json:"email" binding:"required,email"`
	Gender   string `json:"gender" binding:"enum=M F"`
	Status   string `json:"status" binding:"required,enumci=ORDERED PROCESSED DELIVERED"`
	Password string `json:"password" binding:"required,min=6"`
	Repeat   string `json:"repeat_password" binding:"required"`
}

func (passwordForm) FieldMatches() [][2]string {
	return [][2]string{{"Password", "Repeat"}}
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidators(v, passwordForm{}))
	return v
}

func TestIsEnumMember(t *testing.T) {
	tests := []struct {
		value   string
		members string
		ci      bool
		want    bool
	}{
		{"M", "M F", false, true},
		{"F", "M F", false, true},
		{"m", "M F", false, false},
		{"m", "M F", true, true},
		{"X", "M F", true, false},
		{"", "M F", false, true},
		{"M F", "M F", false, false},
		{"shipped", "ORDERED SHIPPED", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.value+"/"+tt.members, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEnumMember(tt.value, tt.members, tt.ci))
		})
	}
}

func TestFieldsMatch(t *testing.T) {
	f := passwordForm{Password: "secret1", Repeat: "secret1"}
	assert.True(t, FieldsMatch(f, "Password", "Repeat"))
	assert.True(t, FieldsMatch(&f, "Password", "Repeat"))

	f.Repeat = "secret2"
	assert.False(t, FieldsMatch(f, "Password", "Repeat"))
	assert.False(t, FieldsMatch(f, "Password", "Missing"))
	assert.False(t, FieldsMatch("not a struct", "A", "B"))
}

func TestRegisterValidators(t *testing.T) {
	v := newValidator(t)
	valid := passwordForm{Email: "a@b.co", Gender: "F", Status: "processed", Password: "secret1", Repeat: "secret1"}
	require.NoError(t, v.Struct(valid))

	tests := []struct {
		name  string
		edit  func(*passwordForm)
		field string
		tag   string
	}{
		{"enum mismatch", func(f *passwordForm) { f.Gender = "X" }, "gender", "enum"},
		{"enum is case sensitive", func(f *passwordForm) { f.Gender = "f" }, "gender", "enum"},
		{"enumci mismatch", func(f *passwordForm) { f.Status = "LOST" }, "status", "enumci"},
		{"required enumci", func(f *passwordForm) { f.Status = "" }, "status", "required"},
		{"passwords differ", func(f *passwordForm) { f.Repeat = "other12" }, "repeat_password", "fieldmatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)
			details := FormatValidationErrors(v.Struct(form))
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
			assert.Equal(t, tt.tag, details[0].Tag)
		})
	}

	t.Run("empty optional enum passes", func(t *testing.T) {
		form := valid
		form.Gender = ""
		assert.NoError(t, v.Struct(form))
	})
}

func TestFormatValidationErrorsMessages(t *testing.T) {
	v := newValidator(t)
	details := FormatValidationErrors(v.Struct(passwordForm{Gender: "X", Status: "ORDERED", Password: "abc", Repeat: "abd"}))

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", byField["email"])
	assert.Equal(t, "Must be one of: M F", byField["gender"])
	assert.Equal(t, "Must be at least 6 characters", byField["password"])
	assert.Equal(t, "Must match Password", byField["repeat_password"])

	assert.Nil(t, FormatValidationErrors(nil))
}

func TestHandleBindError(t *testing.T) {
	require.NoError(t, SetupValidator(passwordForm{}))

	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var form passwordForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(r, req)
	}

	t.Run("valid", func(t *testing.T) {
		w := post(`{"email":"a@b.co","status":"ordered","password":"secret1","repeat_password":"secret1"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation details", func(t *testing.T) {
		w := post(`{"email":"a@b.co","status":"ordered","password":"secret1","repeat_password":"nope123"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))
		assert.Equal(t, "repeat_password", gjson.Get(w.Body.String(), "error.details.0.field").String())
		assert.Equal(t, "fieldmatch", gjson.Get(w.Body.String(), "error.details.0.tag").String())
	})

	t.Run("malformed json", func(t *testing.T) {
		w := post(`{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_JSON", errorCode(t, w))
	})

	t.Run("wrong type", func(t *testing.T) {
		w := post(`{"email":42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_JSON", errorCode(t, w))
	})
}
