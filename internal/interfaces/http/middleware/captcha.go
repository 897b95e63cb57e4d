package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/infrastructure/captcha"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// captchaBodyField is the JSON field carrying the token in request bodies
const captchaBodyField = "captcha_response"

// Captcha verifies the reCAPTCHA token of the request. The token is read from
// the X-Recaptcha-Response header, the captcha_response field of a JSON body,
// or the g-recaptcha-response form value, in that order.
func Captcha(verifier captcha.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := captchaToken(c)

		ok, err := verifier.Verify(c.Request.Context(), token, c.ClientIP())
		if err != nil {
			logger.Warn("Captcha verification failed", zap.Error(err))
			abortWithError(c, err)
			return
		}
		if !ok {
			abort(c, http.StatusBadRequest, "CAPTCHA_FAILED", "Captcha verification failed")
			return
		}
		c.Next()
	}
}

func captchaToken(c *gin.Context) string {
	if token := c.GetHeader(CaptchaHeader); token != "" {
		return token
	}
	if c.ContentType() == gin.MIMEJSON && c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		if err == nil {
			return gjson.GetBytes(body, captchaBodyField).String()
		}
		return ""
	}
	return c.PostForm("g-recaptcha-response")
}
