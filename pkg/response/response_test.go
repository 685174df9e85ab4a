package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(htmx bool) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if htmx {
		c.Request.Header.Set(HeaderHXRequest, "true")
	}
	return c, w
}

func TestSuccessAndFail(t *testing.T) {
	c, w := newContext(false)
	Success(c, map[string]bool{"bookmarked": true}, "ok")

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Equal(t, "ok", body.Message)

	c, w = newContext(false)
	Fail(c, http.StatusBadRequest, "sai")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)
}

func TestShowToastHeader(t *testing.T) {
	c, w := newContext(true)
	ShowToast(c, ToastSuccess, "Đã lưu")
	c.Status(http.StatusOK)

	var trigger map[string]Toast
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(HeaderHXTrigger)), &trigger))
	assert.Equal(t, Toast{Level: ToastSuccess, Message: "Đã lưu"}, trigger["toast"])
}

func TestRedirect(t *testing.T) {
	c, w := newContext(true)
	Redirect(c, "/login")
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/login", w.Header().Get(HeaderHXRedirect))

	c, w = newContext(false)
	Redirect(c, "/login")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestFailToast(t *testing.T) {
	c, w := newContext(true)
	FailToast(c, http.StatusBadGateway, "Lỗi máy chủ")
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "none", w.Header().Get(HeaderHXReswap))

	var trigger map[string]Toast
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(HeaderHXTrigger)), &trigger))
	assert.Equal(t, "Lỗi máy chủ", trigger["toast"].Message)
	assert.NotContains(t, w.Header().Get(HeaderHXTrigger), "ỗ")
}
