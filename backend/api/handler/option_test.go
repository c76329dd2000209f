package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uplink/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetOptions_RedactsWebhookSecret(t *testing.T) {
	teardown := setupHandlerTestDB(t)
	defer teardown()
	gin.SetMode(gin.TestMode)

	assert.NoError(t, model.UpdateOption(model.OptionWebhookSecret, "whsec_hidden"))

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request, _ = http.NewRequest(http.MethodGet, "/api/option", nil)
	GetOptions(ctx)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var options map[string]string
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, recorder).Data, &options))
	_, leaked := options[model.OptionWebhookSecret]
	assert.False(t, leaked)
	assert.NotContains(t, recorder.Body.String(), "whsec_hidden")
	assert.Equal(t, "true", options[model.OptionRegisterEnabled])
}

func TestUpdateOptionHandler(t *testing.T) {
	teardown := setupHandlerTestDB(t)
	defer teardown()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Set("lang", "en")
	ctx.Request = newJSONRequest(t, http.MethodPut, "/api/option", map[string]any{
		"key":   model.OptionFreeActiveLinks,
		"value": "5",
	})
	UpdateOption(ctx)
	assert.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, int64(5), model.GetOptionInt64(model.OptionFreeActiveLinks, 0))
}
