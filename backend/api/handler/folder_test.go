package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"uplink/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFolderCRUDHandlers(t *testing.T) {
	teardown := setupHandlerTestDB(t)
	defer teardown()
	gin.SetMode(gin.TestMode)

	_, root := testWorkspaceFolder(t, 2)

	// Create a child under the root folder.
	createRecorder := httptest.NewRecorder()
	createCtx := authedContext(t, createRecorder, 2, "alice")
	createCtx.Request = newJSONRequest(t, http.MethodPost, "/api/folders", map[string]any{
		"name":      "Invoices",
		"parent_id": root.ID,
	})
	CreateFolder(createCtx)
	assert.Equal(t, http.StatusOK, createRecorder.Code)
	var created model.Folder
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, createRecorder).Data, &created))
	assert.Equal(t, "Invoices", created.Name)
	assert.Equal(t, root.ID, created.ParentID)

	// List shows root plus the new child.
	listRecorder := httptest.NewRecorder()
	listCtx := authedContext(t, listRecorder, 2, "alice")
	listCtx.Request, _ = http.NewRequest(http.MethodGet, "/api/folders", nil)
	GetFolders(listCtx)
	var folders []model.Folder
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, listRecorder).Data, &folders))
	assert.Len(t, folders, 2)

	// Rename
	updateRecorder := httptest.NewRecorder()
	updateCtx := authedContext(t, updateRecorder, 2, "alice")
	updateCtx.Request = newJSONRequest(t, http.MethodPut, "/api/folders/x", map[string]any{
		"name":      "Invoices 2026",
		"parent_id": root.ID,
	})
	updateCtx.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(created.ID, 10)}}
	UpdateFolder(updateCtx)
	assert.Equal(t, http.StatusOK, updateRecorder.Code)
	var renamed model.Folder
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, updateRecorder).Data, &renamed))
	assert.Equal(t, "Invoices 2026", renamed.Name)

	// Delete
	deleteRecorder := httptest.NewRecorder()
	deleteCtx := authedContext(t, deleteRecorder, 2, "alice")
	deleteCtx.Request, _ = http.NewRequest(http.MethodDelete, "/api/folders/x", nil)
	deleteCtx.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(created.ID, 10)}}
	DeleteFolderHandler(deleteCtx)
	assert.Equal(t, http.StatusOK, deleteRecorder.Code)
}

func TestUpdateFolder_CycleRejected(t *testing.T) {
	teardown := setupHandlerTestDB(t)
	defer teardown()
	gin.SetMode(gin.TestMode)

	workspace, root := testWorkspaceFolder(t, 2)

	parent := &model.Folder{WorkspaceID: workspace.ID, ParentID: root.ID, Name: "parent"}
	assert.NoError(t, parent.Save())
	child := &model.Folder{WorkspaceID: workspace.ID, ParentID: parent.ID, Name: "child"}
	assert.NoError(t, child.Save())

	// Moving parent under its own child would loop the tree.
	recorder := httptest.NewRecorder()
	ctx := authedContext(t, recorder, 2, "alice")
	ctx.Request = newJSONRequest(t, http.MethodPut, "/api/folders/x", map[string]any{
		"name":      "parent",
		"parent_id": child.ID,
	})
	ctx.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(parent.ID, 10)}}
	UpdateFolder(ctx)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteFolderHandler_NotEmptyConflict(t *testing.T) {
	teardown := setupHandlerTestDB(t)
	defer teardown()
	gin.SetMode(gin.TestMode)

	workspace, root := testWorkspaceFolder(t, 2)
	child := &model.Folder{WorkspaceID: workspace.ID, ParentID: root.ID, Name: "child"}
	assert.NoError(t, child.Save())

	recorder := httptest.NewRecorder()
	ctx := authedContext(t, recorder, 2, "alice")
	ctx.Request, _ = http.NewRequest(http.MethodDelete, "/api/folders/x", nil)
	ctx.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(root.ID, 10)}}
	DeleteFolderHandler(ctx)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}
