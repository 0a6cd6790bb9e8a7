package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nazmulhs/campushub/internal/database/testutil"
	"github.com/nazmulhs/campushub/internal/middleware"
	"github.com/nazmulhs/campushub/internal/models"
	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/response"
)

func TestNotificationHandlerListAndMarkRead(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := services.NewNotificationService(db, nil)
	require.NoError(t, err)
	handler := NewNotificationHandler(service)

	user := models.User{
		StudentID: "2020331001",
		Email:     "dana@example.edu",
		Name:      "Dana",
		Password:  "secret",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)

	_, err = service.Create(testContext(), services.CreateNotificationInput{
		UserID:  user.ID,
		Type:    models.NotificationAnnouncement,
		Title:   "Seminar rescheduled",
		Message: "The ML seminar moved to room 402",
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set(middleware.CtxUserIDKey, user.ID)
	handler.List(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.True(t, payload.Success)

	dataBytes, err := json.Marshal(payload.Data)
	require.NoError(t, err)

	var items []services.NotificationDTO
	require.NoError(t, json.Unmarshal(dataBytes, &items))
	require.Len(t, items, 1)

	readRecorder := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(readRecorder)
	c2.Params = gin.Params{gin.Param{Key: "id", Value: items[0].ID}}
	c2.Set(middleware.CtxUserIDKey, user.ID)
	handler.MarkRead(c2)

	require.Equal(t, http.StatusOK, readRecorder.Code)

	var readPayload response.Response
	require.NoError(t, json.Unmarshal(readRecorder.Body.Bytes(), &readPayload))
	require.True(t, readPayload.Success)

	readData, err := json.Marshal(readPayload.Data)
	require.NoError(t, err)

	var dto services.NotificationDTO
	require.NoError(t, json.Unmarshal(readData, &dto))
	require.True(t, dto.IsRead)
}

func TestNotificationHandlerRequiresUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := services.NewNotificationService(db, nil)
	require.NoError(t, err)
	handler := NewNotificationHandler(service)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	handler.List(c)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
