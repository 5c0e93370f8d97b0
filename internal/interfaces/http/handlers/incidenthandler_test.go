package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appincident "safyra/internal/application/incident"
	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/repository"
	"safyra/internal/shared/logger"
)

func setupIncidentRouter(t *testing.T, sosRepo sos.Repository) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger()
	service := appincident.NewService(nil, nil, sosRepo, log)
	handler := NewIncidentHandler(service, log)

	router := gin.New()
	router.GET("/api/v1/incidents", handler.List)
	router.GET("/api/v1/incidents/stats", handler.Stats)

	return &testEnv{engine: router}
}

func TestIncidentHandler_ListIncludesLocalRecordings(t *testing.T) {
	repo := repository.NewMemorySOSRepository()

	recording, err := sos.NewRecording(DefaultUserID, "Market St", "aGVsbG8=", 4.2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), recording))

	env := setupIncidentRouter(t, repo)

	w := env.do(t, http.MethodGet, "/api/v1/incidents", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items []struct {
			Type     string `json:"type"`
			Status   string `json:"status"`
			Severity string `json:"severity"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decodeData(t, w, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "sos_call", list.Items[0].Type)
	assert.Equal(t, "active", list.Items[0].Status)
	assert.Equal(t, "critical", list.Items[0].Severity)
}

func TestIncidentHandler_Stats(t *testing.T) {
	repo := repository.NewMemorySOSRepository()

	recording, err := sos.NewRecording(DefaultUserID, "Market St", "aGVsbG8=", 4.2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), recording))

	env := setupIncidentRouter(t, repo)

	w := env.do(t, http.MethodGet, "/api/v1/incidents/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Total    int `json:"total"`
		SOSCalls int `json:"sos_calls"`
		Active   int `json:"active"`
	}
	decodeData(t, w, &stats)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.SOSCalls)
	assert.Equal(t, 1, stats.Active)
}
