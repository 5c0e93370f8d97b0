package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactHandler_CreateAndGet(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
		"name":         "Jordan Reyes",
		"phone":        "+14155550123",
		"email":        "jordan@example.com",
		"relationship": "sibling",
		"priority":     1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Priority int    `json:"priority"`
	}
	decodeData(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Jordan Reyes", created.Name)
	assert.Equal(t, 1, created.Priority)

	w = env.do(t, http.MethodGet, "/api/v1/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestContactHandler_CreateInvalidPhone(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
		"name":  "Jordan Reyes",
		"phone": "not-a-phone",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
}

func TestContactHandler_CreateMissingName(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
		"phone": "+14155550123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactHandler_UpdateKeepsUnsetFields(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
		"name":     "Jordan Reyes",
		"phone":    "+14155550123",
		"priority": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &created)

	w = env.do(t, http.MethodPut, "/api/v1/contacts/"+created.ID, map[string]any{
		"name": "Jordan R.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Priority int    `json:"priority"`
	}
	decodeData(t, w, &updated)
	assert.Equal(t, "Jordan R.", updated.Name)
	assert.Equal(t, "+14155550123", updated.Phone)
	assert.Equal(t, 2, updated.Priority)
}

func TestContactHandler_ListOrderedByPriority(t *testing.T) {
	env := setupTestRouter(t)

	for _, c := range []map[string]any{
		{"name": "Second", "phone": "+14155550124", "priority": 2},
		{"name": "First", "phone": "+14155550125", "priority": 1},
	} {
		w := env.do(t, http.MethodPost, "/api/v1/contacts", c)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/contacts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decodeData(t, w, &list)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "First", list.Items[0].Name)
	assert.Equal(t, "Second", list.Items[1].Name)
}

func TestContactHandler_Delete(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{
		"name":  "Jordan Reyes",
		"phone": "+14155550123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &created)

	w = env.do(t, http.MethodDelete, "/api/v1/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
