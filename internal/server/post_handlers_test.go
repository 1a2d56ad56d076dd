package server

import (
	"fmt"
	"net/http"
	"testing"

	"cadence/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLifecycleOverHTTP(t *testing.T) {
	_, app, _ := setupTestServer(t)

	var user models.User
	resp := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"username": "handler-user",
		"email":    "handler@example.com",
		"password": "longenough",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &user)
	require.NotZero(t, user.ID)

	var post models.Post
	resp = doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"user_id": user.ID,
		"content": "I love this great new release #go",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &post)
	assert.Equal(t, models.PostStatusPending, post.Status)

	// run the analysis pipeline
	var analysis models.Analysis
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/analyze", post.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &analysis)
	assert.Equal(t, post.ID, analysis.PostID)
	assert.Greater(t, analysis.Sentiment, 0.0)

	var fetched models.Post
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, models.PostStatusCompleted, fetched.Status)
	require.NotNil(t, fetched.Analysis)

	// performance view includes the scores
	var perf models.PostPerformance
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/performance", post.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &perf)
	require.NotNil(t, perf.Sentiment)
	assert.InDelta(t, analysis.Sentiment, *perf.Sentiment, 0.001)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// deleting the post left an audit entry
	var entries []models.AuditEntry
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/audit?entity_type=post&entity_id=%d", post.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditMsgPostDeleted, entries[0].Message)
}

func TestUpsertAnalysisOverHTTP(t *testing.T) {
	_, app, db := setupTestServer(t)

	user := models.User{Username: "scorer", Email: "scorer@example.com", PasswordHash: "x", Status: models.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{UserID: user.ID, Content: "x", Status: models.PostStatusPending}
	require.NoError(t, db.Create(&post).Error)

	url := fmt.Sprintf("/api/posts/%d/analysis", post.ID)

	resp := doJSON(t, app, http.MethodPut, url, fiber.Map{
		"sentiment": 0.5, "engagement": 60.0, "keywords": "one,two",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// second write updates in place
	var updated models.Analysis
	resp = doJSON(t, app, http.MethodPut, url, fiber.Map{
		"sentiment": -0.25, "engagement": 70.0,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &updated)
	assert.InDelta(t, -0.25, updated.Sentiment, 0.001)
	assert.Equal(t, "one,two", updated.Keywords)

	// out-of-range scores are rejected
	resp = doJSON(t, app, http.MethodPut, url, fiber.Map{
		"sentiment": 1.5, "engagement": 60.0,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// unknown post
	resp = doJSON(t, app, http.MethodPut, "/api/posts/999/analysis", fiber.Map{
		"sentiment": 0.0, "engagement": 0.0,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTagEndpoints(t *testing.T) {
	_, app, db := setupTestServer(t)

	user := models.User{Username: "tagger", Email: "tagger@example.com", PasswordHash: "x", Status: models.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{UserID: user.ID, Content: "x", Status: models.PostStatusPending}
	require.NoError(t, db.Create(&post).Error)

	var tag models.Tag
	resp := doJSON(t, app, http.MethodPost, "/api/tags", fiber.Map{"name": "Weekly Update"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &tag)
	assert.Equal(t, "weekly update", tag.Name)

	resp = doJSON(t, app, http.MethodPost, "/api/tags", fiber.Map{"name": "weekly update"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	attachURL := fmt.Sprintf("/api/posts/%d/tags", post.ID)
	resp = doJSON(t, app, http.MethodPost, attachURL, fiber.Map{"tag_id": tag.ID})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// attaching by name creates the tag on the fly
	resp = doJSON(t, app, http.MethodPost, attachURL, fiber.Map{"name": "fresh"})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var tags []models.Tag
	resp = doJSON(t, app, http.MethodGet, attachURL, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &tags)
	assert.Len(t, tags, 2)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/tags/%d", post.ID, tag.ID), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, attachURL, nil)
	decodeJSON(t, resp, &tags)
	assert.Len(t, tags, 1)
}

func TestUserAnalyticsEndpoint(t *testing.T) {
	_, app, db := setupTestServer(t)

	user := models.User{Username: "nums", Email: "nums@example.com", PasswordHash: "x", Status: models.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{UserID: user.ID, Content: "x", Status: models.PostStatusPending}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Analysis{PostID: post.ID, Sentiment: 0.4, Engagement: 44}).Error)

	var analytics models.UserAnalytics
	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/analytics", user.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &analytics)
	assert.EqualValues(t, 1, analytics.TotalPosts)
	require.NotNil(t, analytics.AvgEngagement)
	assert.InDelta(t, 44, *analytics.AvgEngagement, 0.001)

	resp = doJSON(t, app, http.MethodGet, "/api/users/999/analytics", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
