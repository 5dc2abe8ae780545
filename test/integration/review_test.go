package integration

import (
	"fmt"
	"net/http"
	"testing"

	"delego_backend/internal/models"
	"delego_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRequiresClosedProject(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/review", project.ID), token, map[string]interface{}{
		"dimension_1": 5, "dimension_2": 5, "dimension_3": 5,
		"comment": "too early",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	helpers.DecodeResponse(t, w, &resp)
	assert.Equal(t, "INVALID_STATUS", resp.Code)
}

func TestReviewFlow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, delegatorToken := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, recipientToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, func(p *models.Project) {
		p.Status = models.ProjectStatusClosed
		p.DelegateID = &recipient.ID
	})

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/review", project.ID), delegatorToken, map[string]interface{}{
		"dimension_1": 5, "dimension_2": 4, "dimension_3": 3,
		"comment": "Solid work",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Review struct {
			RevieweeID    uint    `json:"reviewee_id"`
			AverageRating float64 `json:"average_rating"`
		} `json:"review"`
	}
	helpers.DecodeResponse(t, w, &created)
	assert.Equal(t, recipient.ID, created.Review.RevieweeID)
	assert.InDelta(t, 4.0, created.Review.AverageRating, 0.001)

	// Second review of the same project by the same party conflicts.
	w = ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/review", project.ID), delegatorToken, map[string]interface{}{
		"dimension_1": 1, "dimension_2": 1, "dimension_3": 1,
		"comment": "changed my mind",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// The recipient reviews back independently.
	w = ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/review", project.ID), recipientToken, map[string]interface{}{
		"dimension_1": 5, "dimension_2": 5, "dimension_3": 5,
		"comment": "Great client",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Aggregate for the recipient reflects the single received review.
	w = ts.SendRequest(t, tx, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/rating", recipient.ID), delegatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats struct {
		Rating struct {
			Average float64 `json:"average"`
			Count   int64   `json:"count"`
			Reviews []struct {
				Comment string  `json:"comment"`
				Average float64 `json:"average"`
			} `json:"reviews"`
		} `json:"rating"`
	}
	helpers.DecodeResponse(t, w, &stats)
	assert.Equal(t, 4.0, stats.Rating.Average)
	assert.Equal(t, int64(1), stats.Rating.Count)
	require.Len(t, stats.Rating.Reviews, 1)
	assert.Equal(t, "Solid work", stats.Rating.Reviews[0].Comment)
}

func TestReviewValidatesDimensions(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, func(p *models.Project) {
		p.Status = models.ProjectStatusClosed
		p.DelegateID = &recipient.ID
	})

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/review", project.ID), token, map[string]interface{}{
		"dimension_1": 6, "dimension_2": 5, "dimension_3": 5,
		"comment": "out of range",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestRatingForUnknownUser(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	_, token := helpers.CreateAndLoginDelegator(t, ts, tx)

	w := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/users/999999/rating", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestRatingWithoutReviews(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	fresh, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	w := ts.SendRequest(t, tx, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/rating", fresh.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats struct {
		Rating struct {
			Average float64 `json:"average"`
			Count   int64   `json:"count"`
			Reviews []any   `json:"reviews"`
		} `json:"rating"`
	}
	helpers.DecodeResponse(t, w, &stats)
	assert.Zero(t, stats.Rating.Average)
	assert.Zero(t, stats.Rating.Count)
	assert.Empty(t, stats.Rating.Reviews)
}
