package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"delego_backend/internal/models"
	"delego_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	_, token := helpers.CreateAndLoginDelegator(t, ts, tx)

	w := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"title":       "Landing page",
		"description": "Five sections, responsive",
		"deadline":    "2030-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Project struct {
			ID       uint       `json:"id"`
			Title    string     `json:"title"`
			Status   string     `json:"status"`
			Deadline *time.Time `json:"deadline"`
		} `json:"project"`
	}
	helpers.DecodeResponse(t, w, &resp)
	assert.NotZero(t, resp.Project.ID)
	assert.Equal(t, "pending", resp.Project.Status)
	require.NotNil(t, resp.Project.Deadline)
	assert.Equal(t, 2030, resp.Project.Deadline.Year())
}

func TestCreateProjectInvalidDeadline(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	_, token := helpers.CreateAndLoginDelegator(t, ts, tx)

	w := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"title":       "Bad deadline",
		"description": "whatever",
		"deadline":    "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestProjectRoutesRequireDelegatorRole(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	_, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	w := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"title":       "Nope",
		"description": "recipients cannot post projects",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestUpdateProjectOnlyWhilePending(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	pending := CreateTestProject(t, tx, delegator.ID, nil)
	active := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	w := ts.SendRequest(t, tx, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", pending.ID), token, map[string]string{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Project
	require.NoError(t, tx.First(&updated, pending.ID).Error)
	assert.Equal(t, "Renamed", updated.Title)

	w = ts.SendRequest(t, tx, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", active.ID), token, map[string]string{
		"title": "Too late",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	helpers.DecodeResponse(t, w, &resp)
	assert.Equal(t, "INVALID_STATUS", resp.Code)
}

func TestDeleteProject(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	project := CreateTestProject(t, tx, delegator.ID, nil)

	w := ts.SendRequest(t, tx, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, tx.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteForeignProjectForbidden(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	owner, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	_, otherToken := helpers.CreateAndLoginDelegator(t, ts, tx)
	project := CreateTestProject(t, tx, owner.ID, nil)

	w := ts.SendRequest(t, tx, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", project.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestSelectDelegate(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	winner, _ := helpers.CreateAndLoginRecipient(t, ts, tx)
	loser, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	past := time.Now().Add(-time.Hour)
	project := CreateTestProject(t, tx, delegator.ID, func(p *models.Project) {
		p.Deadline = &past
	})
	winningQuote := CreateTestQuote(t, tx, project.ID, winner.ID, 500)
	losingQuote := CreateTestQuote(t, tx, project.ID, loser.ID, 400)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/select_delegate", project.ID), token, map[string]uint{
		"quote_id": winningQuote.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Project
	require.NoError(t, tx.First(&updated, project.ID).Error)
	assert.Equal(t, models.ProjectStatusActive, updated.Status)
	require.NotNil(t, updated.DelegateID)
	assert.Equal(t, winner.ID, *updated.DelegateID)

	var accepted, rejected models.Quote
	require.NoError(t, tx.First(&accepted, winningQuote.ID).Error)
	require.NoError(t, tx.First(&rejected, losingQuote.ID).Error)
	assert.Equal(t, models.QuoteStatusAccepted, accepted.Status)
	assert.Equal(t, models.QuoteStatusRejected, rejected.Status)
}

func TestSelectDelegateBeforeDeadline(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil) // deadline tomorrow
	quote := CreateTestQuote(t, tx, project.ID, recipient.ID, 300)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/select_delegate", project.ID), token, map[string]uint{
		"quote_id": quote.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	helpers.DecodeResponse(t, w, &resp)
	assert.Equal(t, "DEADLINE_ACTIVE", resp.Code)
}

func TestSelectDelegateForeignQuote(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	past := time.Now().Add(-time.Hour)
	project := CreateTestProject(t, tx, delegator.ID, func(p *models.Project) { p.Deadline = &past })
	otherProject := CreateTestProject(t, tx, delegator.ID, func(p *models.Project) { p.Deadline = &past })
	foreignQuote := CreateTestQuote(t, tx, otherProject.ID, recipient.ID, 100)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/select_delegate", project.ID), token, map[string]uint{
		"quote_id": foreignQuote.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestCloseAccept(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	file := CreateTestClosureFile(t, tx, project.ID, recipient.ID, 1)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/close", project.ID), token, map[string]string{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Project
	require.NoError(t, tx.First(&updated, project.ID).Error)
	assert.Equal(t, models.ProjectStatusClosed, updated.Status)

	var updatedFile models.ClosureFile
	require.NoError(t, tx.First(&updatedFile, file.ID).Error)
	assert.Equal(t, models.ClosureFileStatusAccepted, updatedFile.Status)
}

func TestCloseReturnKeepsProjectActive(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	file := CreateTestClosureFile(t, tx, project.ID, recipient.ID, 1)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/close", project.ID), token, map[string]interface{}{
		"action":  "return",
		"file_id": file.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Project
	require.NoError(t, tx.First(&updated, project.ID).Error)
	assert.Equal(t, models.ProjectStatusActive, updated.Status)

	var updatedFile models.ClosureFile
	require.NoError(t, tx.First(&updatedFile, file.ID).Error)
	assert.Equal(t, models.ClosureFileStatusReturned, updatedFile.Status)
}

func TestCloseByOutsiderForbidden(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)
	_, outsiderToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	w := ts.SendRequest(t, tx, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/close", project.ID), outsiderToken, map[string]string{
		"action": "accept",
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestHistoryListsFinishedProjects(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, recipientToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	CreateTestProject(t, tx, delegator.ID, func(p *models.Project) {
		p.Status = models.ProjectStatusClosed
		p.DelegateID = &recipient.ID
	})
	CreateTestProject(t, tx, delegator.ID, nil) // still pending, not in history

	for _, tok := range []string{token, recipientToken} {
		w := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/history", tok, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Projects []struct {
				Status string `json:"status"`
			} `json:"projects"`
		}
		helpers.DecodeResponse(t, w, &resp)
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, "closed", resp.Projects[0].Status)
	}
}

func TestMyProjects(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	assigned := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	CreateTestProject(t, tx, delegator.ID, nil) // unassigned

	w := ts.SendRequest(t, tx, http.MethodGet, "/api/v1/my_projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Projects []struct {
			ID uint `json:"id"`
		} `json:"projects"`
	}
	helpers.DecodeResponse(t, w, &resp)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, assigned.ID, resp.Projects[0].ID)
}
