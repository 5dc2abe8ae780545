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

// %PDF header followed by junk is enough for the upload path; content is
// never parsed server-side.
var pdfBytes = []byte("%PDF-1.4 test proposal content")

func TestUploadProposal(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil)
	quote := CreateTestQuote(t, tx, project.ID, recipient.ID, 200)

	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
		token, "proposal.pdf", "application/pdf", pdfBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		File struct {
			ID       uint   `json:"id"`
			Filename string `json:"filename"`
			Size     int64  `json:"size"`
		} `json:"file"`
	}
	helpers.DecodeResponse(t, w, &resp)
	assert.NotZero(t, resp.File.ID)
	assert.Equal(t, "proposal.pdf", resp.File.Filename)
	assert.Equal(t, int64(len(pdfBytes)), resp.File.Size)
}

func TestUploadProposalRejectsNonPDF(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil)
	quote := CreateTestQuote(t, tx, project.ID, recipient.ID, 200)

	// Wrong extension.
	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
		token, "proposal.txt", "text/plain", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Right extension, wrong declared content type.
	w = ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
		token, "proposal.pdf", "application/octet-stream", pdfBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestUploadProposalReplacesPrevious(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil)
	quote := CreateTestQuote(t, tx, project.ID, recipient.ID, 200)

	for _, name := range []string{"v1.pdf", "v2.pdf"} {
		w := ts.SendMultipartRequest(t, tx, http.MethodPost,
			fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
			token, name, "application/pdf", pdfBytes)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var files []models.ProposalFile
	require.NoError(t, tx.Where("quote_id = ?", quote.ID).Find(&files).Error)
	require.Len(t, files, 1)
	assert.Equal(t, "v2.pdf", files[0].Filename)
}

func TestUploadProposalForeignQuoteForbidden(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	owner, _ := helpers.CreateAndLoginRecipient(t, ts, tx)
	_, otherToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil)
	quote := CreateTestQuote(t, tx, project.ID, owner.ID, 200)

	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
		otherToken, "proposal.pdf", "application/pdf", pdfBytes)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestClosureUploadVersioning(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, token := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	for i := 1; i <= 2; i++ {
		w := ts.SendMultipartRequest(t, tx, http.MethodPost,
			fmt.Sprintf("/api/v1/projects/%d/upload_closure", project.ID),
			token, fmt.Sprintf("result-%d.zip", i), "application/zip", []byte("archive"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			File struct {
				Version *int `json:"version"`
			} `json:"file"`
		}
		helpers.DecodeResponse(t, w, &resp)
		require.NotNil(t, resp.File.Version)
		assert.Equal(t, i, *resp.File.Version)
	}
}

func TestClosureUploadRequiresAssignedRecipient(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)
	_, outsiderToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/projects/%d/upload_closure", project.ID),
		outsiderToken, "result.zip", "application/zip", []byte("archive"))
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestClosureFilesListingOrder(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	CreateTestClosureFile(t, tx, project.ID, recipient.ID, 1)
	CreateTestClosureFile(t, tx, project.ID, recipient.ID, 2)

	// A row from before versioning existed: NULL version, listed last and
	// displayed as version 1.
	legacy := &models.ClosureFile{
		ProjectID:  project.ID,
		UploaderID: recipient.ID,
		Filename:   "legacy.zip",
		StoredPath: "closures/legacy",
		Status:     models.ClosureFileStatusPending,
	}
	require.NoError(t, tx.Create(legacy).Error)

	w := ts.SendRequest(t, tx, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/closure_files", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Files []struct {
			Filename string `json:"filename"`
			Version  int    `json:"version"`
		} `json:"files"`
	}
	helpers.DecodeResponse(t, w, &resp)
	require.Len(t, resp.Files, 3)

	assert.Equal(t, 2, resp.Files[0].Version)
	assert.Equal(t, 1, resp.Files[1].Version)
	assert.Equal(t, "legacy.zip", resp.Files[2].Filename)
	assert.Equal(t, 1, resp.Files[2].Version)
}

func TestDownloadClosureFile(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, delegatorToken := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, recipientToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)

	content := []byte("final deliverable")
	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/projects/%d/upload_closure", project.ID),
		recipientToken, "final.zip", "application/zip", content)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded struct {
		File struct {
			ID uint `json:"id"`
		} `json:"file"`
	}
	helpers.DecodeResponse(t, w, &uploaded)

	// Both the uploader and the delegator may download.
	for _, tok := range []string{recipientToken, delegatorToken} {
		w = ts.SendRequest(t, tx, http.MethodGet,
			fmt.Sprintf("/api/v1/files/%d/download?file_type=closure", uploaded.File.ID), tok, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, content, w.Body.Bytes())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "final.zip")
	}
}

func TestDownloadProposal(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, delegatorToken := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, recipientToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateTestProject(t, tx, delegator.ID, nil)
	quote := CreateTestQuote(t, tx, project.ID, recipient.ID, 200)

	w := ts.SendMultipartRequest(t, tx, http.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/upload_proposal", quote.ID),
		recipientToken, "proposal.pdf", "application/pdf", pdfBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded struct {
		File struct {
			ID uint `json:"id"`
		} `json:"file"`
	}
	helpers.DecodeResponse(t, w, &uploaded)

	w = ts.SendRequest(t, tx, http.MethodGet,
		fmt.Sprintf("/api/v1/files/%d/download?file_type=proposal", uploaded.File.ID), delegatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdfBytes, w.Body.Bytes())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestDownloadForbiddenForOutsiders(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, _ := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)
	_, outsiderToken := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	file := CreateTestClosureFile(t, tx, project.ID, recipient.ID, 1)

	w := ts.SendRequest(t, tx, http.MethodGet,
		fmt.Sprintf("/api/v1/files/%d/download?file_type=closure", file.ID), outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestDownloadMissingBytes(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction()
	defer ts.RollbackTransaction(tx)

	delegator, token := helpers.CreateAndLoginDelegator(t, ts, tx)
	recipient, _ := helpers.CreateAndLoginRecipient(t, ts, tx)

	project := CreateActiveProject(t, tx, delegator.ID, recipient.ID)
	// Metadata row whose stored path has no bytes behind it.
	file := CreateTestClosureFile(t, tx, project.ID, recipient.ID, 1)

	w := ts.SendRequest(t, tx, http.MethodGet,
		fmt.Sprintf("/api/v1/files/%d/download?file_type=closure", file.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}
