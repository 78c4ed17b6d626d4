package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/middleware"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

func TestProfileLazyCreateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	freelancer := env.createUser(t, models.RoleFreelancer)
	token := env.tokenFor(t, freelancer)

	first := env.request(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	firstBody := decodeBody(t, first)

	second := env.request(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, second.StatusCode)
	secondBody := decodeBody(t, second)

	firstProfile := firstBody["profile"].(map[string]any)
	secondProfile := secondBody["profile"].(map[string]any)
	assert.Equal(t, firstProfile["id"], secondProfile["id"])

	var count int64
	require.NoError(t, env.DB.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", freelancer.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// arrays default to [], never null
	assert.Equal(t, []any{}, firstProfile["skills"])
	assert.Equal(t, []any{}, firstProfile["languages"])
}

func TestProfileGetUsesRoleTable(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)

	resp := env.request(t, http.MethodGet, "/api/profile", env.tokenFor(t, client), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	profile := body["profile"].(map[string]any)
	assert.Contains(t, profile, "company_name")
	assert.Equal(t, []any{}, profile["payment_methods"])

	var count int64
	require.NoError(t, env.DB.Model(&models.FreelancerProfile{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "client read must not create a freelancer row")
}

func TestUpdateFreelancerArrayOmissionPolicy(t *testing.T) {
	env := newTestEnv(t)
	freelancer := env.createUser(t, models.RoleFreelancer)
	token := env.tokenFor(t, freelancer)

	resp := env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"title":  "Backend developer",
		"skills": []string{"go", "postgres"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Backend developer", body["title"])
	assert.Equal(t, []any{"go", "postgres"}, body["skills"])

	// omitting skills preserves the stored value
	resp = env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"title": "Senior backend developer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Senior backend developer", body["title"])
	assert.Equal(t, []any{"go", "postgres"}, body["skills"])

	// an explicit empty array overwrites
	resp = env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"skills": []string{},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, []any{}, body["skills"])
	assert.Equal(t, "Senior backend developer", body["title"])
}

func TestUpdateFreelancerNumericAndDateParsing(t *testing.T) {
	env := newTestEnv(t)
	freelancer := env.createUser(t, models.RoleFreelancer)
	token := env.tokenFor(t, freelancer)

	resp := env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"hourly_rate":      "45.5",
		"experience_years": "7",
		"date_of_birth":    "1992-03-14",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, 45.5, body["hourly_rate"])
	assert.EqualValues(t, 7, body["experience_years"])

	// empty string clears to NULL
	resp = env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"hourly_rate": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Nil(t, body["hourly_rate"])
	assert.EqualValues(t, 7, body["experience_years"])

	// non-numeric input is a validation failure
	resp = env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"hourly_rate": "a lot",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/profile/freelancer", token, map[string]any{
		"date_of_birth": "14/03/1992",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateClientProfile(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)
	token := env.tokenFor(t, client)

	resp := env.request(t, http.MethodPut, "/api/profile/client", token, map[string]any{
		"company_name":    "Acme Ltd",
		"website":         "https://acme.example",
		"payment_methods": []map[string]string{{"type": "card", "label": "Visa"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Acme Ltd", body["company_name"])
	assert.Equal(t, "https://acme.example", body["website"])
	require.Len(t, body["payment_methods"], 1)
}

func TestUpdateFreelancerRejectsClientRole(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)

	resp := env.request(t, http.MethodPut, "/api/profile/freelancer", env.tokenFor(t, client), map[string]any{
		"title": "nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func (e *testEnv) uploadProfileImage(t *testing.T, token, filename, contentType string, data []byte) *http.Response {
	t.Helper()

	body, formType := multipartBody(t, "profileImage", filename, contentType, data)
	req, err := http.NewRequest(http.MethodPost, "/api/profile/upload-image", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", formType)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadProfileImage(t *testing.T) {
	env := newTestEnv(t)
	freelancer := env.createUser(t, models.RoleFreelancer)
	token := env.tokenFor(t, freelancer)

	resp := env.uploadProfileImage(t, token, "avatar.png", "image/png", []byte("fake png bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	imagePath, _ := body["imagePath"].(string)
	require.NotEmpty(t, imagePath)
	assert.Contains(t, imagePath, "/uploads/profiles/"+freelancer.ID.String()+"/")

	var p models.FreelancerProfile
	require.NoError(t, env.DB.Where("user_id = ?", freelancer.ID).First(&p).Error)
	assert.Equal(t, imagePath, p.ImagePath)
}

func TestUploadProfileImageRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)
	token := env.tokenFor(t, client)

	// wrong extension
	resp := env.uploadProfileImage(t, token, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// image extension with non-image content type
	resp = env.uploadProfileImage(t, token, "avatar.png", "application/octet-stream", []byte("bytes"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// missing field
	resp = env.request(t, http.MethodPost, "/api/profile/upload-image", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadProfileImageRejectsOversize(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)

	big := make([]byte, maxProfileImageSize+1)
	resp := env.uploadProfileImage(t, env.tokenFor(t, client), "huge.jpg", "image/jpeg", big)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFindOrCreateProfileSurvivesDuplicateCreate(t *testing.T) {
	env := newTestEnv(t)
	freelancer := env.createUser(t, models.RoleFreelancer)
	h := NewProfileHandler(env.DB, t.TempDir())

	first, err := h.findOrCreateFreelancerProfile(env.DB, freelancer.ID)
	require.NoError(t, err)

	// simulate the losing side of a create race: the row already exists,
	// so a blind insert trips the unique index and the helper must fall
	// back to reading the winner
	dup := models.FreelancerProfile{UserID: freelancer.ID}
	insertErr := env.DB.Create(&dup).Error
	require.Error(t, insertErr)
	assert.True(t, isUniqueViolation(insertErr))

	again, err := h.findOrCreateFreelancerProfile(env.DB, freelancer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}
