package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

// Full lifecycle: client posts, admin approves, freelancer applies, the
// client walks the proposal through its states and completes the post.
func TestJobPostAndApplicationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)
	freelancer := env.createUser(t, models.RoleFreelancer)
	admin := env.createUser(t, models.RoleAdmin)

	clientTok := env.tokenFor(t, client)
	freelancerTok := env.tokenFor(t, freelancer)
	adminTok := env.tokenFor(t, admin)

	resp := env.request(t, http.MethodPost, "/api/client/job-posts", clientTok, map[string]any{
		"title":       "Build an API",
		"description": "REST backend for a shop",
		"category":    "development",
		"budget":      2000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.JobPost
	require.NoError(t, env.DB.First(&post, "buyer_id = ?", client.ID).Error)
	assert.Equal(t, models.ApprovalPending, post.ApprovalStatus)
	assert.Equal(t, models.JobPostActive, post.Status)

	// invisible to freelancers while pending
	resp = env.request(t, http.MethodGet, "/api/job-posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["data"])

	// applying to a pending post is rejected
	resp = env.request(t, http.MethodPost, "/api/job-posts/"+post.ID.String()+"/apply", freelancerTok, map[string]any{
		"proposed_price": 1800,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPatch, "/api/admin/job-posts/"+post.ID.String()+"/approval", adminTok, map[string]any{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/job-posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody(t, resp)["data"], 1)

	resp = env.request(t, http.MethodPost, "/api/job-posts/"+post.ID.String()+"/apply", freelancerTok, map[string]any{
		"proposed_price": 1800,
		"cover_letter":   "I can do this",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// one application per freelancer per post
	resp = env.request(t, http.MethodPost, "/api/job-posts/"+post.ID.String()+"/apply", freelancerTok, map[string]any{
		"proposed_price": 1700,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var app models.JobApplication
	require.NoError(t, env.DB.First(&app, "freelancer_id = ?", freelancer.ID).Error)
	assert.Equal(t, models.ApplicationPending, app.Status)

	// pending -> completed skips a state and is rejected
	resp = env.request(t, http.MethodPatch, "/api/applications/"+app.ID.String()+"/status", clientTok, map[string]any{
		"status": "completed",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPatch, "/api/applications/"+app.ID.String()+"/status", clientTok, map[string]any{
		"status": "active",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPatch, "/api/applications/"+app.ID.String()+"/status", clientTok, map[string]any{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPatch, "/api/client/job-posts/"+post.ID.String()+"/complete", clientTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// completing twice fails
	resp = env.request(t, http.MethodPatch, "/api/client/job-posts/"+post.ID.String()+"/complete", clientTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// completed posts leave the public list
	resp = env.request(t, http.MethodGet, "/api/job-posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["data"])
}

func TestApplicationStatusOwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, models.RoleClient)
	otherClient := env.createUser(t, models.RoleClient)
	freelancer := env.createUser(t, models.RoleFreelancer)

	post := models.JobPost{
		BuyerID:        owner.ID,
		Title:          "post",
		Description:    "desc",
		Budget:         100,
		ApprovalStatus: models.ApprovalApproved,
		Status:         models.JobPostActive,
	}
	require.NoError(t, env.DB.Create(&post).Error)

	app := models.JobApplication{
		JobPostID:     post.ID,
		FreelancerID:  freelancer.ID,
		ProposedPrice: 90,
		Status:        models.ApplicationPending,
	}
	require.NoError(t, env.DB.Create(&app).Error)

	// a different client cannot even learn the application exists
	resp := env.request(t, http.MethodPatch, "/api/applications/"+app.ID.String()+"/status", env.tokenFor(t, otherClient), map[string]any{
		"status": "active",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/client/job-posts/"+post.ID.String()+"/applications", env.tokenFor(t, otherClient), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/client/job-posts/"+post.ID.String()+"/applications", env.tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody(t, resp)["data"], 1)
}

func TestApplyCannotTargetOwnPost(t *testing.T) {
	env := newTestEnv(t)
	// a user could hold both roles in data; the guard is on ownership
	user := env.createUser(t, models.RoleFreelancer)

	post := models.JobPost{
		BuyerID:        user.ID,
		Title:          "post",
		Description:    "desc",
		Budget:         100,
		ApprovalStatus: models.ApprovalApproved,
		Status:         models.JobPostActive,
	}
	require.NoError(t, env.DB.Create(&post).Error)

	resp := env.request(t, http.MethodPost, "/api/job-posts/"+post.ID.String()+"/apply", env.tokenFor(t, user), map[string]any{
		"proposed_price": 50,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminJobPostListFilter(t *testing.T) {
	env := newTestEnv(t)
	client := env.createUser(t, models.RoleClient)
	admin := env.createUser(t, models.RoleAdmin)

	for _, st := range []models.ApprovalStatus{models.ApprovalPending, models.ApprovalApproved, models.ApprovalPending} {
		p := models.JobPost{BuyerID: client.ID, Title: "p", Description: "d", Budget: 10, ApprovalStatus: st, Status: models.JobPostActive}
		require.NoError(t, env.DB.Create(&p).Error)
	}

	resp := env.request(t, http.MethodGet, "/api/admin/job-posts?approval=pending", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody(t, resp)["data"], 2)

	// non-admins are locked out of moderation
	resp = env.request(t, http.MethodGet, "/api/admin/job-posts", env.tokenFor(t, client), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
