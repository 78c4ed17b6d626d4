package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/cache"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/middleware"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
	"github.com/asad7116/Freelancing-Platform-sub001/internal/utils"
)

const (
	testJWTSecret = "test-secret"
	testEncKey    = "0123456789abcdef" // 16 bytes
)

type testEnv struct {
	App *fiber.App
	DB  *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a second pooled connection would see a different in-memory DB
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.ClientProfile{},
		&models.Gig{},
		&models.JobPost{},
		&models.JobApplication{},
		&models.Category{},
		&models.Skill{},
		&models.City{},
		&models.Specialty{},
	))
	return gdb
}

func newTestDenylist(t *testing.T) *cache.TokenDenylist {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewTokenDenylist(rdb)
}

// newTestEnv wires the same route table as cmd/api/main.go against an
// in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := newTestDB(t)
	denylist := newTestDenylist(t)
	uploadDir := t.TempDir()

	authH := &AuthHandler{DB: gdb, Denylist: denylist, JWTSecret: testJWTSecret, Expires: 60}
	clientDashH := NewClientDashboardHandler(gdb)
	freelancerDashH := NewFreelancerDashboardHandler(gdb)
	profileH := NewProfileHandler(gdb, uploadDir)
	gigH := NewGigHandler(gdb, uploadDir, testEncKey)
	jobPostH := NewJobPostHandler(gdb)
	applicationH := NewApplicationHandler(gdb)
	taxonomyH := NewTaxonomyHandler(gdb)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	api := app.Group("/api")

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Get("/categories", taxonomyH.GetCategories)
	api.Get("/skills", taxonomyH.GetSkills)
	api.Get("/cities", taxonomyH.GetCities)
	api.Get("/specialties", taxonomyH.GetSpecialties)
	api.Get("/gigs", gigH.ListPublic)
	api.Get("/gigs/:id", gigH.GetDetail)
	api.Get("/job-posts", jobPostH.ListPublic)

	protected := api.Group("/",
		middleware.JWTAuth(testJWTSecret, denylist),
		middleware.AttachJWTLocals(),
	)

	protected.Post("/auth/logout", authH.Logout)
	protected.Get("/me", authH.Me)

	protected.Get("/client/dashboard", middleware.RequireRoles("client"), clientDashH.GetStats)
	protected.Get("/freelancer/dashboard", middleware.RequireRoles("freelancer"), freelancerDashH.GetStats)

	protected.Get("/profile", profileH.Get)
	protected.Put("/profile/freelancer", middleware.RequireRoles("freelancer"), profileH.UpdateFreelancer)
	protected.Put("/profile/client", middleware.RequireRoles("client"), profileH.UpdateClient)
	protected.Post("/profile/upload-image", profileH.UploadImage)

	protected.Post("/freelancer/gigs", middleware.RequireRoles("freelancer"), gigH.Create)
	protected.Get("/freelancer/gigs", middleware.RequireRoles("freelancer"), gigH.ListMine)
	protected.Get("/freelancer/gigs/:id", middleware.RequireRoles("freelancer"), gigH.GetOne)
	protected.Put("/freelancer/gigs/:id", middleware.RequireRoles("freelancer"), gigH.Update)
	protected.Delete("/freelancer/gigs/:id", middleware.RequireRoles("freelancer"), gigH.Delete)

	protected.Post("/client/job-posts", middleware.RequireRoles("client"), jobPostH.Create)
	protected.Get("/client/job-posts", middleware.RequireRoles("client"), jobPostH.ListMine)
	protected.Patch("/client/job-posts/:id/complete", middleware.RequireRoles("client"), jobPostH.Complete)
	protected.Get("/client/job-posts/:id/applications", middleware.RequireRoles("client"), applicationH.ListForJobPost)

	protected.Post("/job-posts/:id/apply", middleware.RequireRoles("freelancer"), applicationH.Apply)
	protected.Get("/freelancer/applications", middleware.RequireRoles("freelancer"), applicationH.ListMine)
	protected.Patch("/applications/:id/status", middleware.RequireRoles("client"), applicationH.SetStatus)

	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Post("/categories", taxonomyH.AdminCreateCategory)
	admin.Patch("/categories/:id/status", taxonomyH.AdminSetCategoryStatus)
	admin.Post("/skills", taxonomyH.AdminCreateSkill)
	admin.Patch("/skills/:id/status", taxonomyH.AdminSetSkillStatus)
	admin.Post("/cities", taxonomyH.AdminCreateCity)
	admin.Post("/specialties", taxonomyH.AdminCreateSpecialty)
	admin.Get("/job-posts", jobPostH.AdminList)
	admin.Patch("/job-posts/:id/approval", jobPostH.AdminSetApproval)

	return &testEnv{App: app, DB: gdb}
}

func (e *testEnv) createUser(t *testing.T, role models.Role) models.User {
	t.Helper()

	u := models.User{
		Name:     "Test " + string(role),
		Email:    uuid.New().String() + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.DB.Create(&u).Error)
	return u
}

func (e *testEnv) tokenFor(t *testing.T, u models.User) string {
	t.Helper()

	tok, err := utils.SignJWT(testJWTSecret, u.ID.String(), string(u.Role), 60)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// multipartBody builds a single-file multipart form with an explicit part
// content type.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)

	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}
