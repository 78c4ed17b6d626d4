package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/asad7116/Freelancing-Platform-sub001/internal/models"
)

type ProfileHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewProfileHandler(db *gorm.DB, uploadDir string) *ProfileHandler {
	return &ProfileHandler{DB: db, UploadDir: uploadDir}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}

// findOrCreateFreelancerProfile reads the row keyed on user_id, creating
// it with empty-array defaults on first access. When two first-time
// writes race, the unique index on user_id decides the winner and the
// loser re-reads the winning row instead of surfacing the constraint
// error.
func (h *ProfileHandler) findOrCreateFreelancerProfile(tx *gorm.DB, userID uuid.UUID) (*models.FreelancerProfile, error) {
	var p models.FreelancerProfile
	err := tx.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = models.FreelancerProfile{
		UserID:         userID,
		Skills:         models.EmptyJSONArray(),
		Languages:      models.EmptyJSONArray(),
		Education:      models.EmptyJSONArray(),
		Experience:     models.EmptyJSONArray(),
		Certifications: models.EmptyJSONArray(),
		Portfolio:      models.EmptyJSONArray(),
	}

	if err := tx.Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			var won models.FreelancerProfile
			if err2 := tx.Where("user_id = ?", userID).First(&won).Error; err2 == nil {
				return &won, nil
			}
		}
		return nil, err
	}
	return &p, nil
}

func (h *ProfileHandler) findOrCreateClientProfile(tx *gorm.DB, userID uuid.UUID) (*models.ClientProfile, error) {
	var p models.ClientProfile
	err := tx.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = models.ClientProfile{
		UserID:         userID,
		PaymentMethods: models.EmptyJSONArray(),
	}

	if err := tx.Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			var won models.ClientProfile
			if err2 := tx.Where("user_id = ?", userID).First(&won).Error; err2 == nil {
				return &won, nil
			}
		}
		return nil, err
	}
	return &p, nil
}

// Get returns {user, profile}; the profile table follows the user's role.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail404(c, "User not found")
	}

	var profile any
	if user.Role == models.RoleFreelancer {
		profile, err = h.findOrCreateFreelancerProfile(h.DB, userID)
	} else {
		profile, err = h.findOrCreateClientProfile(h.DB, userID)
	}
	if err != nil {
		return fail500(c, "Failed to load profile", err)
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// ===== partial update: freelancer =====

// Scalar strings come in as pointers so "absent" and "empty" stay
// distinct. Numeric and date fields arrive as strings and are parsed
// explicitly; empty input means SQL NULL. Array fields: nil means
// "omitted" and preserves the stored value, an empty slice overwrites
// to [].
type freelancerProfileReq struct {
	Title           *string `json:"title"`
	Overview        *string `json:"overview"`
	HourlyRate      *string `json:"hourly_rate"`
	ExperienceYears *string `json:"experience_years"`
	DateOfBirth     *string `json:"date_of_birth"` // YYYY-MM-DD

	Skills         []string          `json:"skills"`
	Languages      []LanguageItem    `json:"languages"`
	Education      []EducationItem   `json:"education"`
	Experience     []ExperienceItem  `json:"experience"`
	Certifications []CertificateItem `json:"certifications"`
	Portfolio      []PortfolioItem   `json:"portfolio"`
}

type LanguageItem struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type EducationItem struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type CertificateItem struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   int    `json:"year"`
}

type PortfolioItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	ImagePath string `json:"image_path"`
}

func parseNullableFloat(s *string, field string, errs FieldErrors) (val *float64, provided bool) {
	if s == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, true // explicit empty input -> NULL
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		errs.Add(field, field+" must be a number")
		return nil, false
	}
	return &f, true
}

func parseNullableInt(s *string, field string, errs FieldErrors) (val *int, provided bool) {
	if s == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, true
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		errs.Add(field, field+" must be an integer")
		return nil, false
	}
	return &n, true
}

func parseNullableDate(s *string, field string, errs FieldErrors) (val *time.Time, provided bool) {
	if s == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		errs.Add(field, field+" must be a YYYY-MM-DD date")
		return nil, false
	}
	return &t, true
}

// setArray writes v into dst unless v is nil (field omitted from input).
func setArray(dst *datatypes.JSON, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dst = datatypes.JSON(b)
	return nil
}

func (h *ProfileHandler) UpdateFreelancer(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req freelancerProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	errs := FieldErrors{}
	rate, rateProvided := parseNullableFloat(req.HourlyRate, "hourly_rate", errs)
	years, yearsProvided := parseNullableInt(req.ExperienceYears, "experience_years", errs)
	dob, dobProvided := parseNullableDate(req.DateOfBirth, "date_of_birth", errs)
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	p, err := h.findOrCreateFreelancerProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Failed to load profile", err)
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Overview != nil {
		p.Overview = strings.TrimSpace(*req.Overview)
	}
	if rateProvided {
		p.HourlyRate = rate
	}
	if yearsProvided {
		p.ExperienceYears = years
	}
	if dobProvided {
		p.DateOfBirth = dob
	}

	if req.Skills != nil {
		if err := setArray(&p.Skills, req.Skills); err != nil {
			return fail500(c, "Failed to encode skills", err)
		}
	}
	if req.Languages != nil {
		if err := setArray(&p.Languages, req.Languages); err != nil {
			return fail500(c, "Failed to encode languages", err)
		}
	}
	if req.Education != nil {
		if err := setArray(&p.Education, req.Education); err != nil {
			return fail500(c, "Failed to encode education", err)
		}
	}
	if req.Experience != nil {
		if err := setArray(&p.Experience, req.Experience); err != nil {
			return fail500(c, "Failed to encode experience", err)
		}
	}
	if req.Certifications != nil {
		if err := setArray(&p.Certifications, req.Certifications); err != nil {
			return fail500(c, "Failed to encode certifications", err)
		}
	}
	if req.Portfolio != nil {
		if err := setArray(&p.Portfolio, req.Portfolio); err != nil {
			return fail500(c, "Failed to encode portfolio", err)
		}
	}

	p.UpdatedAt = time.Now()

	if err := h.DB.Save(p).Error; err != nil {
		return fail500(c, "Failed to update profile", err)
	}

	return c.JSON(p)
}

// ===== partial update: client =====

type clientProfileReq struct {
	CompanyName *string `json:"company_name"`
	Website     *string `json:"website"`
	About       *string `json:"about"`

	PaymentMethods []PaymentMethodItem `json:"payment_methods"`
}

type PaymentMethodItem struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

func (h *ProfileHandler) UpdateClient(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req clientProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail400(c, "invalid body")
	}

	p, err := h.findOrCreateClientProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Failed to load profile", err)
	}

	if req.CompanyName != nil {
		p.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Website != nil {
		p.Website = strings.TrimSpace(*req.Website)
	}
	if req.About != nil {
		p.About = strings.TrimSpace(*req.About)
	}
	if req.PaymentMethods != nil {
		if err := setArray(&p.PaymentMethods, req.PaymentMethods); err != nil {
			return fail500(c, "Failed to encode payment methods", err)
		}
	}

	p.UpdatedAt = time.Now()

	if err := h.DB.Save(p).Error; err != nil {
		return fail500(c, "Failed to update profile", err)
	}

	return c.JSON(p)
}

// ===== image upload =====

const maxProfileImageSize = 5 * 1024 * 1024

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadImage accepts a multipart image (field: profileImage), stores it
// under the upload dir and upserts only the image path on the caller's
// profile. Non-image uploads are rejected regardless of size.
func (h *ProfileHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("profileImage")
	if err != nil {
		return fail400(c, "profileImage is required (multipart field: profileImage)")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !imageExts[ext] || !strings.HasPrefix(contentType, "image/") {
		return fail400(c, "profileImage must be an image")
	}

	if file.Size > maxProfileImageSize {
		return fail400(c, "profileImage max size is 5MB")
	}

	dir := filepath.Join(h.UploadDir, "profiles", userID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail500(c, "Failed to create upload dir", err)
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(dir, filename)

	if err := c.SaveFile(file, dst); err != nil {
		return fail500(c, "Failed to save file", err)
	}

	imagePath := fmt.Sprintf("/uploads/profiles/%s/%s", userID.String(), filename)

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail404(c, "User not found")
	}

	if user.Role == models.RoleFreelancer {
		p, err := h.findOrCreateFreelancerProfile(h.DB, userID)
		if err != nil {
			return fail500(c, "Failed to load profile", err)
		}
		p.ImagePath = imagePath
		p.UpdatedAt = time.Now()
		if err := h.DB.Save(p).Error; err != nil {
			return fail500(c, "Failed to update profile image", err)
		}
	} else {
		p, err := h.findOrCreateClientProfile(h.DB, userID)
		if err != nil {
			return fail500(c, "Failed to load profile", err)
		}
		p.ImagePath = imagePath
		p.UpdatedAt = time.Now()
		if err := h.DB.Save(p).Error; err != nil {
			return fail500(c, "Failed to update profile image", err)
		}
	}

	return c.JSON(fiber.Map{"imagePath": imagePath})
}
