package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type GenerateInvoicesRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=9999"`
}

type RecordPaymentRequest struct {
	ResidentID int32  `json:"resident_id" validate:"omitempty,gt=0"`
	InvoiceID  *int32 `json:"invoice_id" validate:"omitempty,gt=0"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Method     string `json:"method" validate:"omitempty,oneof=cash transfer"`
	// Date is yyyy-mm-dd; empty means today.
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ProofRef string `json:"proof_ref" validate:"max=255"`
	Note     string `json:"note" validate:"max=500"`
}

type ResidentRequest struct {
	Name           string `json:"name" validate:"required,max=150"`
	HouseNumber    string `json:"house_number" validate:"required,max=20"`
	Contact        string `json:"contact" validate:"max=50"`
	Occupancy      string `json:"occupancy" validate:"omitempty,oneof=permanent leased"`
	OpeningBalance int64  `json:"opening_balance" validate:"gte=0"`
}

func (req *ResidentRequest) toDomain() *domain.Resident {
	return &domain.Resident{
		Name:           strings.TrimSpace(req.Name),
		HouseNumber:    strings.TrimSpace(req.HouseNumber),
		Contact:        strings.TrimSpace(req.Contact),
		Occupancy:      domain.OccupancyStatus(req.Occupancy),
		OpeningBalance: req.OpeningBalance,
	}
}

// CreateResidentRequest registers a household, optionally with its family card members.
type CreateResidentRequest struct {
	ResidentRequest
	Members []MemberRequest `json:"members" validate:"omitempty,max=20,dive"`
}

type MemberRequest struct {
	FullName     string `json:"full_name" validate:"required,max=150"`
	NationalID   string `json:"national_id" validate:"omitempty,max=20,numeric"`
	Relationship string `json:"relationship" validate:"required,oneof=wife husband child parent parent_in_law sibling other"`
	BirthPlace   string `json:"birth_place" validate:"max=100"`
	BirthDate    string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	Note         string `json:"note" validate:"max=500"`
}

func (req *MemberRequest) toDomain() *domain.HouseholdMember {
	m := &domain.HouseholdMember{
		FullName:     strings.TrimSpace(req.FullName),
		NationalID:   req.NationalID,
		Relationship: domain.Relationship(req.Relationship),
		BirthPlace:   strings.TrimSpace(req.BirthPlace),
		Gender:       domain.Gender(req.Gender),
		Note:         req.Note,
	}
	if d, err := time.Parse(time.DateOnly, req.BirthDate); err == nil {
		m.BirthDate = &d
	}
	return m
}

func membersToDomain(reqs []MemberRequest) []domain.HouseholdMember {
	members := make([]domain.HouseholdMember, 0, len(reqs))
	for i := range reqs {
		members = append(members, *reqs[i].toDomain())
	}
	return members
}

// SelfRegisterRequest is the public sign-up form for a household.
type SelfRegisterRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	HouseNumber string          `json:"house_number" validate:"required,max=20"`
	Contact     string          `json:"contact" validate:"required,max=50"`
	Occupancy   string          `json:"occupancy" validate:"omitempty,oneof=permanent leased"`
	Members     []MemberRequest `json:"members" validate:"omitempty,max=20,dive"`
	Username    string          `json:"username" validate:"required,min=3,max=50"`
	Password    string          `json:"password" validate:"required,min=8,max=72"`
}

func (req *SelfRegisterRequest) toDomain() *domain.SelfRegistration {
	return &domain.SelfRegistration{
		Resident: domain.Resident{
			Name:        strings.TrimSpace(req.Name),
			HouseNumber: strings.TrimSpace(req.HouseNumber),
			Contact:     strings.TrimSpace(req.Contact),
			Occupancy:   domain.OccupancyStatus(req.Occupancy),
		},
		Members:  membersToDomain(req.Members),
		Username: req.Username,
		Password: req.Password,
	}
}

type CreateAccountRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Role       string `json:"role" validate:"omitempty,oneof=admin resident"`
	ResidentID *int32 `json:"resident_id" validate:"omitempty,gt=0"`
}

type AnnouncementRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required,max=5000"`
}

type VerificationRequest struct {
	State string `json:"state" validate:"required,oneof=verified rejected"`
}

type DueTypeRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=500"`
	Mandatory   *bool  `json:"mandatory"`
}

func (req *DueTypeRequest) toDomain() *domain.DueType {
	mandatory := true
	if req.Mandatory != nil {
		mandatory = *req.Mandatory
	}
	return &domain.DueType{
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		Description: req.Description,
		Mandatory:   mandatory,
		Active:      true,
	}
}

// ValidationDetail names one field that failed validation.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs the struct's validate tags.
// Failures are written to w and reported as false.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]ValidationDetail, 0, len(verrs))
			for _, e := range verrs {
				details = append(details, ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
			}
			writeJSON(w, r, http.StatusBadRequest, Response{Success: false, Message: "Request validation failed", Errors: details})
			return false
		}
		writeError(w, r, domain.NewValidationError(err.Error()))
		return false
	}
	return true
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "numeric":
		return "Must contain digits only"
	case "datetime":
		return "Must be a date in the format " + e.Param()
	}
	return fmt.Sprintf("Failed on the '%s' rule", e.Tag())
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return int32(id), nil
}

// queryPeriod reads ?period=yyyy-mm (or mm/yyyy), falling back to ?month=&year=.
func queryPeriod(r *http.Request) (domain.Period, error) {
	q := r.URL.Query()
	if p := q.Get("period"); p != "" {
		return utils.ParsePeriod(p)
	}
	month, errM := strconv.Atoi(q.Get("month"))
	year, errY := strconv.Atoi(q.Get("year"))
	if errM != nil || errY != nil {
		return domain.Period{}, domain.NewValidationError("period is required, use ?period=yyyy-mm or ?month=&year=")
	}
	return domain.NewPeriod(month, year)
}
