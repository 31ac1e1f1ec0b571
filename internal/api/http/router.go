package http

import (
	"net/http"

	"iuran-rt-backend/internal/security"
	"iuran-rt-backend/internal/service"
	"iuran-rt-backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Services holds the services the REST handlers call into.
type Services struct {
	Auth         service.AuthService
	DueType      service.DueTypeService
	Resident     service.ResidentService
	Invoice      service.InvoiceService
	Payment      service.PaymentService
	Arrears      service.ArrearsService
	Report       service.ReportService
	Announcement service.AnnouncementService
}

type Handlers struct {
	svc            Services
	proofs         storage.ProofStorage
	validate       *validator.Validate
	sheetName      string
	maxUploadBytes int64
}

func NewHandlers(svc Services, proofs storage.ProofStorage, sheetName string, maxProofBytes int64) *Handlers {
	if sheetName == "" {
		sheetName = "Cash Flow"
	}
	if maxProofBytes <= 0 {
		maxProofBytes = storage.DefaultMaxProofSize
	}
	return &Handlers{
		svc:       svc,
		proofs:    proofs,
		validate:  newValidator(),
		sheetName: sheetName,
		// room for the multipart envelope around the file
		maxUploadBytes: maxProofBytes + 64<<10,
	}
}

// NewRouter registers every route by name. Route names are what the
// auth middleware looks up in config.EndpointSecurityConfig.
func NewRouter(h *Handlers, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, recoverMiddleware, loggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet).Name("Health")
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost).Name("Login")
	api.HandleFunc("/me", h.GetMe).Methods(http.MethodGet).Name("GetMe")
	api.HandleFunc("/register", h.SelfRegister).Methods(http.MethodPost).Name("SelfRegister")
	api.HandleFunc("/users", h.CreateAccount).Methods(http.MethodPost).Name("CreateAccount")

	// Invoices
	api.HandleFunc("/invoices/generate", h.GenerateInvoices).Methods(http.MethodPost).Name("GenerateInvoices")
	api.HandleFunc("/invoices/outstanding", h.ListOutstanding).Methods(http.MethodGet).Name("ListOutstanding")
	api.HandleFunc("/invoices/{id:[0-9]+}", h.GetInvoice).Methods(http.MethodGet).Name("GetInvoice")
	api.HandleFunc("/invoices", h.ListInvoices).Methods(http.MethodGet).Name("ListInvoices")

	// Payments
	api.HandleFunc("/payments", h.RecordPayment).Methods(http.MethodPost).Name("RecordPayment")
	api.HandleFunc("/payments/pending", h.ListPendingPayments).Methods(http.MethodGet).Name("ListPendingPayments")
	api.HandleFunc("/payments/monthly", h.MonthlyPayments).Methods(http.MethodGet).Name("MonthlyPayments")
	api.HandleFunc("/payments/{id:[0-9]+}", h.GetPayment).Methods(http.MethodGet).Name("GetPayment")
	api.HandleFunc("/payments/{id:[0-9]+}/verify", h.VerifyPayment).Methods(http.MethodPost).Name("VerifyPayment")
	api.HandleFunc("/payments/{id:[0-9]+}/proof", h.GetPaymentProof).Methods(http.MethodGet).Name("GetPaymentProof")
	api.HandleFunc("/payments/proofs", h.UploadProof).Methods(http.MethodPost).Name("UploadProof")

	// Arrears
	api.HandleFunc("/arrears", h.DelinquencyReport).Methods(http.MethodGet).Name("DelinquencyReport")

	// Residents
	api.HandleFunc("/residents", h.ListResidents).Methods(http.MethodGet).Name("ListResidents")
	api.HandleFunc("/residents", h.CreateResident).Methods(http.MethodPost).Name("CreateResident")
	api.HandleFunc("/residents/pending", h.PendingResidents).Methods(http.MethodGet).Name("PendingResidents")
	api.HandleFunc("/residents/{id:[0-9]+}", h.GetResident).Methods(http.MethodGet).Name("GetResident")
	api.HandleFunc("/residents/{id:[0-9]+}", h.UpdateResident).Methods(http.MethodPut).Name("UpdateResident")
	api.HandleFunc("/residents/{id:[0-9]+}", h.DeactivateResident).Methods(http.MethodDelete).Name("DeactivateResident")
	api.HandleFunc("/residents/{id:[0-9]+}/verification", h.SetVerification).Methods(http.MethodPut).Name("SetVerification")
	api.HandleFunc("/residents/{id:[0-9]+}/invoices", h.ListResidentBills).Methods(http.MethodGet).Name("ListResidentBills")
	api.HandleFunc("/residents/{id:[0-9]+}/arrears", h.GetResidentArrears).Methods(http.MethodGet).Name("GetResidentArrears")
	api.HandleFunc("/residents/{id:[0-9]+}/dashboard", h.ResidentDashboard).Methods(http.MethodGet).Name("ResidentDashboard")

	// Household members
	api.HandleFunc("/residents/{id:[0-9]+}/family", h.GetResidentFamily).Methods(http.MethodGet).Name("GetResidentFamily")
	api.HandleFunc("/residents/{id:[0-9]+}/members", h.ListMembers).Methods(http.MethodGet).Name("ListMembers")
	api.HandleFunc("/residents/{id:[0-9]+}/members", h.AddMember).Methods(http.MethodPost).Name("AddMember")
	api.HandleFunc("/members/{id:[0-9]+}", h.GetMember).Methods(http.MethodGet).Name("GetMember")
	api.HandleFunc("/members/{id:[0-9]+}", h.UpdateMember).Methods(http.MethodPut).Name("UpdateMember")
	api.HandleFunc("/members/{id:[0-9]+}", h.RemoveMember).Methods(http.MethodDelete).Name("RemoveMember")

	// Announcements
	api.HandleFunc("/announcements", h.ListAnnouncements).Methods(http.MethodGet).Name("ListAnnouncements")
	api.HandleFunc("/announcements", h.CreateAnnouncement).Methods(http.MethodPost).Name("CreateAnnouncement")
	api.HandleFunc("/announcements/{id:[0-9]+}", h.GetAnnouncement).Methods(http.MethodGet).Name("GetAnnouncement")
	api.HandleFunc("/announcements/{id:[0-9]+}", h.UpdateAnnouncement).Methods(http.MethodPut).Name("UpdateAnnouncement")
	api.HandleFunc("/announcements/{id:[0-9]+}", h.DeleteAnnouncement).Methods(http.MethodDelete).Name("DeleteAnnouncement")

	// Due types
	api.HandleFunc("/due-types", h.ListDueTypes).Methods(http.MethodGet).Name("ListDueTypes")
	api.HandleFunc("/due-types", h.CreateDueType).Methods(http.MethodPost).Name("CreateDueType")
	api.HandleFunc("/due-types/{id:[0-9]+}", h.GetDueType).Methods(http.MethodGet).Name("GetDueType")
	api.HandleFunc("/due-types/{id:[0-9]+}", h.UpdateDueType).Methods(http.MethodPut).Name("UpdateDueType")
	api.HandleFunc("/due-types/{id:[0-9]+}", h.DeactivateDueType).Methods(http.MethodDelete).Name("DeactivateDueType")

	// Reports
	api.HandleFunc("/reports/dashboard", h.DashboardSummary).Methods(http.MethodGet).Name("DashboardSummary")
	api.HandleFunc("/reports/cash-flow", h.CashFlowReport).Methods(http.MethodGet).Name("CashFlowReport")
	api.HandleFunc("/reports/cash-flow/export", h.CashFlowExport).Methods(http.MethodGet).Name("CashFlowExport")
	api.HandleFunc("/reports/due-types", h.DueTypeReport).Methods(http.MethodGet).Name("DueTypeReport")

	return router
}
