package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityResident                      // Any valid access token
	SecurityAdmin                         // Access token with admin role
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"Login":        SecurityPublic,
	"Health":       SecurityPublic,
	"SelfRegister": SecurityPublic,

	// Resident self service
	"GetMe":              SecurityResident,
	"RecordPayment":      SecurityResident,
	"GetInvoice":         SecurityResident,
	"GetPayment":         SecurityResident,
	"GetResidentArrears": SecurityResident,
	"ResidentDashboard":  SecurityResident,
	"ListDueTypes":       SecurityResident,
	"UploadProof":        SecurityResident,
	"GetPaymentProof":    SecurityResident,
	"GetResidentFamily":  SecurityResident,
	"ListMembers":        SecurityResident,
	"AddMember":          SecurityResident,
	"GetMember":          SecurityResident,
	"UpdateMember":       SecurityResident,
	"RemoveMember":       SecurityResident,
	"ListAnnouncements":  SecurityResident,
	"GetAnnouncement":    SecurityResident,

	// Invoices - Admin
	"GenerateInvoices":  SecurityAdmin,
	"ListInvoices":      SecurityAdmin,
	"ListOutstanding":   SecurityAdmin,
	"ListResidentBills": SecurityAdmin,

	// Payments - Admin
	"VerifyPayment":       SecurityAdmin,
	"ListPendingPayments": SecurityAdmin,
	"MonthlyPayments":     SecurityAdmin,

	// Arrears - Admin
	"DelinquencyReport": SecurityAdmin,

	// Directory - Admin
	"ListResidents":      SecurityAdmin,
	"GetResident":        SecurityAdmin,
	"CreateResident":     SecurityAdmin,
	"UpdateResident":     SecurityAdmin,
	"DeactivateResident": SecurityAdmin,
	"PendingResidents":   SecurityAdmin,
	"SetVerification":    SecurityAdmin,
	"CreateAccount":      SecurityAdmin,

	// Announcements - Admin
	"CreateAnnouncement": SecurityAdmin,
	"UpdateAnnouncement": SecurityAdmin,
	"DeleteAnnouncement": SecurityAdmin,

	// Catalog - Admin
	"GetDueType":        SecurityAdmin,
	"CreateDueType":     SecurityAdmin,
	"UpdateDueType":     SecurityAdmin,
	"DeactivateDueType": SecurityAdmin,

	// Reports - Admin
	"DashboardSummary": SecurityAdmin,
	"CashFlowReport":   SecurityAdmin,
	"CashFlowExport":   SecurityAdmin,
	"DueTypeReport":    SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
