package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/repository"
	"iuran-rt-backend/internal/security"
	"iuran-rt-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(store *memStore) (service.AuthService, security.TokenManager) {
	tokens := security.NewTokenManager("secret", time.Hour)
	return service.NewAuthService(store.Repositories(), store, tokens), tokens
}

func (s *memStore) addUser(t *testing.T, username, password string, role domain.UserRole, residentID *int32) int32 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id := s.id()
	s.users[id] = domain.User{ID: id, Username: username, PasswordHash: string(hash), Role: role, ResidentID: residentID}
	return id
}

func registration(username string) *domain.SelfRegistration {
	return &domain.SelfRegistration{
		Resident: domain.Resident{Name: "Dewi", HouseNumber: "C-07", Contact: "0812000111"},
		Members: []domain.HouseholdMember{
			{FullName: "Raka", Relationship: domain.RelationshipChild, Gender: domain.GenderMale},
			{FullName: "Arif", Relationship: domain.RelationshipHusband, Gender: domain.GenderMale},
		},
		Username: username,
		Password: "rahasia123",
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMemStore()
		svc, tokens := newAuth(store)
		store.addUser(t, "admin", "rahasia", domain.UserRoleAdmin, nil)

		token, user, err := svc.Login(ctx, "admin", "rahasia")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, user.IsAdmin())

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		store.addUser(t, "admin", "rahasia", domain.UserRoleAdmin, nil)

		_, _, err := svc.Login(ctx, "admin", "salah")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Unknown user", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)

		_, _, err := svc.Login(ctx, "ghost", "x")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Pending household can log in", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		_, err := svc.SelfRegister(ctx, registration("dewi"))
		require.NoError(t, err)

		_, user, err := svc.Login(ctx, "dewi", "rahasia123")
		require.NoError(t, err)
		require.NotNil(t, user.ResidentID)
	})

	t.Run("Rejected household cannot log in", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		res, err := svc.SelfRegister(ctx, registration("dewi"))
		require.NoError(t, err)
		require.NoError(t, service.NewResidentService(store.Repositories(), store).
			SetVerification(ctx, res.ID, domain.VerificationRejected))

		_, _, err = svc.Login(ctx, "dewi", "rahasia123")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Store failure is a persistence error", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(repository.Repositories{Users: userRepo}, nil, security.NewTokenManager("secret", time.Hour))
		userRepo.On("GetByUsername", ctx, "admin").Return(nil, errors.New("connection reset"))

		_, _, err := svc.Login(ctx, "admin", "rahasia")
		assert.ErrorIs(t, err, domain.ErrPersistence)
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Resident account", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		rid := store.addResident("A-01", 0)

		user, err := svc.CreateAccount(ctx, domain.NewAccount{Username: " budi ", Password: "rahasia123", ResidentID: &rid})
		require.NoError(t, err)
		assert.Equal(t, "budi", user.Username)
		assert.Equal(t, domain.UserRoleResident, user.Role)
		assert.Equal(t, rid, *user.ResidentID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("rahasia123")))

		_, _, err = svc.Login(ctx, "BUDI", "rahasia123")
		assert.NoError(t, err)
	})

	t.Run("Admin account drops the resident link", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		rid := store.addResident("A-01", 0)

		user, err := svc.CreateAccount(ctx, domain.NewAccount{Username: "bendahara", Password: "rahasia123", Role: domain.UserRoleAdmin, ResidentID: &rid})
		require.NoError(t, err)
		assert.Nil(t, user.ResidentID)
	})

	t.Run("Resident account needs an existing resident", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		ghost := int32(99)

		_, err := svc.CreateAccount(ctx, domain.NewAccount{Username: "budi", Password: "rahasia123", ResidentID: &ghost})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.CreateAccount(ctx, domain.NewAccount{Username: "budi", Password: "rahasia123"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, store.users)
	})

	t.Run("Short password", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)

		_, err := svc.CreateAccount(ctx, domain.NewAccount{Username: "admin2", Password: "short", Role: domain.UserRoleAdmin})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Taken username is a conflict", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		store.addUser(t, "admin", "rahasia", domain.UserRoleAdmin, nil)

		_, err := svc.CreateAccount(ctx, domain.NewAccount{Username: "Admin", Password: "rahasia123", Role: domain.UserRoleAdmin})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Len(t, store.users, 1)
	})
}

func TestAuthService_SelfRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a pending household with members and a login", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)

		res, err := svc.SelfRegister(ctx, registration("dewi"))
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationPending, res.Verification)
		assert.True(t, res.Active)

		residents := service.NewResidentService(store.Repositories(), store)
		pending, err := residents.ListPendingVerification(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, res.ID, pending[0].ID)

		family, err := residents.GetWithFamily(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, family.MemberCount)
		assert.Equal(t, "Arif", family.Members[0].FullName)

		user, err := store.Repositories().Users.GetByUsername(ctx, "dewi")
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleResident, user.Role)
		assert.Equal(t, res.ID, *user.ResidentID)
	})

	t.Run("Taken username writes nothing", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		store.addUser(t, "dewi", "rahasia", domain.UserRoleAdmin, nil)

		_, err := svc.SelfRegister(ctx, registration("dewi"))
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, store.residents)
		assert.Empty(t, store.members)
	})

	t.Run("Member failure rolls back the household", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		store.failMemberCreate = true

		_, err := svc.SelfRegister(ctx, registration("dewi"))
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.Empty(t, store.residents)
		assert.Empty(t, store.users)
	})

	t.Run("Opening balance is not self-declared", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		reg := registration("dewi")
		reg.Resident.OpeningBalance = 10000

		_, err := svc.SelfRegister(ctx, reg)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Contact is required", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newAuth(store)
		reg := registration("dewi")
		reg.Resident.Contact = ""

		_, err := svc.SelfRegister(ctx, reg)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestResidentService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register starts pending", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)

		res := &domain.Resident{Name: "Budi", HouseNumber: "A-01"}
		require.NoError(t, svc.Register(ctx, res, nil))
		assert.Equal(t, domain.VerificationPending, store.residents[res.ID].Verification)
		assert.Equal(t, domain.OccupancyPermanent, store.residents[res.ID].Occupancy)
	})

	t.Run("Register rejects negative opening balance", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)

		err := svc.Register(ctx, &domain.Resident{Name: "Budi", HouseNumber: "A-01", OpeningBalance: -1}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, store.residents)
	})

	t.Run("Register rejects an invalid member before writing", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)

		err := svc.Register(ctx, &domain.Resident{Name: "Budi", HouseNumber: "A-01"},
			[]domain.HouseholdMember{{FullName: "Ani", Relationship: "cousin", Gender: domain.GenderFemale}})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, store.residents)
	})

	t.Run("Store failure is a persistence error", func(t *testing.T) {
		repo := new(MockResidentRepo)
		svc := service.NewResidentService(repository.Repositories{Residents: repo}, nil)
		repo.On("ListActive", ctx).Return([]domain.Resident(nil), errors.New("connection reset"))

		_, err := svc.ListActive(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("Verification only accepts a decision", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		id := store.addResident("A-01", 0)

		assert.NoError(t, svc.SetVerification(ctx, id, domain.VerificationVerified))
		assert.True(t, store.residents[id].Active)
		assert.ErrorIs(t, svc.SetVerification(ctx, id, domain.VerificationPending), domain.ErrValidation)
		assert.ErrorIs(t, svc.SetVerification(ctx, 99, domain.VerificationVerified), domain.ErrNotFound)
	})

	t.Run("Rejected registrant is deactivated and never billed", func(t *testing.T) {
		b := newBilling(domain.VerificationPolicyReject)
		b.store.addDueType("Security", 50000)
		svc := service.NewResidentService(b.store.Repositories(), b.store)

		res := &domain.Resident{Name: "Eko", HouseNumber: "D-01", OpeningBalance: 20000}
		require.NoError(t, svc.Register(ctx, res, nil))
		before, err := b.arrears.GetDelinquencyReport(ctx)
		require.NoError(t, err)
		require.Len(t, before, 1)

		require.NoError(t, svc.SetVerification(ctx, res.ID, domain.VerificationRejected))

		stored := b.store.residents[res.ID]
		assert.Equal(t, domain.VerificationRejected, stored.Verification)
		assert.False(t, stored.Active)

		report, err := b.invoices.GenerateMonthly(ctx, march2025)
		require.NoError(t, err)
		assert.Equal(t, 0, report.InvoicesCreated)
		assert.Empty(t, b.store.invoicesFor(march2025))

		delinquent, err := b.arrears.GetDelinquencyReport(ctx)
		require.NoError(t, err)
		assert.Empty(t, delinquent)
	})

	t.Run("Rejection rolls back when deactivation fails", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		id := store.addResident("A-01", 0)
		pending := store.residents[id]
		pending.Verification = domain.VerificationPending
		store.residents[id] = pending
		store.failDeactivate = true

		err := svc.SetVerification(ctx, id, domain.VerificationRejected)
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.Equal(t, domain.VerificationPending, store.residents[id].Verification)
		assert.True(t, store.residents[id].Active)
	})

	t.Run("Deactivate unknown resident", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)

		assert.ErrorIs(t, svc.Deactivate(ctx, 9), domain.ErrNotFound)
	})
}

func TestHouseholdMembers(t *testing.T) {
	ctx := context.Background()
	born := func(y int) *time.Time {
		d := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}

	t.Run("Members are listed spouse first then children by age", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		rid := store.addResident("A-01", 0)

		for _, m := range []domain.HouseholdMember{
			{FullName: "Bungsu", Relationship: domain.RelationshipChild, Gender: domain.GenderFemale, BirthDate: born(2018)},
			{FullName: "Nenek", Relationship: domain.RelationshipParent, Gender: domain.GenderFemale},
			{FullName: "Sulung", Relationship: domain.RelationshipChild, Gender: domain.GenderMale, BirthDate: born(2010)},
			{FullName: "Ani", Relationship: domain.RelationshipWife, Gender: domain.GenderFemale},
		} {
			m := m
			m.ResidentID = rid
			require.NoError(t, svc.AddMember(ctx, &m))
		}

		family, err := svc.GetWithFamily(ctx, rid)
		require.NoError(t, err)
		require.Equal(t, 4, family.MemberCount)
		names := []string{}
		for _, m := range family.Members {
			names = append(names, m.FullName)
		}
		assert.Equal(t, []string{"Ani", "Sulung", "Bungsu", "Nenek"}, names)
	})

	t.Run("Inactive or unknown household cannot take members", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		rid := store.addResident("A-01", 0)
		require.NoError(t, svc.Deactivate(ctx, rid))

		m := &domain.HouseholdMember{ResidentID: rid, FullName: "Ani", Relationship: domain.RelationshipWife, Gender: domain.GenderFemale}
		assert.ErrorIs(t, svc.AddMember(ctx, m), domain.ErrValidation)
		m.ResidentID = 99
		assert.ErrorIs(t, svc.AddMember(ctx, m), domain.ErrValidation)
		assert.Empty(t, store.members)
	})

	t.Run("Update keeps the member in its household", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		rid := store.addResident("A-01", 0)
		other := store.addResident("A-02", 0)
		m := &domain.HouseholdMember{ResidentID: rid, FullName: "Ani", Relationship: domain.RelationshipWife, Gender: domain.GenderFemale}
		require.NoError(t, svc.AddMember(ctx, m))

		edit := &domain.HouseholdMember{ID: m.ID, ResidentID: other, FullName: "Ani Lestari", Relationship: domain.RelationshipWife, Gender: domain.GenderFemale}
		require.NoError(t, svc.UpdateMember(ctx, edit))

		stored, err := svc.GetMember(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, rid, stored.ResidentID)
		assert.Equal(t, "Ani Lestari", stored.FullName)
	})

	t.Run("Removed member leaves the list", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewResidentService(store.Repositories(), store)
		rid := store.addResident("A-01", 0)
		m := &domain.HouseholdMember{ResidentID: rid, FullName: "Ani", Relationship: domain.RelationshipWife, Gender: domain.GenderFemale}
		require.NoError(t, svc.AddMember(ctx, m))

		require.NoError(t, svc.RemoveMember(ctx, m.ID))
		members, err := svc.ListMembers(ctx, rid)
		require.NoError(t, err)
		assert.Empty(t, members)
		assert.ErrorIs(t, svc.RemoveMember(ctx, m.ID), domain.ErrNotFound)
	})
}

func TestAnnouncementService(t *testing.T) {
	ctx := context.Background()

	t.Run("Publish validates and stores", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewAnnouncementService(store.Repositories().Announcements)

		assert.ErrorIs(t, svc.Publish(ctx, &domain.Announcement{Title: "Kerja bakti", CreatedBy: 1}), domain.ErrValidation)

		a := &domain.Announcement{Title: "Kerja bakti", Body: "Minggu jam 7 pagi", CreatedBy: 1}
		require.NoError(t, svc.Publish(ctx, a))
		got, err := svc.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Minggu jam 7 pagi", got.Body)
	})

	t.Run("Update and delete unknown", func(t *testing.T) {
		store := newMemStore()
		svc := service.NewAnnouncementService(store.Repositories().Announcements)

		assert.ErrorIs(t, svc.Update(ctx, &domain.Announcement{ID: 5, Title: "x", Body: "y"}), domain.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, 5), domain.ErrNotFound)
	})
}

func TestDueTypeService(t *testing.T) {
	ctx := context.Background()

	t.Run("Standard total sums active due types", func(t *testing.T) {
		repo := new(MockDueTypeRepo)
		svc := service.NewDueTypeService(repo)
		repo.On("ListActive", ctx).Return([]domain.DueType{
			{ID: 1, Name: "Security", Amount: 50000},
			{ID: 2, Name: "Cleaning", Amount: 30000},
		}, nil)

		total, err := svc.StandardTotal(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(80000), total)
	})

	t.Run("Create rejects non-positive amount", func(t *testing.T) {
		repo := new(MockDueTypeRepo)
		svc := service.NewDueTypeService(repo)

		err := svc.Create(ctx, &domain.DueType{Name: "Security", Amount: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Update", func(t *testing.T) {
		repo := new(MockDueTypeRepo)
		svc := service.NewDueTypeService(repo)
		d := &domain.DueType{ID: 1, Name: "Security", Amount: 60000}
		repo.On("Update", ctx, d).Return(nil)

		assert.NoError(t, svc.Update(ctx, d))
		repo.AssertExpectations(t)
	})
}
