package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/repository"
	"iuran-rt-backend/internal/utils"
)

var errInjected = errors.New("injected failure")

// memStore is a transactional in-memory store. WithinTx serializes transactions and
// restores the previous state when fn fails.
type memStore struct {
	txMu sync.Mutex

	residents map[int32]domain.Resident
	dueTypes  map[int32]domain.DueType
	invoices  map[int32]domain.Invoice
	payments  map[int32]domain.Payment
	snapshots map[[3]int32]domain.ArrearsSnapshot
	members   map[int32]domain.HouseholdMember
	users     map[int32]domain.User
	notices   map[int32]domain.Announcement
	nextID    int32

	// failInvoiceCreateAt makes the nth invoice insert (1-based) fail.
	failInvoiceCreateAt int
	invoiceCreates      int
	failRecompute       bool
	failMemberCreate    bool
	failDeactivate      bool
	locks               []domain.Period
}

func newMemStore() *memStore {
	return &memStore{
		residents: map[int32]domain.Resident{},
		dueTypes:  map[int32]domain.DueType{},
		invoices:  map[int32]domain.Invoice{},
		payments:  map[int32]domain.Payment{},
		snapshots: map[[3]int32]domain.ArrearsSnapshot{},
		members:   map[int32]domain.HouseholdMember{},
		users:     map[int32]domain.User{},
		notices:   map[int32]domain.Announcement{},
	}
}

func (s *memStore) id() int32 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Repositories() repository.Repositories {
	return repository.Repositories{
		Residents:     memResidents{s},
		DueTypes:      memDueTypes{s},
		Invoices:      memInvoices{s},
		Payments:      memPayments{s},
		Snapshots:     memSnapshots{s},
		Households:    memHouseholds{s},
		Users:         memUsers{s},
		Announcements: memAnnouncements{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.clone()
	if err := fn(ctx, s.Repositories()); err != nil {
		s.residents, s.dueTypes, s.invoices, s.payments, s.snapshots, s.nextID =
			saved.residents, saved.dueTypes, saved.invoices, saved.payments, saved.snapshots, saved.nextID
		s.members, s.users, s.notices = saved.members, saved.users, saved.notices
		return err
	}
	return nil
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.residents {
		c.residents[k] = v
	}
	for k, v := range s.dueTypes {
		c.dueTypes[k] = v
	}
	for k, v := range s.invoices {
		v.LineItems = append([]domain.InvoiceLineItem(nil), v.LineItems...)
		c.invoices[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.snapshots {
		c.snapshots[k] = v
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.notices {
		c.notices[k] = v
	}
	c.nextID = s.nextID
	return c
}

// seed helpers

func (s *memStore) addResident(name string, opening int64) int32 {
	id := s.id()
	s.residents[id] = domain.Resident{ID: id, Name: name, HouseNumber: name, Active: true,
		Occupancy: domain.OccupancyPermanent, OpeningBalance: opening, Verification: domain.VerificationVerified}
	return id
}

func (s *memStore) addDueType(name string, amount int64) int32 {
	id := s.id()
	s.dueTypes[id] = domain.DueType{ID: id, Name: name, Amount: amount, Active: true}
	return id
}

func (s *memStore) addInvoice(residentID int32, period domain.Period, total int64) int32 {
	id := s.id()
	s.invoices[id] = domain.Invoice{ID: id, ResidentID: residentID, Period: period, Total: total, Status: domain.InvoiceStatusUnpaid}
	return id
}

func (s *memStore) invoicesFor(period domain.Period) []domain.Invoice {
	var out []domain.Invoice
	for _, inv := range s.invoices {
		if inv.Period == period {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) view(inv domain.Invoice) domain.InvoiceView {
	res := s.residents[inv.ResidentID]
	v := domain.InvoiceView{Invoice: inv, ResidentName: res.Name, HouseNumber: res.HouseNumber}
	for _, p := range s.payments {
		if p.Verified && p.InvoiceID != nil && *p.InvoiceID == inv.ID {
			v.PaidSoFar += p.Amount
		}
	}
	return v
}

func (s *memStore) paymentView(p domain.Payment) domain.PaymentView {
	res := s.residents[p.ResidentID]
	v := domain.PaymentView{Payment: p, ResidentName: res.Name, HouseNumber: res.HouseNumber}
	if p.InvoiceID != nil {
		if inv, ok := s.invoices[*p.InvoiceID]; ok {
			period := inv.Period
			v.InvoicePeriod = &period
		}
	}
	return v
}

func (s *memStore) totals(res domain.Resident) domain.ArrearsTotals {
	t := domain.ArrearsTotals{ResidentID: res.ID, ResidentName: res.Name, HouseNumber: res.HouseNumber, OpeningBalance: res.OpeningBalance}
	for _, inv := range s.invoices {
		if inv.ResidentID == res.ID {
			t.TotalInvoiced += inv.Total
		}
	}
	for _, p := range s.payments {
		if p.ResidentID == res.ID && p.Verified {
			t.TotalPaid += p.Amount
		}
	}
	return t
}

func (s *memStore) sortedResidents() []domain.Resident {
	out := make([]domain.Resident, 0, len(s.residents))
	for _, r := range s.residents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) sortedPayments() []domain.Payment {
	out := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memResidents struct{ s *memStore }

func (r memResidents) Create(ctx context.Context, res *domain.Resident) error {
	res.ID = r.s.id()
	res.Active = true
	r.s.residents[res.ID] = *res
	return nil
}

func (r memResidents) GetByID(ctx context.Context, id int32) (*domain.Resident, error) {
	res, ok := r.s.residents[id]
	if !ok {
		return nil, domain.NewNotFoundError("resident not found")
	}
	return &res, nil
}

func (r memResidents) Update(ctx context.Context, res *domain.Resident) error {
	if _, ok := r.s.residents[res.ID]; !ok {
		return domain.NewNotFoundError("resident not found")
	}
	r.s.residents[res.ID] = *res
	return nil
}

func (r memResidents) Deactivate(ctx context.Context, id int32) error {
	if r.s.failDeactivate {
		return errInjected
	}
	res, ok := r.s.residents[id]
	if !ok {
		return domain.NewNotFoundError("resident not found")
	}
	res.Active = false
	r.s.residents[id] = res
	return nil
}

func (r memResidents) SetVerification(ctx context.Context, id int32, state domain.VerificationState) error {
	res, ok := r.s.residents[id]
	if !ok {
		return domain.NewNotFoundError("resident not found")
	}
	res.Verification = state
	r.s.residents[id] = res
	return nil
}

func (r memResidents) ListActive(ctx context.Context) ([]domain.Resident, error) {
	out := []domain.Resident{}
	for _, res := range r.s.sortedResidents() {
		if res.Active {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r memResidents) ListByVerification(ctx context.Context, state domain.VerificationState) ([]domain.Resident, error) {
	out := []domain.Resident{}
	for _, res := range r.s.sortedResidents() {
		if res.Verification == state {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r memResidents) CountActive(ctx context.Context) (int, error) {
	active, _ := r.ListActive(ctx)
	return len(active), nil
}

func (r memResidents) ListActiveWithoutInvoice(ctx context.Context, period domain.Period) ([]domain.Resident, error) {
	invoiced := map[int32]bool{}
	for _, inv := range r.s.invoicesFor(period) {
		invoiced[inv.ResidentID] = true
	}
	out := []domain.Resident{}
	for _, res := range r.s.sortedResidents() {
		if res.Active && !invoiced[res.ID] {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r memResidents) GetArrearsTotals(ctx context.Context, residentID int32) (*domain.ArrearsTotals, error) {
	res, ok := r.s.residents[residentID]
	if !ok {
		return nil, domain.NewNotFoundError("resident not found")
	}
	t := r.s.totals(res)
	return &t, nil
}

func (r memResidents) ListActiveArrearsTotals(ctx context.Context) ([]domain.ArrearsTotals, error) {
	out := []domain.ArrearsTotals{}
	for _, res := range r.s.sortedResidents() {
		if res.Active {
			out = append(out, r.s.totals(res))
		}
	}
	return out, nil
}

type memDueTypes struct{ s *memStore }

func (r memDueTypes) Create(ctx context.Context, d *domain.DueType) error {
	d.ID = r.s.id()
	d.Active = true
	r.s.dueTypes[d.ID] = *d
	return nil
}

func (r memDueTypes) GetByID(ctx context.Context, id int32) (*domain.DueType, error) {
	d, ok := r.s.dueTypes[id]
	if !ok {
		return nil, domain.NewNotFoundError("due type not found")
	}
	return &d, nil
}

func (r memDueTypes) Update(ctx context.Context, d *domain.DueType) error {
	if _, ok := r.s.dueTypes[d.ID]; !ok {
		return domain.NewNotFoundError("due type not found")
	}
	r.s.dueTypes[d.ID] = *d
	return nil
}

func (r memDueTypes) Deactivate(ctx context.Context, id int32) error {
	d, ok := r.s.dueTypes[id]
	if !ok {
		return domain.NewNotFoundError("due type not found")
	}
	d.Active = false
	r.s.dueTypes[id] = d
	return nil
}

func (r memDueTypes) ListActive(ctx context.Context) ([]domain.DueType, error) {
	out := []domain.DueType{}
	for _, d := range r.s.dueTypes {
		if d.Active {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memInvoices struct{ s *memStore }

func (r memInvoices) LockPeriod(ctx context.Context, period domain.Period) error {
	r.s.locks = append(r.s.locks, period)
	return nil
}

func (r memInvoices) Create(ctx context.Context, inv *domain.Invoice) error {
	r.s.invoiceCreates++
	if r.s.failInvoiceCreateAt > 0 && r.s.invoiceCreates == r.s.failInvoiceCreateAt {
		return errInjected
	}
	for _, existing := range r.s.invoicesFor(inv.Period) {
		if existing.ResidentID == inv.ResidentID {
			return domain.NewDuplicateInvoiceError(inv.ResidentID, inv.Period)
		}
	}
	inv.ID = r.s.id()
	inv.CreatedAt = time.Now()
	for i := range inv.LineItems {
		inv.LineItems[i].ID = r.s.id()
		inv.LineItems[i].InvoiceID = inv.ID
	}
	stored := *inv
	stored.LineItems = append([]domain.InvoiceLineItem(nil), inv.LineItems...)
	r.s.invoices[inv.ID] = stored
	return nil
}

func (r memInvoices) GetByID(ctx context.Context, id int32) (*domain.InvoiceView, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domain.NewNotFoundError("invoice not found")
	}
	v := r.s.view(inv)
	v.LineItems = nil
	return &v, nil
}

func (r memInvoices) GetForUpdate(ctx context.Context, id int32) (*domain.Invoice, error) {
	if r.s.failRecompute {
		return nil, errInjected
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domain.NewNotFoundError("invoice not found")
	}
	return &inv, nil
}

func (r memInvoices) UpdateStatus(ctx context.Context, id int32, status domain.InvoiceStatus) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.NewNotFoundError("invoice not found")
	}
	inv.Status = status
	r.s.invoices[id] = inv
	return nil
}

func (r memInvoices) ListLineItems(ctx context.Context, invoiceID int32) ([]domain.InvoiceLineItem, error) {
	items := append([]domain.InvoiceLineItem{}, r.s.invoices[invoiceID].LineItems...)
	for i := range items {
		items[i].DueTypeName = r.s.dueTypes[items[i].DueTypeID].Name
	}
	return items, nil
}

func (r memInvoices) ListByPeriod(ctx context.Context, period domain.Period) ([]domain.InvoiceView, error) {
	out := []domain.InvoiceView{}
	for _, inv := range r.s.invoicesFor(period) {
		out = append(out, r.s.view(inv))
	}
	return out, nil
}

func (r memInvoices) ListByResident(ctx context.Context, residentID int32, status *domain.InvoiceStatus) ([]domain.InvoiceView, error) {
	out := []domain.InvoiceView{}
	for _, inv := range r.s.invoices {
		if inv.ResidentID == residentID && (status == nil || inv.Status == *status) {
			out = append(out, r.s.view(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Key() > out[j].Period.Key() })
	return out, nil
}

func (r memInvoices) ListOutstanding(ctx context.Context) ([]domain.InvoiceView, error) {
	out := []domain.InvoiceView{}
	for _, inv := range r.s.invoices {
		if inv.Status != domain.InvoiceStatusPaid {
			out = append(out, r.s.view(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memInvoices) SumTotalByPeriod(ctx context.Context, period domain.Period) (int64, error) {
	var total int64
	for _, inv := range r.s.invoicesFor(period) {
		total += inv.Total
	}
	return total, nil
}

func (r memInvoices) DueTypeCollection(ctx context.Context, period domain.Period) ([]domain.DueTypeCollectionRow, error) {
	dueTypes, _ := memDueTypes{r.s}.ListActive(ctx)
	rows := []domain.DueTypeCollectionRow{}
	for _, d := range dueTypes {
		row := domain.DueTypeCollectionRow{DueTypeID: d.ID, Name: d.Name, Amount: d.Amount}
		for _, inv := range r.s.invoicesFor(period) {
			for _, item := range inv.LineItems {
				if item.DueTypeID != d.ID {
					continue
				}
				row.InvoiceCount++
				if inv.Status == domain.InvoiceStatusPaid {
					row.Collected += item.Amount
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(ctx context.Context, p *domain.Payment) error {
	p.ID = r.s.id()
	p.CreatedAt = time.Now()
	r.s.payments[p.ID] = *p
	return nil
}

func (r memPayments) GetByID(ctx context.Context, id int32) (*domain.PaymentView, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment not found")
	}
	v := r.s.paymentView(p)
	return &v, nil
}

func (r memPayments) MarkVerified(ctx context.Context, id, verifierID int32, at time.Time, onlyUnverified bool) (bool, error) {
	p, ok := r.s.payments[id]
	if !ok || (onlyUnverified && p.Verified) {
		return false, nil
	}
	p.Verified = true
	p.VerifiedBy = &verifierID
	p.VerifiedAt = &at
	r.s.payments[id] = p
	return true, nil
}

func (r memPayments) SumVerifiedByInvoice(ctx context.Context, invoiceID int32) (int64, error) {
	var total int64
	for _, p := range r.s.payments {
		if p.Verified && p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			total += p.Amount
		}
	}
	return total, nil
}

func (r memPayments) ListPending(ctx context.Context) ([]domain.PaymentView, error) {
	out := []domain.PaymentView{}
	for _, p := range r.s.sortedPayments() {
		if !p.Verified {
			out = append(out, r.s.paymentView(p))
		}
	}
	return out, nil
}

func (r memPayments) ListByResident(ctx context.Context, residentID int32, limit int) ([]domain.PaymentView, error) {
	out := []domain.PaymentView{}
	all := r.s.sortedPayments()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].ResidentID == residentID {
			out = append(out, r.s.paymentView(all[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPayments) ListVerifiedInMonth(ctx context.Context, period domain.Period) ([]domain.PaymentView, error) {
	start, end := utils.MonthBounds(period, time.UTC)
	out := []domain.PaymentView{}
	for _, p := range r.s.sortedPayments() {
		if p.Verified && !p.Date.Before(start) && p.Date.Before(end) {
			out = append(out, r.s.paymentView(p))
		}
	}
	return out, nil
}

func (r memPayments) MethodBreakdown(ctx context.Context, period domain.Period) ([]domain.MethodTotal, error) {
	payments, _ := r.ListVerifiedInMonth(ctx, period)
	byMethod := map[domain.PaymentMethod]*domain.MethodTotal{}
	for _, p := range payments {
		mt, ok := byMethod[p.Method]
		if !ok {
			mt = &domain.MethodTotal{Method: p.Method}
			byMethod[p.Method] = mt
		}
		mt.TransactionCount++
		mt.Total += p.Amount
	}
	out := []domain.MethodTotal{}
	for _, mt := range byMethod {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}

func (r memPayments) CountPending(ctx context.Context) (int, error) {
	pending, _ := r.ListPending(ctx)
	return len(pending), nil
}

type memSnapshots struct{ s *memStore }

func (r memSnapshots) SaveArrearsSnapshots(ctx context.Context, period domain.Period, snapshots []domain.ArrearsSnapshot) (int64, error) {
	var inserted int64
	for _, snap := range snapshots {
		key := [3]int32{snap.ResidentID, int32(period.Month), int32(period.Year)}
		if _, ok := r.s.snapshots[key]; ok {
			continue
		}
		r.s.snapshots[key] = snap
		inserted++
	}
	return inserted, nil
}

type memHouseholds struct{ s *memStore }

func (r memHouseholds) Create(ctx context.Context, m *domain.HouseholdMember) error {
	if r.s.failMemberCreate {
		return errInjected
	}
	m.ID = r.s.id()
	m.Active = true
	r.s.members[m.ID] = *m
	return nil
}

func (r memHouseholds) GetByID(ctx context.Context, id int32) (*domain.HouseholdMember, error) {
	m, ok := r.s.members[id]
	if !ok {
		return nil, domain.NewNotFoundError("household member not found")
	}
	return &m, nil
}

func (r memHouseholds) Update(ctx context.Context, m *domain.HouseholdMember) error {
	existing, ok := r.s.members[m.ID]
	if !ok || !existing.Active {
		return domain.NewNotFoundError("household member not found")
	}
	r.s.members[m.ID] = *m
	return nil
}

func (r memHouseholds) Deactivate(ctx context.Context, id int32) error {
	m, ok := r.s.members[id]
	if !ok || !m.Active {
		return domain.NewNotFoundError("household member not found")
	}
	m.Active = false
	r.s.members[id] = m
	return nil
}

func (r memHouseholds) ListByResident(ctx context.Context, residentID int32) ([]domain.HouseholdMember, error) {
	out := []domain.HouseholdMember{}
	for _, m := range r.s.members {
		if m.ResidentID == residentID && m.Active {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	domain.SortHouseholdMembers(out)
	return out, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	if taken, _ := r.UsernameTaken(ctx, u.Username); taken {
		return domain.NewConflictError("username is already taken")
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("user not found")
}

func (r memUsers) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

type memAnnouncements struct{ s *memStore }

func (r memAnnouncements) Create(ctx context.Context, a *domain.Announcement) error {
	a.ID = r.s.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.s.notices[a.ID] = *a
	return nil
}

func (r memAnnouncements) GetByID(ctx context.Context, id int32) (*domain.Announcement, error) {
	a, ok := r.s.notices[id]
	if !ok {
		return nil, domain.NewNotFoundError("announcement not found")
	}
	return &a, nil
}

func (r memAnnouncements) Update(ctx context.Context, a *domain.Announcement) error {
	existing, ok := r.s.notices[a.ID]
	if !ok {
		return domain.NewNotFoundError("announcement not found")
	}
	existing.Title, existing.Body = a.Title, a.Body
	r.s.notices[a.ID] = existing
	return nil
}

func (r memAnnouncements) Delete(ctx context.Context, id int32) error {
	if _, ok := r.s.notices[id]; !ok {
		return domain.NewNotFoundError("announcement not found")
	}
	delete(r.s.notices, id)
	return nil
}

func (r memAnnouncements) List(ctx context.Context, limit int) ([]domain.Announcement, error) {
	out := []domain.Announcement{}
	for _, a := range r.s.notices {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
