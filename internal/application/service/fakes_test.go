package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/email"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// In-memory repository fakes. They implement just enough behavior for the
// service tests: branch scoping is ignored, filters are approximate.

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (f *fakePatientRepo) Create(ctx context.Context, patient *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	cp := *patient
	f.patients[patient.ID] = &cp
	return nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientRepo) GetByPatientNo(ctx context.Context, patientNo string) (*entity.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.PatientNo == patientNo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, patient *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *patient
	f.patients[patient.ID] = &cp
	return nil
}

func (f *fakePatientRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Patient
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeCatalogRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.CatalogItem
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: make(map[uuid.UUID]*entity.CatalogItem)}
}

func (f *fakeCatalogRepo) Create(ctx context.Context, item *entity.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeCatalogRepo) CreateBatch(ctx context.Context, items []entity.CatalogItem) error {
	for i := range items {
		if err := f.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeCatalogRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.CatalogItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetByCode(ctx context.Context, code string) (*entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.Code == code {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, item *entity.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeCatalogRepo) List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.CatalogItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.CatalogItem
	for _, item := range f.items {
		if activeOnly && !item.Active {
			continue
		}
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

type fakeReferralRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*entity.ReferralProvider
}

func newFakeReferralRepo() *fakeReferralRepo {
	return &fakeReferralRepo{providers: make(map[uuid.UUID]*entity.ReferralProvider)}
}

func (f *fakeReferralRepo) Create(ctx context.Context, provider *entity.ReferralProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	cp := *provider
	f.providers[provider.ID] = &cp
	return nil
}

func (f *fakeReferralRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReferralProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.providers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeReferralRepo) Update(ctx context.Context, provider *entity.ReferralProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *provider
	f.providers[provider.ID] = &cp
	return nil
}

func (f *fakeReferralRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReferralProvider, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ReferralProvider
	for _, p := range f.providers {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeBankAccountRepo struct {
	accounts map[uuid.UUID]*entity.BankAccount
}

func newFakeBankAccountRepo() *fakeBankAccountRepo {
	return &fakeBankAccountRepo{accounts: make(map[uuid.UUID]*entity.BankAccount)}
}

func (f *fakeBankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeBankAccountRepo) List(ctx context.Context) ([]entity.BankAccount, error) {
	var out []entity.BankAccount
	for _, a := range f.accounts {
		out = append(out, *a)
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entity.Invoice
	items    map[uuid.UUID][]entity.InvoiceItem
	patients *fakePatientRepo
	// afterMarkPaid, when set, runs after a successful MarkPaid with the
	// lock released, letting tests race state changes against the reload.
	afterMarkPaid func()
}

func newFakeInvoiceRepo(patients *fakePatientRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*entity.Invoice),
		items:    make(map[uuid.UUID][]entity.InvoiceItem),
		patients: patients,
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.InvoiceNo == invoiceNo {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), f.items[id]...)
	if f.patients != nil {
		if p, ok := f.patients.patients[inv.PatientID]; ok {
			cp.Patient = *p
		}
	}
	return &cp, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range f.invoices {
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListWithCursor(ctx context.Context, params *repository.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID, payment *entity.Invoice) (bool, error) {
	f.mu.Lock()
	inv, ok := f.invoices[id]
	if !ok || inv.Status != enum.InvoiceStatusUnpaid {
		f.mu.Unlock()
		return false, nil
	}
	inv.Status = enum.InvoiceStatusPaid
	inv.PaymentMethod = payment.PaymentMethod
	inv.PaymentDetails = payment.PaymentDetails
	inv.ReceivingBankAccountID = payment.ReceivingBankAccountID
	inv.ReceiptNo = payment.ReceiptNo
	inv.PaidAt = payment.PaidAt
	inv.PaidByID = payment.PaidByID
	inv.PaidByName = payment.PaidByName
	f.mu.Unlock()

	if f.afterMarkPaid != nil {
		f.afterMarkPaid()
	}
	return true, nil
}

func (f *fakeInvoiceRepo) PaymentSummary(ctx context.Context, from, to time.Time) (*repository.PaymentSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &repository.PaymentSummary{}
	for _, inv := range f.invoices {
		summary.InvoiceCount++
		summary.BilledTotal += inv.Total
		if inv.Status == enum.InvoiceStatusPaid {
			summary.PaidCount++
			if inv.PaymentMethod != nil && *inv.PaymentMethod == enum.PaymentMethodCash {
				summary.CollectedCash += inv.Total
			} else {
				summary.CollectedBank += inv.Total
			}
		} else {
			summary.UnpaidCount++
		}
	}
	return summary, nil
}

type fakeInvoiceItemRepo struct {
	inv *fakeInvoiceRepo
}

func (f *fakeInvoiceItemRepo) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	f.inv.mu.Lock()
	defer f.inv.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		f.inv.items[items[i].InvoiceID] = append(f.inv.items[items[i].InvoiceID], items[i])
	}
	return nil
}

func (f *fakeInvoiceItemRepo) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error) {
	f.inv.mu.Lock()
	defer f.inv.mu.Unlock()
	return append([]entity.InvoiceItem(nil), f.inv.items[invoiceID]...), nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	logs []entity.NotificationLog
}

func (f *fakeNotificationRepo) Create(ctx context.Context, log *entity.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeNotificationRepo) List(ctx context.Context, params *pagination.PaginationParams, template, status string) ([]entity.NotificationLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.NotificationLog
	for _, l := range f.logs {
		if template != "" && l.Template != template {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	return nil
}

type fakeTransport struct {
	mu      sync.Mutex
	sent    []email.Message
	failErr error
}

func (f *fakeTransport) Send(msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeTransport) sentMessages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

type fakeNotifier struct {
	received chan *entity.Invoice
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{received: make(chan *entity.Invoice, 4)}
}

func (f *fakeNotifier) SendPaymentReceipt(ctx context.Context, invoice *entity.Invoice) {
	f.received <- invoice
}
