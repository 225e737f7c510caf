package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentTestEnv struct {
	*invoiceTestEnv
	svc      *PaymentService
	banks    *fakeBankAccountRepo
	notifier *fakeNotifier
}

func newPaymentTestEnv(t *testing.T) *paymentTestEnv {
	t.Helper()

	base := newInvoiceTestEnv(t)
	banks := newFakeBankAccountRepo()
	notifier := newFakeNotifier()

	return &paymentTestEnv{
		invoiceTestEnv: base,
		svc: NewPaymentService(
			base.invoiceRepo,
			banks,
			base.patientRepo,
			base.svc,
			notifier,
		),
		banks:    banks,
		notifier: notifier,
	}
}

func (e *paymentTestEnv) addBankAccount(t *testing.T) *entity.BankAccount {
	t.Helper()
	account := &entity.BankAccount{
		ID:            uuid.New(),
		AccountName:   "MediLabs Diagnostics Ltd",
		BankName:      "First Bank",
		AccountNumber: "0123456789",
	}
	e.banks.accounts[account.ID] = account
	return account
}

func (e *paymentTestEnv) createUnpaidInvoice(t *testing.T) *entity.Invoice {
	t.Helper()
	patient := e.addPatient(t)
	item := e.addCatalogItem(t, "Full Blood Count", "FBC", 800000, true)

	invoice, err := e.invoiceTestEnv.svc.CreateInvoice(e.ctx, &CreateInvoiceInput{
		UserID:    uuid.New(),
		UserName:  "Ada Cashier",
		PatientID: patient.ID,
		Items:     []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return invoice
}

func (e *paymentTestEnv) createUnpaidInvoiceFor(t *testing.T, patient *entity.Patient) *entity.Invoice {
	t.Helper()
	item := e.addCatalogItem(t, "Full Blood Count", "FBC", 800000, true)

	invoice, err := e.invoiceTestEnv.svc.CreateInvoice(e.ctx, &CreateInvoiceInput{
		UserID:    uuid.New(),
		UserName:  "Ada Cashier",
		PatientID: patient.ID,
		Items:     []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return invoice
}

func (e *paymentTestEnv) payInvoice(t *testing.T, invoice *entity.Invoice) *entity.Invoice {
	t.Helper()
	paid, err := e.svc.CollectPayment(e.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		UserName:  "Ada Cashier",
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	require.NoError(t, err)
	e.waitForReceipt(t)
	return paid
}

func (e *paymentTestEnv) waitForReceipt(t *testing.T) *entity.Invoice {
	t.Helper()
	select {
	case invoice := <-e.notifier.received:
		return invoice
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for receipt notification")
		return nil
	}
}

func TestCollectPaymentCash(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)
	cashier := uuid.New()

	paid, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    cashier,
		UserName:  "Ada Cashier",
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, enum.PaymentMethodCash, *paid.PaymentMethod)
	assert.Nil(t, paid.ReceivingBankAccountID)
	require.NotNil(t, paid.ReceiptNo)
	assert.Contains(t, *paid.ReceiptNo, "RCP-")
	require.NotNil(t, paid.PaidByID)
	assert.Equal(t, cashier, *paid.PaidByID)
	assert.NotNil(t, paid.PaidAt)

	notified := env.waitForReceipt(t)
	assert.Equal(t, paid.ID, notified.ID)
}

func TestCollectPaymentTransferRequiresBankAccount(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)

	_, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Method:    "transfer",
	})
	assert.ErrorIs(t, err, apperror.ErrBankAccountRequired)

	missing := uuid.New()
	_, err = env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:                 uuid.New(),
		InvoiceID:              invoice.ID,
		Method:                 "transfer",
		ReceivingBankAccountID: &missing,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCollectPaymentTransfer(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)
	account := env.addBankAccount(t)

	paid, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Method:    "transfer",
		Details: entity.PaymentDetails{
			TransferRef: "TRF-20260829-001",
			SendingBank: "GTBank",
		},
		ReceivingBankAccountID: &account.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, paid.ReceivingBankAccountID)
	assert.Equal(t, account.ID, *paid.ReceivingBankAccountID)
	require.NotNil(t, paid.PaymentDetails)
	assert.Equal(t, "TRF-20260829-001", paid.PaymentDetails.TransferRef)

	env.waitForReceipt(t)
}

func TestCollectPaymentCashDropsBankAccount(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)
	account := env.addBankAccount(t)

	paid, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:                 uuid.New(),
		InvoiceID:              invoice.ID,
		Method:                 "cash",
		ReceivingBankAccountID: &account.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, paid.ReceivingBankAccountID)

	env.waitForReceipt(t)
}

func TestCollectPaymentRejectsSecondAttempt(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)

	_, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	require.NoError(t, err)
	env.waitForReceipt(t)

	_, err = env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	assert.ErrorIs(t, err, apperror.ErrInvoiceAlreadyPaid)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestCollectPaymentUnknownMethodAndInvoice(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)

	_, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Method:    "crypto",
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: uuid.New(),
		Method:    "cash",
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCreateWalkInBillWithNewPatient(t *testing.T) {
	env := newPaymentTestEnv(t)
	item := env.addCatalogItem(t, "Malaria Parasite", "MP", 350000, true)

	phone := "+2348012345678"
	paid, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID:   uuid.New(),
		UserName: "Ada Cashier",
		NewPatient: &WalkInPatientInput{
			FirstName: "Chidi",
			LastName:  "Okafor",
			Phone:     &phone,
		},
		Items:  []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 2}},
		Method: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, enum.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, int64(700000), paid.Total)
	assert.Equal(t, "Chidi Okafor", paid.PatientName)

	registered, err := env.patientRepo.GetByID(env.ctx, paid.PatientID)
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.Contains(t, registered.PatientNo, "PT-")

	env.waitForReceipt(t)
}

func TestCreateWalkInBillWithExistingPatient(t *testing.T) {
	env := newPaymentTestEnv(t)
	patient := env.addPatient(t)
	item := env.addCatalogItem(t, "Malaria Parasite", "MP", 350000, true)

	paid, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID:    uuid.New(),
		PatientID: &patient.ID,
		Items:     []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 1}},
		Method:    "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, patient.ID, paid.PatientID)

	env.waitForReceipt(t)
}

func TestCreateWalkInBillHonorsPriceOverride(t *testing.T) {
	env := newPaymentTestEnv(t)
	patient := env.addPatient(t)
	item := env.addCatalogItem(t, "Home Sample Collection", "HSC", 200000, true)

	override := int64(150000)
	paid, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID:    uuid.New(),
		PatientID: &patient.ID,
		Items: []InvoiceItemInput{
			{CatalogItemID: item.ID, Quantity: 3, UnitPrice: &override},
		},
		Method: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(450000), paid.Total)
	require.Len(t, paid.Items, 1)
	assert.Equal(t, override, paid.Items[0].UnitPrice)

	env.waitForReceipt(t)
}

func TestCreateWalkInBillRejectsNegativeOverride(t *testing.T) {
	env := newPaymentTestEnv(t)
	patient := env.addPatient(t)
	item := env.addCatalogItem(t, "Home Sample Collection", "HSC", 200000, true)

	override := int64(-50)
	_, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID:    uuid.New(),
		PatientID: &patient.ID,
		Items: []InvoiceItemInput{
			{CatalogItemID: item.ID, Quantity: 1, UnitPrice: &override},
		},
		Method: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestCreateWalkInBillRejectedPaymentPersistsNothing(t *testing.T) {
	env := newPaymentTestEnv(t)
	item := env.addCatalogItem(t, "Malaria Parasite", "MP", 350000, true)

	_, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID: uuid.New(),
		NewPatient: &WalkInPatientInput{
			FirstName: "Chidi",
			LastName:  "Okafor",
		},
		Items:  []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 1}},
		Method: "transfer",
	})
	require.ErrorIs(t, err, apperror.ErrBankAccountRequired)

	// The rejected bill must not leave an orphan invoice or patient behind.
	assert.Empty(t, env.invoiceRepo.invoices)
	assert.Empty(t, env.patientRepo.patients)
}

func TestCreateWalkInBillUnknownBankAccountPersistsNothing(t *testing.T) {
	env := newPaymentTestEnv(t)
	patient := env.addPatient(t)
	item := env.addCatalogItem(t, "Malaria Parasite", "MP", 350000, true)

	missing := uuid.New()
	_, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID:                 uuid.New(),
		PatientID:              &patient.ID,
		Items:                  []InvoiceItemInput{{CatalogItemID: item.ID, Quantity: 1}},
		Method:                 "transfer",
		ReceivingBankAccountID: &missing,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	assert.Empty(t, env.invoiceRepo.invoices)
}

func TestCreateWalkInBillRequiresPatient(t *testing.T) {
	env := newPaymentTestEnv(t)
	item := env.addCatalogItem(t, "Malaria Parasite", "MP", 350000, true)

	_, err := env.svc.CreateWalkInBill(env.ctx, &WalkInBillInput{
		UserID: uuid.New(),
		Items:  []InvoiceItemInput{{CatalogItemID: item.ID}},
		Method: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestCollectPaymentInvoiceGoneAfterUpdate(t *testing.T) {
	env := newPaymentTestEnv(t)
	invoice := env.createUnpaidInvoice(t)

	// Simulate the record disappearing between the status flip and the
	// reload; the payment must fail cleanly with no receipt email.
	env.invoiceRepo.afterMarkPaid = func() {
		env.invoiceRepo.mu.Lock()
		delete(env.invoiceRepo.invoices, invoice.ID)
		env.invoiceRepo.mu.Unlock()
	}

	_, err := env.svc.CollectPayment(env.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		UserName:  "Ada Cashier",
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	assert.Empty(t, env.notifier.received)
}

func TestDetachedContextKeepsBranch(t *testing.T) {
	env := newPaymentTestEnv(t)

	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	detached := detachedContext(ctx)
	assert.NoError(t, detached.Err(), "detached context must outlive the request")

	branchID, ok := infraRepo.GetBranchID(detached)
	require.True(t, ok)
	assert.Equal(t, env.branchID, branchID)
}
