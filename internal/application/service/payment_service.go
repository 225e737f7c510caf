package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// receiptNotifier decouples payment collection from email delivery; the
// notification service records its own audit trail and never returns errors
// into the payment path.
type receiptNotifier interface {
	SendPaymentReceipt(ctx context.Context, invoice *entity.Invoice)
}

// PaymentService handles the pay stage of the billing workflow
type PaymentService struct {
	invoiceRepo     repository.InvoiceRepository
	bankAccountRepo repository.BankAccountRepository
	patientRepo     repository.PatientRepository
	invoiceService  *InvoiceService
	notifier        receiptNotifier
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	bankAccountRepo repository.BankAccountRepository,
	patientRepo repository.PatientRepository,
	invoiceService *InvoiceService,
	notifier receiptNotifier,
) *PaymentService {
	return &PaymentService{
		invoiceRepo:     invoiceRepo,
		bankAccountRepo: bankAccountRepo,
		patientRepo:     patientRepo,
		invoiceService:  invoiceService,
		notifier:        notifier,
	}
}

// CollectPaymentInput represents the collect payment input
type CollectPaymentInput struct {
	UserID                 uuid.UUID
	UserName               string
	InvoiceID              uuid.UUID
	Method                 string
	Details                entity.PaymentDetails
	ReceivingBankAccountID *uuid.UUID
}

// CollectPayment transitions an unpaid invoice to paid. All validation runs
// before any mutation; the status flip itself is a conditional update, so a
// concurrent attempt on the same invoice loses with a conflict error.
func (s *PaymentService) CollectPayment(ctx context.Context, input *CollectPaymentInput) (*entity.Invoice, error) {
	method, bankAccountID, err := s.validatePayment(ctx, input.Method, input.ReceivingBankAccountID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.IsPaid() {
		return nil, apperror.ErrInvoiceAlreadyPaid
	}

	now := time.Now()
	receiptNo := utils.GenerateReceiptNo()
	details := input.Details
	payment := &entity.Invoice{
		PaymentMethod:          &method,
		PaymentDetails:         &details,
		ReceivingBankAccountID: bankAccountID,
		ReceiptNo:              &receiptNo,
		PaidAt:                 &now,
		PaidByID:               &input.UserID,
		PaidByName:             &input.UserName,
	}

	won, err := s.invoiceRepo.MarkPaid(ctx, invoice.ID, payment)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.ErrInvoiceAlreadyPaid
	}

	paid, err := s.invoiceRepo.GetWithItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	if paid == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	// Email delivery must never fail the payment; the notifier audits its
	// own outcome.
	go s.notifier.SendPaymentReceipt(detachedContext(ctx), paid)

	return paid, nil
}

// validatePayment checks the method and, for non-cash methods, that the
// receiving bank account exists. It runs before any mutation in both
// payment contexts. Cash never routes through a bank account, so a supplied
// account ID is dropped.
func (s *PaymentService) validatePayment(ctx context.Context, methodInput string, bankAccountID *uuid.UUID) (enum.PaymentMethod, *uuid.UUID, error) {
	method, ok := enum.ParsePaymentMethod(methodInput)
	if !ok {
		return "", nil, apperror.NewUnprocessableError("Unknown payment method: " + methodInput)
	}

	if !method.RequiresBankAccount() {
		return method, nil, nil
	}

	if bankAccountID == nil {
		return "", nil, apperror.ErrBankAccountRequired
	}
	account, err := s.bankAccountRepo.GetByID(ctx, *bankAccountID)
	if err != nil {
		return "", nil, err
	}
	if account == nil {
		return "", nil, apperror.NewNotFoundError("Bank account")
	}
	return method, bankAccountID, nil
}

// WalkInPatientInput registers a patient at the counter as part of billing
type WalkInPatientInput struct {
	FirstName string
	LastName  string
	Phone     *string
	Email     *string
}

// WalkInBillInput represents the combined create-and-pay input used at the
// front desk for walk-in patients.
type WalkInBillInput struct {
	UserID                 uuid.UUID
	UserName               string
	PatientID              *uuid.UUID
	NewPatient             *WalkInPatientInput
	ReferralProviderID     *uuid.UUID
	DiscountPct            int
	Items                  []InvoiceItemInput
	Method                 string
	Details                entity.PaymentDetails
	ReceivingBankAccountID *uuid.UUID
}

// CreateWalkInBill creates an invoice and collects its payment in one
// operation. The patient may be an existing record or registered inline.
func (s *PaymentService) CreateWalkInBill(ctx context.Context, input *WalkInBillInput) (*entity.Invoice, error) {
	// A rejected payment must leave nothing behind, so the method and bank
	// account are checked before the patient or the invoice is persisted.
	if _, _, err := s.validatePayment(ctx, input.Method, input.ReceivingBankAccountID); err != nil {
		return nil, err
	}

	patientID, err := s.resolveWalkInPatient(ctx, input)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceService.CreateInvoice(ctx, &CreateInvoiceInput{
		UserID:             input.UserID,
		UserName:           input.UserName,
		PatientID:          patientID,
		ReferralProviderID: input.ReferralProviderID,
		DiscountPct:        input.DiscountPct,
		Items:              input.Items,
	})
	if err != nil {
		return nil, err
	}

	return s.CollectPayment(ctx, &CollectPaymentInput{
		UserID:                 input.UserID,
		UserName:               input.UserName,
		InvoiceID:              invoice.ID,
		Method:                 input.Method,
		Details:                input.Details,
		ReceivingBankAccountID: input.ReceivingBankAccountID,
	})
}

func (s *PaymentService) resolveWalkInPatient(ctx context.Context, input *WalkInBillInput) (uuid.UUID, error) {
	if input.PatientID != nil {
		return *input.PatientID, nil
	}

	if input.NewPatient == nil || input.NewPatient.FirstName == "" {
		return uuid.Nil, apperror.NewUnprocessableError("Either an existing patient or new patient details are required")
	}

	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return uuid.Nil, apperror.NewBadRequestError("Branch context required")
	}

	patient := &entity.Patient{
		BranchID:  branchID,
		PatientNo: utils.GeneratePatientNo(),
		FirstName: input.NewPatient.FirstName,
		LastName:  input.NewPatient.LastName,
		Phone:     input.NewPatient.Phone,
		Email:     input.NewPatient.Email,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return uuid.Nil, err
	}
	return patient.ID, nil
}

// detachedContext keeps the request's branch scope but drops its cancelation,
// so background email work survives the HTTP response.
func detachedContext(ctx context.Context) context.Context {
	detached := context.Background()
	if branchID, ok := infraRepo.GetBranchID(ctx); ok {
		detached = infraRepo.WithBranch(detached, branchID)
	}
	return detached
}
