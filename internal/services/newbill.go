package services

import (
	"context"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/routes"
	"billed/internal/session"
	"billed/internal/store"
)

// Navigator receives pathname strings when a pipeline wants the view
// layer to switch views.
type Navigator interface {
	OnNavigate(pathname string)
}

// SyncPublisher emits a non-blocking sync event after a bill is
// persisted locally. The AMQP client implements it; nil disables it.
type SyncPublisher interface {
	PublishBillSync(ctx context.Context, key, email string) error
}

// SubmissionPipeline validates and stages receipt files, then persists
// fully-formed bills. The draft is threaded through as a value: staging
// returns the updated draft and submit takes it back in, so the data
// dependency between the two handlers is an explicit contract.
type SubmissionPipeline struct {
	billStore store.Store
	session   session.Context
	nav       Navigator
	publisher SyncPublisher
	logger    *log.Logger
}

func NewSubmissionPipeline(billStore store.Store, sess session.Context, nav Navigator, publisher SyncPublisher, logger *log.Logger) *SubmissionPipeline {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SubmissionPipeline{
		billStore: billStore,
		session:   sess,
		nav:       nav,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentNewBill),
	}
}

// ValidateAndStageFile gates the attachment on its file type and, when
// accepted, uploads it scoped to the session email. The returned draft
// carries the store-assigned key and file location. A rejected file
// produces a core.UnsupportedFileTypeError before any network call;
// the caller clears the input and raises the alert.
func (p *SubmissionPipeline) ValidateAndStageFile(ctx context.Context, draft core.DraftBill, att core.Attachment) (core.DraftBill, error) {
	if err := core.ValidateReceipt(att); err != nil {
		p.logger.WarnContext(ctx, "Rejected receipt file",
			log.FieldFileName, att.FileName,
			log.FieldError, err,
			log.FieldOperation, log.OpValidate)
		return draft, err
	}

	if p.billStore == nil {
		return draft, store.ErrNoStore
	}

	res, err := p.billStore.UploadReceipt(ctx, p.session.Email, att)
	if err != nil {
		p.logger.ErrorContext(ctx, "Receipt upload failed",
			log.FieldFileName, att.FileName,
			log.FieldEmail, p.session.Email,
			log.FieldError, err,
			log.FieldOperation, log.OpUpload)
		return draft, err
	}

	draft.Key = res.Key
	draft.FileURL = res.FileURL
	draft.FileName = res.FileName

	p.logger.InfoContext(ctx, "Receipt staged",
		log.FieldBillKey, draft.Key,
		log.FieldFileName, draft.FileName,
		log.FieldFileURL, draft.FileURL)

	return draft, nil
}

// Submit assembles the final bill from the form fields and the staged
// draft, persists it, and on success triggers exactly one navigation
// back to the bill list. A persist failure is logged and returned
// without navigating, leaving the user on the form. Submission does
// not wait for staging: a draft without a key is persisted through
// Create instead of Update.
func (p *SubmissionPipeline) Submit(ctx context.Context, draft core.DraftBill, fields core.FormFields) (core.Bill, error) {
	bill := core.AssembleBill(draft, fields, p.session.Email)

	if !draft.Staged() {
		p.logger.WarnContext(ctx, "Submitting bill without a staged receipt",
			log.FieldBillName, bill.Name,
			log.FieldEmail, bill.Email)
	}

	if p.billStore == nil {
		p.logger.ErrorContext(ctx, "Bill submission failed",
			log.FieldError, store.ErrNoStore,
			log.FieldOperation, log.OpSubmit)
		return core.Bill{}, store.ErrNoStore
	}

	var persisted core.Bill
	var err error
	if draft.Key != "" {
		persisted, err = p.billStore.Update(ctx, draft.Key, bill)
	} else {
		persisted, err = p.billStore.Create(ctx, bill)
	}
	if err != nil {
		// Log and stay: no retry, no navigation.
		p.logger.ErrorContext(ctx, "Bill submission failed",
			log.FieldBillName, bill.Name,
			log.FieldEmail, bill.Email,
			log.FieldError, err,
			log.FieldOperation, log.OpSubmit)
		return core.Bill{}, err
	}

	if p.publisher != nil {
		if perr := p.publisher.PublishBillSync(ctx, persisted.Key, persisted.Email); perr != nil {
			// The bill is persisted; a missed sync event is recovered by
			// the worker's startup replay.
			p.logger.WarnContext(ctx, "Failed to publish bill sync message",
				log.FieldBillKey, persisted.Key,
				log.FieldError, perr)
		}
	}

	p.logger.InfoContext(ctx, "Bill submitted",
		log.FieldBillKey, persisted.Key,
		log.FieldBillName, persisted.Name,
		log.FieldStatus, string(persisted.Status))

	if p.nav != nil {
		p.nav.OnNavigate(routes.Bills)
	}

	return persisted, nil
}
