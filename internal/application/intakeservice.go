// Package application orchestrates the CV intake pipeline over the
// driven ports.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/withtahmid/cv-agent/internal/domain/extract"
	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// ImageInput is one scanned CV page submitted for intake.
type ImageInput struct {
	Filename string
	Base64   string
}

// IntakeService runs one CV batch end to end: resolve active
// credentials, OCR each image in input order, extract fields with the
// LLM, validate, append the spreadsheet row, and record the audit entry.
// Nothing is retried; every collaborator failure is terminal for the
// request.
type IntakeService struct {
	credentials driven.CredentialStore
	usage       driven.UsageStore
	ocr         driven.OCRClient
	llm         driven.LLMClient
	sheets      driven.SheetWriter
	ocrLanguage string
	logger      *slog.Logger
}

// NewIntakeService creates an IntakeService with all required dependencies.
func NewIntakeService(
	credentials driven.CredentialStore,
	usage driven.UsageStore,
	ocr driven.OCRClient,
	llm driven.LLMClient,
	sheets driven.SheetWriter,
	ocrLanguage string,
	logger *slog.Logger,
) *IntakeService {
	return &IntakeService{
		credentials: credentials,
		usage:       usage,
		ocr:         ocr,
		llm:         llm,
		sheets:      sheets,
		ocrLanguage: ocrLanguage,
		logger:      logger,
	}
}

// ProcessBatch runs the full pipeline for one batch of images and
// returns the validated record. Failures carry a fault.Kind identifying
// the failed step; an OCR failure names the offending file and aborts
// the batch before the LLM is invoked.
func (s *IntakeService) ProcessBatch(ctx context.Context, images []ImageInput) (model.CVRecord, error) {
	start := time.Now()

	// Step 1: resolve all five active credentials before any external call.
	active := make(map[model.CredentialType]model.Credential, len(model.CredentialTypes))
	for _, typ := range model.CredentialTypes {
		cred, err := s.credentials.GetActiveByType(ctx, typ)
		if err != nil {
			return model.CVRecord{}, fault.Wrap(fault.KindConfiguration,
				fmt.Sprintf("no active %s credential configured", typ), err)
		}
		active[typ] = cred
	}

	// Step 2: OCR each image sequentially, in input order. Order matters:
	// the concatenated text feeds a single model call.
	texts := make([]fileText, 0, len(images))
	for _, img := range images {
		text, err := s.ocr.ParseImage(ctx, driven.OCRRequest{
			APIKey:      active[model.CredentialTypeOCR].Secret,
			ImageBase64: img.Base64,
			Filename:    img.Filename,
			Language:    s.ocrLanguage,
		})
		if err != nil {
			return model.CVRecord{}, fault.Wrap(fault.KindOCR,
				fmt.Sprintf("text extraction failed for %q", img.Filename), err)
		}
		texts = append(texts, fileText{filename: img.Filename, text: text})
	}

	// Steps 3-4: render the prompt and invoke the model.
	response, err := s.llm.GenerateText(ctx, active[model.CredentialTypeGemini].Secret, buildPrompt(texts))
	if err != nil {
		return model.CVRecord{}, fault.Wrap(fault.KindLLM, "field extraction failed", err)
	}

	// Step 5: defence, parse, validate, normalize.
	record, err := extract.ParseRecord(response)
	if err != nil {
		return model.CVRecord{}, err
	}

	// Step 6: append the spreadsheet row.
	sheetCreds := driven.SheetCredentials{
		ConfigJSON:    active[model.CredentialTypeSheetConfig].Secret,
		SpreadsheetID: active[model.CredentialTypeSheetID].Secret,
		WorksheetName: active[model.CredentialTypeSheetName].Secret,
	}
	if err := s.sheets.AppendRecord(ctx, sheetCreds, record); err != nil {
		return model.CVRecord{}, fault.Wrap(fault.KindSheetWrite, "spreadsheet append failed", err)
	}

	// Step 7: audit log. The sheet row is already written; a failure here
	// is surfaced but not rolled back -- there is no two-phase commit
	// across the external sheet and the local database.
	completed := time.Now().UTC()
	err = s.usage.Record(ctx, model.UsageRecord{
		OCRSecret:    active[model.CredentialTypeOCR].Secret,
		GeminiSecret: active[model.CredentialTypeGemini].Secret,
		SheetID:      active[model.CredentialTypeSheetID].Secret,
		SheetName:    active[model.CredentialTypeSheetName].Secret,
		FileCount:    len(images),
		CompletedAt:  &completed,
	})
	if err != nil {
		s.logger.Error("usage record write failed after successful sheet append",
			"file_count", len(images),
			"error", err,
		)
		return model.CVRecord{}, err
	}

	s.logger.Info("cv batch processed",
		"file_count", len(images),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return record, nil
}
