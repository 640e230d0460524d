package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// --- Port mocks ---

type mockCredentialStore struct {
	active  map[model.CredentialType]model.Credential
	missing map[model.CredentialType]bool
}

func (m *mockCredentialStore) Add(_ context.Context, _, _ string, _ model.CredentialType) (model.Credential, error) {
	return model.Credential{}, errors.New("not implemented")
}

func (m *mockCredentialStore) ListWithUsage(_ context.Context) ([]model.CredentialUsage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCredentialStore) SetActiveSet(_ context.Context, _ []model.ActiveSelection) error {
	return errors.New("not implemented")
}

func (m *mockCredentialStore) GetActiveByType(_ context.Context, typ model.CredentialType) (model.Credential, error) {
	if m.missing[typ] {
		return model.Credential{}, fault.New(fault.KindCredentialNotFound, fmt.Sprintf("no active %s credential", typ))
	}
	return m.active[typ], nil
}

type mockOCRClient struct {
	calls    []driven.OCRRequest
	failFile string
	text     map[string]string
}

func (m *mockOCRClient) ParseImage(_ context.Context, req driven.OCRRequest) (string, error) {
	m.calls = append(m.calls, req)
	if req.Filename == m.failFile {
		return "", errors.New("ocr backend unavailable")
	}
	return m.text[req.Filename], nil
}

type mockLLMClient struct {
	calls    int
	prompt   string
	apiKey   string
	response string
	err      error
}

func (m *mockLLMClient) GenerateText(_ context.Context, apiKey, prompt string) (string, error) {
	m.calls++
	m.apiKey = apiKey
	m.prompt = prompt
	return m.response, m.err
}

type mockSheetWriter struct {
	calls  int
	creds  driven.SheetCredentials
	record model.CVRecord
	err    error
}

func (m *mockSheetWriter) AppendRecord(_ context.Context, creds driven.SheetCredentials, rec model.CVRecord) error {
	m.calls++
	m.creds = creds
	m.record = rec
	return m.err
}

type mockUsageStore struct {
	records []model.UsageRecord
	err     error
}

func (m *mockUsageStore) Record(_ context.Context, rec model.UsageRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

// --- Helpers ---

func allActiveCredentials() map[model.CredentialType]model.Credential {
	return map[model.CredentialType]model.Credential{
		model.CredentialTypeGemini:      {ID: 1, Secret: "gm-key", Type: model.CredentialTypeGemini, IsActive: true},
		model.CredentialTypeOCR:         {ID: 2, Secret: "ocr-key", Type: model.CredentialTypeOCR, IsActive: true},
		model.CredentialTypeSheetConfig: {ID: 3, Secret: `{"type":"service_account"}`, Type: model.CredentialTypeSheetConfig, IsActive: true},
		model.CredentialTypeSheetID:     {ID: 4, Secret: "sheet-id-1", Type: model.CredentialTypeSheetID, IsActive: true},
		model.CredentialTypeSheetName:   {ID: 5, Secret: "Sheet1", Type: model.CredentialTypeSheetName, IsActive: true},
	}
}

type pipelineMocks struct {
	creds  *mockCredentialStore
	ocr    *mockOCRClient
	llm    *mockLLMClient
	sheets *mockSheetWriter
	usage  *mockUsageStore
}

func newTestService(m pipelineMocks) *IntakeService {
	return NewIntakeService(m.creds, m.usage, m.ocr, m.llm, m.sheets, "eng", slog.Default())
}

func defaultMocks() pipelineMocks {
	return pipelineMocks{
		creds: &mockCredentialStore{active: allActiveCredentials()},
		ocr: &mockOCRClient{text: map[string]string{
			"cv1.jpg": "Father's Name: john doe\nGender: M\nsome noise",
		}},
		llm: &mockLLMClient{
			response: "```json\n" + `{"name":"","gender":"M","date_of_birth":"","nid_number":"","phone":"","education":"","fathers_name":"john doe","mothers_name":"","present_address":""}` + "\n```",
		},
		sheets: &mockSheetWriter{},
		usage:  &mockUsageStore{},
	}
}

// --- Tests ---

func TestProcessBatchSuccess(t *testing.T) {
	m := defaultMocks()
	svc := newTestService(m)

	rec, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.NoError(t, err)

	// Raw LLM values come back normalized.
	assert.Equal(t, "John Doe", rec.FathersName)
	assert.Equal(t, "Male", rec.Gender)
	assert.Empty(t, rec.Name)

	// The sheet received the normalized record with the right credentials.
	assert.Equal(t, 1, m.sheets.calls)
	assert.Equal(t, "sheet-id-1", m.sheets.creds.SpreadsheetID)
	assert.Equal(t, "Sheet1", m.sheets.creds.WorksheetName)
	assert.Equal(t, rec, m.sheets.record)

	// One audit row with the four credential values and the file count.
	require.Len(t, m.usage.records, 1)
	usage := m.usage.records[0]
	assert.Equal(t, "ocr-key", usage.OCRSecret)
	assert.Equal(t, "gm-key", usage.GeminiSecret)
	assert.Equal(t, "sheet-id-1", usage.SheetID)
	assert.Equal(t, "Sheet1", usage.SheetName)
	assert.Equal(t, 1, usage.FileCount)
	require.NotNil(t, usage.CompletedAt)
}

func TestProcessBatchPromptOrderAndHeaders(t *testing.T) {
	m := defaultMocks()
	m.ocr.text = map[string]string{
		"a.jpg": "alpha text",
		"b.jpg": "beta text",
	}
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{
		{Filename: "a.jpg", Base64: "YQ=="},
		{Filename: "b.jpg", Base64: "Yg=="},
	})
	require.NoError(t, err)

	assert.Equal(t, "gm-key", m.llm.apiKey)
	first := strings.Index(m.llm.prompt, "----- File: a.jpg -----")
	second := strings.Index(m.llm.prompt, "----- File: b.jpg -----")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, m.llm.prompt, "alpha text")
	assert.Contains(t, m.llm.prompt, "beta text")
}

func TestProcessBatchMissingCredentialAbortsBeforeExternalCalls(t *testing.T) {
	m := defaultMocks()
	m.creds.missing = map[model.CredentialType]bool{model.CredentialTypeSheetID: true}
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
	assert.Contains(t, err.Error(), "SHEET_ID")

	assert.Empty(t, m.ocr.calls)
	assert.Zero(t, m.llm.calls)
	assert.Zero(t, m.sheets.calls)
}

func TestProcessBatchOCRFailureNamesFileAndAbortsBeforeLLM(t *testing.T) {
	m := defaultMocks()
	m.ocr.text = map[string]string{"one.jpg": "x", "three.jpg": "z"}
	m.ocr.failFile = "two.jpg"
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{
		{Filename: "one.jpg", Base64: "YQ=="},
		{Filename: "two.jpg", Base64: "Yg=="},
		{Filename: "three.jpg", Base64: "Yw=="},
	})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindOCR))
	assert.Contains(t, err.Error(), "two.jpg")

	// No partial-batch continuation: the third file was never OCRed and
	// the model was never invoked.
	assert.Len(t, m.ocr.calls, 2)
	assert.Zero(t, m.llm.calls)
	assert.Zero(t, m.sheets.calls)
	assert.Empty(t, m.usage.records)
}

func TestProcessBatchLLMFailure(t *testing.T) {
	m := defaultMocks()
	m.llm.err = errors.New("model overloaded")
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindLLM))
	assert.Zero(t, m.sheets.calls)
}

func TestProcessBatchMalformedLLMOutput(t *testing.T) {
	m := defaultMocks()
	m.llm.response = "Sure! Here is the JSON you asked for: {..."
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindResponseFormat))
	assert.Zero(t, m.sheets.calls)
}

func TestProcessBatchNonObjectLLMOutput(t *testing.T) {
	m := defaultMocks()
	m.llm.response = `["not","an","object"]`
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindSchemaValidation))
}

func TestProcessBatchSheetWriteFailure(t *testing.T) {
	m := defaultMocks()
	m.sheets.err = errors.New("quota exceeded")
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindSheetWrite))
	assert.Empty(t, m.usage.records)
}

func TestProcessBatchUsageWriteFailureSurfacedAfterSheetWrite(t *testing.T) {
	m := defaultMocks()
	m.usage.err = fault.New(fault.KindPersistence, "failed to record usage")
	svc := newTestService(m)

	_, err := svc.ProcessBatch(context.Background(), []ImageInput{{Filename: "cv1.jpg", Base64: "aW1n"}})
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindPersistence))

	// The sheet row was already appended; the failure is surfaced, not
	// rolled back.
	assert.Equal(t, 1, m.sheets.calls)
}
