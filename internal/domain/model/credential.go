package model

import "time"

// CredentialType identifies which external collaborator a credential
// authenticates to.
type CredentialType string

const (
	CredentialTypeGemini      CredentialType = "GEMINI"       // Gemini API key.
	CredentialTypeOCR         CredentialType = "OCR"          // OCR API key.
	CredentialTypeSheetConfig CredentialType = "SHEET_CONFIG" // Service-account JSON for Sheets auth.
	CredentialTypeSheetID     CredentialType = "SHEET_ID"     // Target spreadsheet ID.
	CredentialTypeSheetName   CredentialType = "SHEET_NAME"   // Target worksheet name.
)

// CredentialTypes lists every valid credential type, in the order the
// intake pipeline resolves them.
var CredentialTypes = []CredentialType{
	CredentialTypeGemini,
	CredentialTypeOCR,
	CredentialTypeSheetConfig,
	CredentialTypeSheetID,
	CredentialTypeSheetName,
}

// Valid reports whether t is one of the known credential types.
func (t CredentialType) Valid() bool {
	for _, known := range CredentialTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Credential is one named secret of a given type. At most one credential
// per type carries IsActive = true at any committed point in time; the
// intake pipeline requires exactly one active credential of every type.
type Credential struct {
	ID        int64
	Name      string
	Secret    string // Unique across all credentials regardless of type.
	Type      CredentialType
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CredentialUsage is a credential joined with its audit-log usage counts.
// Credentials that were never used report zero counts, not absence.
type CredentialUsage struct {
	Credential
	TotalUsage   int64
	Last24hUsage int64
}

// ActiveSelection is one entry of a full-replace active-set update.
// Callers must submit the complete desired state: every credential not
// selected as active ends up inactive.
type ActiveSelection struct {
	ID     int64
	Active bool
}
