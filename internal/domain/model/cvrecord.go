package model

// CVRecord is the canonical set of fields extracted from one CV batch.
// Every field is a normalized string; empty string means the value could
// not be determined with confidence. The record is transient: it is
// written to the spreadsheet and returned to the caller, never persisted
// locally.
type CVRecord struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"date_of_birth"`
	NIDNumber      string `json:"nid_number"`
	Phone          string `json:"phone"`
	Education      string `json:"education"`
	FathersName    string `json:"fathers_name"`
	MothersName    string `json:"mothers_name"`
	PresentAddress string `json:"present_address"`
}

// CVRecordHeader is the fixed spreadsheet header row, in column order.
var CVRecordHeader = []string{
	"Name",
	"Gender",
	"Date of Birth",
	"NID Number",
	"Phone",
	"Education",
	"Father's Name",
	"Mother's Name",
	"Present Address",
}

// Row returns the record's values in CVRecordHeader column order.
func (r CVRecord) Row() []string {
	return []string{
		r.Name,
		r.Gender,
		r.DateOfBirth,
		r.NIDNumber,
		r.Phone,
		r.Education,
		r.FathersName,
		r.MothersName,
		r.PresentAddress,
	}
}
