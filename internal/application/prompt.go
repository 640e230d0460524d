package application

import (
	"fmt"
	"strings"
)

// extractionPrompt is the fixed template rendered for every batch. The
// instructions pin the model to the nine known fields and to preferring
// an empty string over a guess.
const extractionPrompt = `You are extracting structured data from OCR text of scanned CV documents.
The OCR text may contain noise, misread characters, and irrelevant fragments.

Extract exactly these fields:
- name
- gender
- date_of_birth
- nid_number
- phone
- education
- fathers_name
- mothers_name
- present_address

Rules:
- Never invent or guess a value. If a field cannot be determined from the
  text with confidence, use the empty string "".
- Copy values as they appear in the text; do not reformat or translate.
- Respond with exactly one JSON object containing all nine fields as
  strings, and no surrounding text, commentary, or markdown.

OCR text follows.

%s`

// fileText pairs one input file with its extracted OCR text.
type fileText struct {
	filename string
	text     string
}

// buildPrompt renders the extraction prompt over the concatenated OCR
// texts. Each file's text is prefixed with a header naming the file;
// concatenation order matches input order, which matters because all
// files feed a single model call.
func buildPrompt(texts []fileText) string {
	var b strings.Builder
	for _, ft := range texts {
		fmt.Fprintf(&b, "----- File: %s -----\n%s\n\n", ft.filename, ft.text)
	}
	return fmt.Sprintf(extractionPrompt, strings.TrimSpace(b.String()))
}
