package sheets

import (
	"fmt"

	"github.com/google/uuid"

	"remedy/llm"
)

// Worksheet names expected in the source spreadsheet.
const (
	TableMedicines = "Medicines"
	TableDiseases  = "Diseases"
	TableSymptoms  = "Symptoms"
)

// Column names per worksheet. Required columns are validated against the
// header row before any document is built.
const (
	colName         = "Name"
	colGenericName  = "Generic Name"
	colUses         = "Uses"
	colSideEffects  = "Side Effects"
	colBrands       = "Common Brands (India)"
	colPrescription = "Prescription"
	colSymptoms     = "Symptoms"
	colRecommended  = "Recommended Medicines"
	colPrecautions  = "Precautions"
	colAssociated   = "Associated Diseases"
	colSeverity     = "Severity"
)

// MedicineRecord is one row of the Medicines worksheet.
type MedicineRecord struct {
	Name         string
	GenericName  string
	Uses         string
	SideEffects  string
	Brands       string
	Prescription string // optional column
}

// Document renders the record into its retrieval document.
func (r MedicineRecord) Document() llm.Document {
	return llm.Document{
		ID: uuid.NewString(),
		Content: fmt.Sprintf("Medicine: %s\nGeneric: %s\nUses: %s\nSide Effects: %s\nBrands: %s",
			r.Name, r.GenericName, r.Uses, r.SideEffects, r.Brands),
		DocType: llm.DocTypeMedicine,
		Metadata: map[string]interface{}{
			"prescription": r.Prescription,
			"brands":       r.Brands,
		},
	}
}

// DiseaseRecord is one row of the Diseases worksheet.
type DiseaseRecord struct {
	Name        string
	Symptoms    string
	Medicines   string
	Precautions string
}

// Document renders the record into its retrieval document.
func (r DiseaseRecord) Document() llm.Document {
	return llm.Document{
		ID: uuid.NewString(),
		Content: fmt.Sprintf("Disease: %s\nSymptoms: %s\nMedicines: %s\nPrecautions: %s",
			r.Name, r.Symptoms, r.Medicines, r.Precautions),
		DocType: llm.DocTypeDisease,
		Metadata: map[string]interface{}{
			"symptoms":  r.Symptoms,
			"medicines": r.Medicines,
		},
	}
}

// SymptomRecord is one row of the Symptoms worksheet.
type SymptomRecord struct {
	Name     string
	Diseases string
	Severity string
}

// Document renders the record into its retrieval document.
func (r SymptomRecord) Document() llm.Document {
	return llm.Document{
		ID: uuid.NewString(),
		Content: fmt.Sprintf("Symptom: %s\nAssociated Diseases: %s\nSeverity: %s",
			r.Name, r.Diseases, r.Severity),
		DocType: llm.DocTypeSymptom,
		Metadata: map[string]interface{}{
			"diseases": r.Diseases,
			"severity": r.Severity,
		},
	}
}
