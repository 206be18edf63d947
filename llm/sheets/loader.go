package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"remedy/llm"
)

// Loader converts the three worksheets into normalized documents.
type Loader struct {
	src ValueSource
	log zerolog.Logger
}

// NewLoader creates a loader over the given value source.
func NewLoader(src ValueSource, log zerolog.Logger) *Loader {
	return &Loader{
		src: src,
		log: log.With().Str("component", "sheets").Logger(),
	}
}

// LoadDocuments reads all worksheets and returns one document per data row,
// in table order (medicines, diseases, symptoms). Any table failure aborts
// the whole load.
func (l *Loader) LoadDocuments(ctx context.Context) ([]llm.Document, error) {
	var docs []llm.Document

	for _, load := range []func(context.Context) ([]llm.Document, error){
		l.loadMedicines,
		l.loadDiseases,
		l.loadSymptoms,
	} {
		part, err := load(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, part...)
	}

	l.log.Info().Int("documents", len(docs)).Msg("knowledge base loaded")
	return docs, nil
}

func (l *Loader) loadMedicines(ctx context.Context) ([]llm.Document, error) {
	rows, hdr, err := l.table(ctx, TableMedicines,
		colName, colGenericName, colUses, colSideEffects, colBrands)
	if err != nil {
		return nil, err
	}

	docs := make([]llm.Document, 0, len(rows))
	for _, row := range rows {
		rec := MedicineRecord{
			Name:         hdr.cell(row, colName),
			GenericName:  hdr.cell(row, colGenericName),
			Uses:         hdr.cell(row, colUses),
			SideEffects:  hdr.cell(row, colSideEffects),
			Brands:       hdr.cell(row, colBrands),
			Prescription: hdr.cell(row, colPrescription),
		}
		docs = append(docs, rec.Document())
	}

	l.log.Info().Str("table", TableMedicines).Int("rows", len(docs)).Msg("worksheet loaded")
	return docs, nil
}

func (l *Loader) loadDiseases(ctx context.Context) ([]llm.Document, error) {
	rows, hdr, err := l.table(ctx, TableDiseases,
		colName, colSymptoms, colRecommended, colPrecautions)
	if err != nil {
		return nil, err
	}

	docs := make([]llm.Document, 0, len(rows))
	for _, row := range rows {
		rec := DiseaseRecord{
			Name:        hdr.cell(row, colName),
			Symptoms:    hdr.cell(row, colSymptoms),
			Medicines:   hdr.cell(row, colRecommended),
			Precautions: hdr.cell(row, colPrecautions),
		}
		docs = append(docs, rec.Document())
	}

	l.log.Info().Str("table", TableDiseases).Int("rows", len(docs)).Msg("worksheet loaded")
	return docs, nil
}

func (l *Loader) loadSymptoms(ctx context.Context) ([]llm.Document, error) {
	rows, hdr, err := l.table(ctx, TableSymptoms,
		colName, colAssociated, colSeverity)
	if err != nil {
		return nil, err
	}

	docs := make([]llm.Document, 0, len(rows))
	for _, row := range rows {
		rec := SymptomRecord{
			Name:     hdr.cell(row, colName),
			Diseases: hdr.cell(row, colAssociated),
			Severity: hdr.cell(row, colSeverity),
		}
		docs = append(docs, rec.Document())
	}

	l.log.Info().Str("table", TableSymptoms).Int("rows", len(docs)).Msg("worksheet loaded")
	return docs, nil
}

// table fetches one worksheet and validates its required header columns.
// Returns the data rows and the parsed header.
func (l *Loader) table(ctx context.Context, name string, required ...string) ([][]interface{}, header, error) {
	grid, err := l.src.Table(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if len(grid) == 0 {
		return nil, nil, llm.WrapSourceUnavailable(fmt.Errorf("worksheet %q has no header row", name))
	}

	hdr := parseHeader(grid[0])
	for _, col := range required {
		if _, ok := hdr[col]; !ok {
			return nil, nil, llm.WrapSourceUnavailable(fmt.Errorf("worksheet %q is missing required column %q", name, col))
		}
	}

	return grid[1:], hdr, nil
}

// header maps column names to their positions in the sheet.
type header map[string]int

func parseHeader(row []interface{}) header {
	hdr := make(header, len(row))
	for i, c := range row {
		name := strings.TrimSpace(fmt.Sprint(c))
		if name == "" {
			continue
		}
		if _, exists := hdr[name]; !exists {
			hdr[name] = i
		}
	}
	return hdr
}

// cell returns the trimmed string value of a named column, or "" when the
// column is absent or the row is shorter than the header.
func (h header) cell(row []interface{}, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}
