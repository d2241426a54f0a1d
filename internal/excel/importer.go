package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	ChapterID         string // Chapter the imported questions belong to
	PromptColumn      string // Column with the question prompt
	OptionAColumn     string // Column with option A
	OptionBColumn     string // Column with option B
	OptionCColumn     string // Column with option C
	OptionDColumn     string // Column with option D
	CorrectColumn     string // Column with the 1-based correct option index
	TopicColumn       string // Column with the topic title
	ExplanationColumn string // Column with the explanation
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		PromptColumn:      "A",
		OptionAColumn:     "B",
		OptionBColumn:     "C",
		OptionCColumn:     "D",
		OptionDColumn:     "E",
		CorrectColumn:     "F",
		TopicColumn:       "G",
		ExplanationColumn: "H",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	TopicsCreated  int      `json:"topics_created"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

// Importer loads questions from spreadsheet files into a chapter
type Importer struct {
	store *database.Store
}

// NewImporter returns an importer backed by the given store
func NewImporter(store *database.Store) *Importer {
	return &Importer{store: store}
}

// ImportQuestions imports questions from an Excel or CSV file
func (imp *Importer) ImportQuestions(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if config.ChapterID == "" {
		return nil, fmt.Errorf("chapter id is required")
	}
	if _, err := imp.store.Chapters.GetByID(ctx, config.ChapterID); err != nil {
		return nil, fmt.Errorf("failed to load chapter: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return imp.importFromCSV(ctx, config)
	}
	return imp.importFromExcel(ctx, config)
}

// importFromExcel imports questions from an Excel file
func (imp *Importer) importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	result := &ImportResult{Errors: make([]string, 0)}

	topicMap, err := imp.topicMap(ctx, config.ChapterID)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		data := rowData{
			Prompt:      cellAt(row, config.PromptColumn),
			OptionA:     cellAt(row, config.OptionAColumn),
			OptionB:     cellAt(row, config.OptionBColumn),
			OptionC:     cellAt(row, config.OptionCColumn),
			OptionD:     cellAt(row, config.OptionDColumn),
			Correct:     cellAt(row, config.CorrectColumn),
			TopicTitle:  cellAt(row, config.TopicColumn),
			Explanation: cellAt(row, config.ExplanationColumn),
		}
		if err := imp.processRow(ctx, config.ChapterID, data, topicMap, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports questions from a CSV file. Columns follow the same
// order as the default Excel layout: prompt, four options, correct index,
// topic, explanation.
func (imp *Importer) importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}

	topicMap, err := imp.topicMap(ctx, config.ChapterID)
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		data := rowData{
			Prompt:      fieldAt(row, 0),
			OptionA:     fieldAt(row, 1),
			OptionB:     fieldAt(row, 2),
			OptionC:     fieldAt(row, 3),
			OptionD:     fieldAt(row, 4),
			Correct:     fieldAt(row, 5),
			TopicTitle:  fieldAt(row, 6),
			Explanation: fieldAt(row, 7),
		}
		if err := imp.processRow(ctx, config.ChapterID, data, topicMap, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// rowData holds extracted question information from a single import row
type rowData struct {
	Prompt      string
	OptionA     string
	OptionB     string
	OptionC     string
	OptionD     string
	Correct     string
	TopicTitle  string
	Explanation string
}

// topicMap loads the chapter's topics keyed by lowercase title
func (imp *Importer) topicMap(ctx context.Context, chapterID string) (map[string]string, error) {
	existing, err := imp.store.Topics.GetByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing topics: %v", err)
	}
	topicMap := make(map[string]string)
	for _, topic := range existing {
		topicMap[strings.ToLower(topic.Title)] = topic.ID
	}
	return topicMap, nil
}

// getOrCreateTopic resolves a topic title to its id, creating the topic when missing
func (imp *Importer) getOrCreateTopic(ctx context.Context, chapterID, title string, topicMap map[string]string, result *ImportResult) (string, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	if id, exists := topicMap[key]; exists {
		return id, nil
	}

	topic := &models.Topic{
		ID:        uuid.NewString(),
		ChapterID: chapterID,
		Title:     strings.TrimSpace(title),
	}
	if err := imp.store.Topics.Create(ctx, topic); err != nil {
		return "", fmt.Errorf("failed to create topic: %v", err)
	}
	topicMap[key] = topic.ID
	result.TopicsCreated++
	return topic.ID, nil
}

// processRow validates one row and creates or updates the matching question
func (imp *Importer) processRow(ctx context.Context, chapterID string, data rowData, topicMap map[string]string, result *ImportResult) error {
	prompt := strings.TrimSpace(data.Prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	options := []string{
		strings.TrimSpace(data.OptionA),
		strings.TrimSpace(data.OptionB),
		strings.TrimSpace(data.OptionC),
		strings.TrimSpace(data.OptionD),
	}
	for _, opt := range options {
		if opt == "" {
			return fmt.Errorf("all four options are required")
		}
	}
	correct := parseIntOrDefault(data.Correct, 1, models.OptionCount, 0)
	if correct == 0 {
		return fmt.Errorf("correct must be between 1 and %d", models.OptionCount)
	}

	topicID := ""
	if strings.TrimSpace(data.TopicTitle) != "" {
		var err error
		topicID, err = imp.getOrCreateTopic(ctx, chapterID, data.TopicTitle, topicMap, result)
		if err != nil {
			return err
		}
	}

	// Re-importing a file updates questions already present in the chapter
	existing, err := imp.store.Questions.GetByPrompt(ctx, chapterID, prompt)
	if err != nil {
		return fmt.Errorf("failed to look up existing question: %v", err)
	}
	if existing != nil {
		existing.OptionA = options[0]
		existing.OptionB = options[1]
		existing.OptionC = options[2]
		existing.OptionD = options[3]
		existing.Correct = correct
		existing.TopicID = topicID
		existing.Explanation = strings.TrimSpace(data.Explanation)
		if err := imp.store.Questions.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update question: %v", err)
		}
		result.Updated++
		return nil
	}

	question := &models.Question{
		ID:          uuid.NewString(),
		ChapterID:   chapterID,
		TopicID:     topicID,
		Prompt:      prompt,
		OptionA:     options[0],
		OptionB:     options[1],
		OptionC:     options[2],
		OptionD:     options[3],
		Correct:     correct,
		Explanation: strings.TrimSpace(data.Explanation),
	}
	if err := imp.store.Questions.Create(ctx, question); err != nil {
		return fmt.Errorf("failed to create question: %v", err)
	}
	result.Created++
	return nil
}

// cellAt returns the row cell addressed by an Excel column letter
func cellAt(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

// fieldAt returns the CSV field at the given index
func fieldAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// Helper function to parse integer within a range
func parseIntInRange(s string, min, max int) (int, error) {
	var val int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &val); err != nil {
		return min, err
	}
	if val < min || val > max {
		return min, fmt.Errorf("value %d out of range", val)
	}
	return val, nil
}

// Helper function to parse integer with default value
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	if val, err := parseIntInRange(s, min, max); err == nil {
		return val
	}
	return defaultVal
}
