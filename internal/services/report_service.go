package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/textnorm"
)

type reportLabels struct {
	SummarySheet string
	ItemsSheet   string
	Activity     string
	Kind         string
	Student      string
	Score        string
	Total        string
	Percentage   string
	Time         string
	Question     string
	Hint         string
	Answer       string
	Expected     string
	Correct      string
	Yes          string
	No           string
}

var reportCatalog = map[models.Language]reportLabels{
	models.LanguageES: {
		SummarySheet: "Resumen",
		ItemsSheet:   "Respuestas",
		Activity:     "Actividad",
		Kind:         "Tipo",
		Student:      "Estudiante",
		Score:        "Correctas",
		Total:        "Total",
		Percentage:   "Porcentaje",
		Time:         "Tiempo",
		Question:     "Pregunta",
		Hint:         "Pista",
		Answer:       "Respuesta",
		Expected:     "Respuesta correcta",
		Correct:      "Correcta",
		Yes:          "Sí",
		No:           "No",
	},
	models.LanguageEN: {
		SummarySheet: "Summary",
		ItemsSheet:   "Answers",
		Activity:     "Activity",
		Kind:         "Type",
		Student:      "Student",
		Score:        "Correct answers",
		Total:        "Total",
		Percentage:   "Percentage",
		Time:         "Time",
		Question:     "Question",
		Hint:         "Hint",
		Answer:       "Answer",
		Expected:     "Correct answer",
		Correct:      "Correct",
		Yes:          "Yes",
		No:           "No",
	},
}

// labelsFor falls back to Spanish like the notice messages
func labelsFor(lang models.Language) reportLabels {
	if labels, ok := reportCatalog[lang]; ok {
		return labels
	}
	return reportCatalog[models.LanguageES]
}

// ReportService renders finished attempts as spreadsheets
type ReportService struct {
	logger *slog.Logger
}

func NewReportService(logger *slog.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// AttemptWorkbook builds an xlsx with a summary sheet and one row per item
func (s *ReportService) AttemptWorkbook(def *models.ActivityDefinition, result *engine.Result) ([]byte, error) {
	if def == nil || result == nil {
		return nil, ErrResultNotReady
	}

	labels := labelsFor(def.Language)
	summarySheet, itemsSheet := labels.SummarySheet, labels.ItemsSheet

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	summary := [][]interface{}{
		{labels.Activity, def.Title},
		{labels.Kind, string(def.Kind)},
		{labels.Student, result.StudentName},
		{labels.Score, result.Score},
		{labels.Total, result.TotalItems},
		{labels.Percentage, result.Percentage},
		{labels.Time, engine.FormatElapsed(msDuration(result.ElapsedMs))},
	}
	for rowIndex, row := range summary {
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
			f.SetCellValue(summarySheet, cell, value)
		}
	}

	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	prompt := labels.Question
	if def.Kind == models.KindAnagram {
		prompt = labels.Hint
	}
	headers := []string{"#", prompt, labels.Answer, labels.Expected, labels.Correct}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(itemsSheet, cell, header)
	}

	for i, row := range itemRows(def, result, labels) {
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, i+2)
			f.SetCellValue(itemsSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Attempt report generated",
		"activity_id", def.ID,
		"student_name", result.StudentName,
		"bytes", buf.Len())
	return buf.Bytes(), nil
}

func itemRows(def *models.ActivityDefinition, result *engine.Result, labels reportLabels) [][]interface{} {
	var rows [][]interface{}
	switch def.Kind {
	case models.KindAnagram:
		for i, puzzle := range def.Anagrams {
			given, _ := answerAt(result, i).(string)
			correct := given != "" && textnorm.Equal(given, puzzle.Word)
			rows = append(rows, []interface{}{i + 1, puzzle.Hint, given, puzzle.Word, labels.yesNo(correct)})
		}
	default:
		for i, q := range def.Questions {
			given := ""
			correct := false
			if opt, ok := answerAt(result, i).(int); ok {
				correct = opt == q.CorrectIndex
				given = optionText(q, opt)
			}
			rows = append(rows, []interface{}{i + 1, q.Prompt, given, optionText(q, q.CorrectIndex), labels.yesNo(correct)})
		}
	}
	return rows
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func answerAt(result *engine.Result, i int) any {
	if i < len(result.Answers) {
		return result.Answers[i]
	}
	return nil
}

func optionText(q models.Question, index int) string {
	if index >= 0 && index < len(q.Options) {
		return q.Options[index]
	}
	return ""
}

func (l reportLabels) yesNo(ok bool) string {
	if ok {
		return l.Yes
	}
	return l.No
}
