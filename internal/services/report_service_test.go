package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/models"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestReportService_QuizWorkbook(t *testing.T) {
	def := &models.ActivityDefinition{
		ID:       "quiz-1",
		Title:    "Capitales",
		Language: models.LanguageES,
		Kind:     models.KindQuiz,
		Questions: []models.Question{
			{Prompt: "Capital de Francia", Options: []string{"Madrid", "París"}, CorrectIndex: 1},
			{Prompt: "Capital de España", Options: []string{"Madrid", "Lisboa"}, CorrectIndex: 0},
			{Prompt: "Capital de Chile", Options: []string{"Santiago", "Lima"}, CorrectIndex: 0},
		},
	}
	result := &engine.Result{
		StudentName: "Ana",
		Kind:        models.KindQuiz,
		Score:       1,
		TotalItems:  3,
		Percentage:  33,
		Answers:     []any{1, 1, nil},
		ElapsedMs:   65000,
	}

	data, err := NewReportService(testLogger()).AttemptWorkbook(def, result)
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, []string{"Resumen", "Respuestas"}, f.GetSheetList())

	summary, err := f.GetRows("Resumen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Estudiante", "Ana"}, summary[2])
	assert.Equal(t, []string{"Porcentaje", "33"}, summary[5])
	assert.Equal(t, []string{"Tiempo", "01:05"}, summary[6])

	rows, err := f.GetRows("Respuestas")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"#", "Pregunta", "Respuesta", "Respuesta correcta", "Correcta"}, rows[0])
	assert.Equal(t, []string{"1", "Capital de Francia", "París", "París", "Sí"}, rows[1])
	assert.Equal(t, []string{"2", "Capital de España", "Lisboa", "Madrid", "No"}, rows[2])
	assert.Equal(t, []string{"3", "Capital de Chile", "", "Santiago", "No"}, rows[3])
}

func TestReportService_AnagramWorkbook(t *testing.T) {
	def := &models.ActivityDefinition{
		ID:       "anagram-1",
		Title:    "Naturaleza",
		Language: models.LanguageES,
		Kind:     models.KindAnagram,
		Anagrams: []models.AnagramPuzzle{{Word: "Árbol", Hint: "Tiene hojas"}, {Word: "mar"}},
	}
	result := &engine.Result{
		StudentName: "Luis",
		Kind:        models.KindAnagram,
		Score:       1,
		TotalItems:  2,
		Percentage:  50,
		Answers:     []any{"ARBOL", ""},
	}

	data, err := NewReportService(testLogger()).AttemptWorkbook(def, result)
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("Respuestas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Pista", rows[0][1])
	assert.Equal(t, []string{"1", "Tiene hojas", "ARBOL", "Árbol", "Sí"}, rows[1])
	assert.Equal(t, []string{"2", "", "", "mar", "No"}, rows[2])
}

func TestReportService_EnglishLabels(t *testing.T) {
	def := &models.ActivityDefinition{
		ID:        "quiz-en",
		Title:     "Capitals",
		Language:  models.LanguageEN,
		Kind:      models.KindQuiz,
		Questions: []models.Question{{Prompt: "Capital of France", Options: []string{"Madrid", "Paris"}, CorrectIndex: 1}},
	}
	result := &engine.Result{
		StudentName: "Ann",
		Kind:        models.KindQuiz,
		Score:       1,
		TotalItems:  1,
		Percentage:  100,
		Answers:     []any{1},
	}

	data, err := NewReportService(testLogger()).AttemptWorkbook(def, result)
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, []string{"Summary", "Answers"}, f.GetSheetList())
	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Student", "Ann"}, summary[2])

	rows, err := f.GetRows("Answers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"#", "Question", "Answer", "Correct answer", "Correct"}, rows[0])
	assert.Equal(t, []string{"1", "Capital of France", "Paris", "Paris", "Yes"}, rows[1])
}

func TestReportService_NotReady(t *testing.T) {
	_, err := NewReportService(testLogger()).AttemptWorkbook(&models.ActivityDefinition{}, nil)
	assert.ErrorIs(t, err, ErrResultNotReady)
}
