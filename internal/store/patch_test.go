package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

func TestBudgetPatchClampsNegativeAmounts(t *testing.T) {
	p := BudgetPatch{Kind: BudgetActual, Value: -25}

	var task model.Task
	p.Apply(&task)

	assert.Equal(t, 0.0, task.BudgetActual)
	assert.Equal(t, 0.0, p.Arg())
}

func TestBudgetPatchTargetsTheRightColumn(t *testing.T) {
	assert.Equal(t, "budget_estimated", BudgetPatch{Kind: BudgetEstimated}.Column())
	assert.Equal(t, "budget_actual", BudgetPatch{Kind: BudgetActual}.Column())
	assert.Equal(t, "budget_optional", BudgetPatch{Kind: BudgetOptional}.Column())
}

func TestDatePatchNormalizesToMidnight(t *testing.T) {
	in := time.Date(2026, time.February, 10, 18, 45, 0, 0, time.Local)
	p := DatePatch{Value: &in}

	var task model.Task
	p.Apply(&task)

	assert.Equal(t, model.DateOnly(in), *task.Date)
}

func TestDatePatchNilClearsDate(t *testing.T) {
	existing := model.DateOnly(time.Now())
	task := model.Task{Date: &existing}

	DatePatch{Value: nil}.Apply(&task)

	assert.Nil(t, task.Date)
}
