package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_AccumulatesAllFailures(t *testing.T) {
	rules := []Rule{
		{Field: "A", Message: "A failed", Valid: func() bool { return false }},
		{Field: "B", Message: "B ok", Valid: func() bool { return true }},
		{Field: "C", Message: "C failed", Valid: func() bool { return false }},
	}

	res := Evaluate(rules)

	assert.False(t, res.IsValid())
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, FieldError{Field: "A", Message: "A failed"}, res.Errors[0])
	assert.Equal(t, FieldError{Field: "C", Message: "C failed"}, res.Errors[1])
}

func TestEvaluate_PreservesRuleOrder(t *testing.T) {
	rules := []Rule{
		{Field: "first", Message: "1", Valid: func() bool { return false }},
		{Field: "second", Message: "2", Valid: func() bool { return false }},
		{Field: "third", Message: "3", Valid: func() bool { return false }},
	}

	res := Evaluate(rules)

	fields := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"first", "second", "third"}, fields)
}

func TestEvaluate_EmptyRuleSet(t *testing.T) {
	res := Evaluate(nil)
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Errors)
}

func TestResult_Merge(t *testing.T) {
	var a Result
	a.Add("X", "x failed")

	var b Result
	b.Add("Y", "y failed")

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Equal(t, "X", a.Errors[0].Field)
	assert.Equal(t, "Y", a.Errors[1].Field)
}

func TestResult_ZeroValueIsValid(t *testing.T) {
	var res Result
	assert.True(t, res.IsValid())
}
