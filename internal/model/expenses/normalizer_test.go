package expenses

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

var today = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func Test_OnNormalize_ShouldKeepValidCandidates(t *testing.T) {
	candidates := []expense.Candidate{
		{
			Merchant:    strPtr("Walmart"),
			Amount:      float64(70),
			Currency:    strPtr("USD"),
			Category:    strPtr("groceries"),
			Note:        strPtr("weekly groceries"),
			ExpenseDate: "2024-03-14",
		},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 1)
	assert.Equal(t, "Walmart", parsed[0].Merchant)
	assert.Equal(t, 70.0, parsed[0].Amount)
	assert.Equal(t, "USD", *parsed[0].Currency)
	assert.Equal(t, "groceries", *parsed[0].Category)
	assert.Equal(t, "weekly groceries", *parsed[0].Note)
	assert.Equal(t, "2024-03-14", parsed[0].ExpenseDate.String())
}

func Test_OnNormalize_ShouldDiscardOnlyCandidatesWithBadAmounts(t *testing.T) {
	candidates := []expense.Candidate{
		{Merchant: strPtr("Walmart"), Amount: float64(70)},
		{Merchant: strPtr("X"), Amount: "not-a-number"},
		{Merchant: strPtr("Apple"), Amount: float64(20)},
		{Merchant: strPtr("Y")},
		{Merchant: strPtr("Z"), Amount: []any{1, 2}},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 2)
	assert.Equal(t, "Walmart", parsed[0].Merchant)
	assert.Equal(t, "Apple", parsed[1].Merchant)
}

func Test_OnNormalize_ShouldCoerceNumericStringAmounts(t *testing.T) {
	candidates := []expense.Candidate{
		{Merchant: strPtr("Walmart"), Amount: "70.5"},
		{Merchant: strPtr("Apple"), Amount: " 20 "},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 2)
	assert.Equal(t, 70.5, parsed[0].Amount)
	assert.Equal(t, 20.0, parsed[1].Amount)
}

func Test_OnNormalize_ShouldDefaultMissingMerchantToEmptyString(t *testing.T) {
	candidates := []expense.Candidate{
		{Amount: float64(5)},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 1)
	assert.Equal(t, "", parsed[0].Merchant)
}

func Test_OnNormalize_ShouldDefaultBadDatesToToday(t *testing.T) {
	candidates := []expense.Candidate{
		{Merchant: strPtr("a"), Amount: float64(1)},
		{Merchant: strPtr("b"), Amount: float64(2), ExpenseDate: "garbage"},
		{Merchant: strPtr("c"), Amount: float64(3), ExpenseDate: float64(20240315)},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 3)
	for _, p := range parsed {
		assert.Equal(t, "2024-03-15", p.ExpenseDate.String())
	}
}

func Test_OnNormalize_ShouldKeepOptionalFieldsAbsent(t *testing.T) {
	candidates := []expense.Candidate{
		{Merchant: strPtr("Walmart"), Amount: float64(70)},
	}

	parsed := Normalize(candidates, today)

	require.Len(t, parsed, 1)
	assert.Nil(t, parsed[0].Currency)
	assert.Nil(t, parsed[0].Category)
	assert.Nil(t, parsed[0].Note)
}

func Test_OnNormalize_OnEmptyInput_ShouldReturnEmptySlice(t *testing.T) {
	parsed := Normalize(nil, today)

	assert.NotNil(t, parsed)
	assert.Empty(t, parsed)
}
