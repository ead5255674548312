package enums

import "fmt"

// FinancialOperationType distinguishes money coming in from money going out.
type FinancialOperationType string

const (
	FinancialOperationIncome  FinancialOperationType = "income"
	FinancialOperationExpense FinancialOperationType = "expense"
)

var validFinancialOperationTypes = []FinancialOperationType{
	FinancialOperationIncome,
	FinancialOperationExpense,
}

// String implements fmt.Stringer.
func (t FinancialOperationType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known operation type.
func (t FinancialOperationType) IsValid() bool {
	for _, candidate := range validFinancialOperationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseFinancialOperationType converts raw input into FinancialOperationType.
func ParseFinancialOperationType(value string) (FinancialOperationType, error) {
	for _, candidate := range validFinancialOperationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid financial operation type %q", value)
}
