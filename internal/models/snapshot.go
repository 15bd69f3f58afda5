package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSnapshot is a user's raw financial position. Fields are nullable:
// an absent or null JSON value leaves Valid false and is treated as missing.
type FinancialSnapshot struct {
	MonthlyIncome     decimal.NullDecimal `json:"monthly_income"`
	MonthlyExpenses   decimal.NullDecimal `json:"monthly_expenses"`
	TotalAssets       decimal.NullDecimal `json:"total_assets"`
	TotalDebt         decimal.NullDecimal `json:"total_debt"`
	EmergencyFund     decimal.NullDecimal `json:"emergency_fund"`
	InsuranceCoverage decimal.NullDecimal `json:"insurance_coverage"`
}

// SnapshotRecord is a stored snapshot with its owner and last update time
type SnapshotRecord struct {
	UserID    int64             `json:"user_id"`
	Snapshot  FinancialSnapshot `json:"snapshot"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SnapshotMetrics holds values derived from a snapshot. They are computed on
// demand and never stored independently of their inputs.
type SnapshotMetrics struct {
	MonthlySurplus      decimal.Decimal `json:"monthly_surplus"`
	NetWorth            decimal.Decimal `json:"net_worth"`
	DebtToIncomeRatio   *float64        `json:"debt_to_income_ratio"`
	EmergencyFundMonths *float64        `json:"emergency_fund_months"`
	SavingsRate         float64         `json:"savings_rate"`
}

// NewSnapshot builds a fully populated snapshot from float amounts
func NewSnapshot(income, expenses, assets, debt, emergencyFund, insurance float64) FinancialSnapshot {
	return FinancialSnapshot{
		MonthlyIncome:     nullDecimal(income),
		MonthlyExpenses:   nullDecimal(expenses),
		TotalAssets:       nullDecimal(assets),
		TotalDebt:         nullDecimal(debt),
		EmergencyFund:     nullDecimal(emergencyFund),
		InsuranceCoverage: nullDecimal(insurance),
	}
}

func nullDecimal(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

// Validate checks that every present amount is non-negative and that at
// least one field is present.
func (s FinancialSnapshot) Validate() error {
	present := 0
	for _, f := range s.fields() {
		if !f.value.Valid {
			continue
		}
		present++
		if f.value.Decimal.IsNegative() {
			return NewInvalidInputError(f.name, "must be greater than or equal to 0")
		}
	}
	if present == 0 {
		return NewInsufficientDataError("financial snapshot has no fields")
	}
	return nil
}

type snapshotField struct {
	name  string
	value decimal.NullDecimal
}

func (s FinancialSnapshot) fields() []snapshotField {
	return []snapshotField{
		{"monthly_income", s.MonthlyIncome},
		{"monthly_expenses", s.MonthlyExpenses},
		{"total_assets", s.TotalAssets},
		{"total_debt", s.TotalDebt},
		{"emergency_fund", s.EmergencyFund},
		{"insurance_coverage", s.InsuranceCoverage},
	}
}

// Amount returns the float value of a nullable amount and whether it is present
func Amount(v decimal.NullDecimal) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	return v.Decimal.InexactFloat64(), true
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// MonthlySurplus is income minus expenses; missing values count as zero
func (s FinancialSnapshot) MonthlySurplus() decimal.Decimal {
	return orZero(s.MonthlyIncome).Sub(orZero(s.MonthlyExpenses))
}

// NetWorth is assets minus debt; missing values count as zero
func (s FinancialSnapshot) NetWorth() decimal.Decimal {
	return orZero(s.TotalAssets).Sub(orZero(s.TotalDebt))
}

// DebtToIncomeRatio is debt over annual income. ok is false when income is
// missing or zero.
func (s FinancialSnapshot) DebtToIncomeRatio() (ratio float64, ok bool) {
	income := orZero(s.MonthlyIncome)
	if income.IsZero() {
		return 0, false
	}
	annual := income.Mul(decimal.NewFromInt(12))
	return orZero(s.TotalDebt).Div(annual).InexactFloat64(), true
}

// EmergencyFundMonths is the emergency fund over monthly expenses. ok is
// false when expenses are missing or zero.
func (s FinancialSnapshot) EmergencyFundMonths() (months float64, ok bool) {
	expenses := orZero(s.MonthlyExpenses)
	if expenses.IsZero() {
		return 0, false
	}
	return orZero(s.EmergencyFund).Div(expenses).InexactFloat64(), true
}

// SavingsRate is surplus over income, or 0 when income is missing or zero
func (s FinancialSnapshot) SavingsRate() float64 {
	income := orZero(s.MonthlyIncome)
	if income.IsZero() {
		return 0
	}
	return s.MonthlySurplus().Div(income).InexactFloat64()
}

// Metrics computes every derived value of the snapshot
func (s FinancialSnapshot) Metrics() SnapshotMetrics {
	m := SnapshotMetrics{
		MonthlySurplus: s.MonthlySurplus(),
		NetWorth:       s.NetWorth(),
		SavingsRate:    s.SavingsRate(),
	}
	if ratio, ok := s.DebtToIncomeRatio(); ok {
		m.DebtToIncomeRatio = &ratio
	}
	if months, ok := s.EmergencyFundMonths(); ok {
		m.EmergencyFundMonths = &months
	}
	return m
}
