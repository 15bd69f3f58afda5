package models

// RiskTolerance is the user's stated appetite for risk
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// InvestmentExperience is the user's self-reported investing experience
type InvestmentExperience string

const (
	ExperienceBeginner     InvestmentExperience = "beginner"
	ExperienceIntermediate InvestmentExperience = "intermediate"
	ExperienceAdvanced     InvestmentExperience = "advanced"
)

// RiskProfile is optional scoring metadata. Empty strings and nil pointers
// mean the field was not supplied.
type RiskProfile struct {
	RiskTolerance        RiskTolerance        `db:"risk_tolerance" json:"risk_tolerance,omitempty"`
	InvestmentExperience InvestmentExperience `db:"investment_experience" json:"investment_experience,omitempty"`
	TimeHorizon          *int                 `db:"time_horizon" json:"time_horizon,omitempty"`
	Age                  *int                 `db:"age" json:"age,omitempty"`
	EmploymentStatus     string               `db:"employment_status" json:"employment_status,omitempty"`
}

// Validate checks enumerated and positive fields that are present
func (p *RiskProfile) Validate() error {
	if p == nil {
		return nil
	}
	switch p.RiskTolerance {
	case "", ToleranceConservative, ToleranceModerate, ToleranceAggressive:
	default:
		return NewInvalidInputError("risk_tolerance", "must be one of conservative, moderate, aggressive")
	}
	switch p.InvestmentExperience {
	case "", ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
	default:
		return NewInvalidInputError("investment_experience", "must be one of beginner, intermediate, advanced")
	}
	if p.TimeHorizon != nil && *p.TimeHorizon <= 0 {
		return NewInvalidInputError("time_horizon", "must be greater than 0")
	}
	if p.Age != nil && *p.Age <= 0 {
		return NewInvalidInputError("age", "must be greater than 0")
	}
	return nil
}

// AssessmentInput is the scorer's boundary input: snapshot fields plus the
// optional profile fields in one flat JSON object.
type AssessmentInput struct {
	FinancialSnapshot
	RiskProfile
}

// Profile returns the embedded profile, or nil when no profile field is set
func (in AssessmentInput) Profile() *RiskProfile {
	p := in.RiskProfile
	if p.RiskTolerance == "" && p.InvestmentExperience == "" && p.TimeHorizon == nil &&
		p.Age == nil && p.EmploymentStatus == "" {
		return nil
	}
	return &p
}
