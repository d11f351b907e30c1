// Package model defines the plain domain records consumed and produced by the
// analytics engine. All amounts are magnitudes in a single accounting currency;
// the sign of a transaction is carried by its Type.
package model

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Priority classifies a category into the essential/discretionary/savings split.
type Priority string

const (
	PriorityNeeds   Priority = "needs"
	PriorityWants   Priority = "wants"
	PrioritySavings Priority = "savings"
)

// Transaction is a single income or expense record. The engine treats it as
// read-only input.
type Transaction struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId,omitempty"`
	Description         string          `json:"description"`
	Amount              float64         `json:"amount"`
	Type                TransactionType `json:"type"`
	CategoryID          string          `json:"categoryId,omitempty"`
	Date                time.Time       `json:"date"`
	PaidDate            *time.Time      `json:"paidDate,omitempty"`
	IsPaid              bool            `json:"isPaid"`
	IsCashTransaction   bool            `json:"isCashTransaction,omitempty"`
	CashTransactionKind string          `json:"cashTransactionKind,omitempty"`
	BudgetID            string          `json:"budgetId,omitempty"`
	CreatedAt           time.Time       `json:"createdAt,omitempty"`
	UpdatedAt           time.Time       `json:"updatedAt,omitempty"`
}

// EffectiveDate returns the date used for cash-flow-sensitive calculations:
// the settlement date when the transaction is paid and one is recorded,
// otherwise the nominal date.
func (t *Transaction) EffectiveDate() time.Time {
	if t.IsPaid && t.PaidDate != nil {
		return *t.PaidDate
	}
	return t.Date
}

// IsRealizedExpense reports whether the transaction counts toward realized
// budget spend: a paid expense that is not informal cash-wallet movement
// (cash-wallet spends are already counted when the cash was withdrawn).
func (t *Transaction) IsRealizedExpense() bool {
	return t.Type == TransactionTypeExpense && t.IsPaid && !t.IsCashTransaction
}

// Category assigns a priority class to expenses.
type Category struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId,omitempty"`
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
}

// Goal defines the target monthly allocation for a priority class, either as a
// percentage of monthly income or as an absolute amount.
type Goal struct {
	ID               string   `json:"id"`
	UserID           string   `json:"userId,omitempty"`
	Priority         Priority `json:"priority"`
	TargetPercentage float64  `json:"targetPercentage,omitempty"`
	TargetAmount     float64  `json:"targetAmount,omitempty"`
}

// CustomBudgetStatus is the lifecycle state of a custom budget.
type CustomBudgetStatus string

const (
	CustomBudgetStatusActive    CustomBudgetStatus = "active"
	CustomBudgetStatusCompleted CustomBudgetStatus = "completed"
)

// CustomBudget is a bounded discretionary spending envelope (a trip, a
// renovation) distinct from the recurring system budgets.
type CustomBudget struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId,omitempty"`
	Name            string             `json:"name"`
	AllocatedAmount float64            `json:"allocatedAmount"`
	StartDate       time.Time          `json:"startDate"`
	EndDate         time.Time          `json:"endDate"`
	Status          CustomBudgetStatus `json:"status"`
}

// TargetPolicy is the resolved monthly allocation target per priority class,
// computed from goals and monthly income. It replaces reaching into a
// loosely-typed settings blob.
type TargetPolicy struct {
	NeedsTarget   float64 `json:"needsTarget"`
	WantsTarget   float64 `json:"wantsTarget"`
	SavingsTarget float64 `json:"savingsTarget"`
}

// SpendingCeiling is the combined needs+wants monthly ceiling.
func (p TargetPolicy) SpendingCeiling() float64 {
	return p.NeedsTarget + p.WantsTarget
}

// ResolveTargetPolicy turns goals into absolute monthly targets. Percentage
// goals are resolved against monthlyIncome; absolute goals pass through. A
// priority with no goal falls back to the 50/30/20 split.
func ResolveTargetPolicy(goals []*Goal, monthlyIncome float64) TargetPolicy {
	policy := TargetPolicy{
		NeedsTarget:   monthlyIncome * 0.50,
		WantsTarget:   monthlyIncome * 0.30,
		SavingsTarget: monthlyIncome * 0.20,
	}
	for _, g := range goals {
		amount := g.TargetAmount
		if amount == 0 && g.TargetPercentage > 0 {
			amount = monthlyIncome * g.TargetPercentage / 100
		}
		if amount == 0 {
			continue
		}
		switch g.Priority {
		case PriorityNeeds:
			policy.NeedsTarget = amount
		case PriorityWants:
			policy.WantsTarget = amount
		case PrioritySavings:
			policy.SavingsTarget = amount
		}
	}
	return policy
}

// MonthlyBucket aggregates one calendar month of history. Rebuilt on every
// engine invocation, never cached by the engine itself.
type MonthlyBucket struct {
	MonthStart    time.Time      `json:"monthStart"`
	MonthEnd      time.Time      `json:"monthEnd"`
	Transactions  []*Transaction `json:"-"`
	TotalIncome   float64        `json:"totalIncome"`
	TotalExpenses float64        `json:"totalExpenses"`
}

// Event is a detected cluster of abnormally high spending days.
type Event struct {
	ID                  string               `json:"id"`
	StartDate           time.Time            `json:"startDate"`
	EndDate             time.Time            `json:"endDate"`
	DurationDays        int                  `json:"durationDays"`
	TotalAmount         float64              `json:"totalAmount"`
	TransactionCount    int                  `json:"transactionCount"`
	CategoryPriorityMix map[Priority]float64 `json:"categoryPriorityMix"`
	EventType           string               `json:"eventType"`
	AnchorExpense       *Transaction         `json:"anchorExpense,omitempty"`
	Locations           []string             `json:"locations,omitempty"`
	Transactions        []*Transaction       `json:"-"`
}

// Archetype is a reusable budget template synthesized from recurring events of
// the same type.
type Archetype struct {
	EventType         string               `json:"eventType"`
	DisplayName       string               `json:"displayName"`
	AverageAmount     float64              `json:"averageAmount"`
	AverageDuration   float64              `json:"averageDurationDays"`
	Occurrences       int                  `json:"occurrences"`
	CategoryBreakdown map[Priority]float64 `json:"categoryBreakdown"`
	LastOccurrence    time.Time            `json:"lastOccurrence"`
	Confidence        float64              `json:"confidence"`
}

// Elasticity describes how a category's spend compresses between abundant and
// lean months.
type Elasticity struct {
	Reduction   float64 `json:"reduction"`
	LeanAvg     float64 `json:"leanAvg"`
	AbundantAvg float64 `json:"abundantAvg"`
	Flexible    bool    `json:"flexible"`
}

// HealthScore is the composite financial health result with its five
// sub-scores, each in [0,100].
type HealthScore struct {
	TotalScore int     `json:"totalScore"`
	Pacing     float64 `json:"pacing"`
	BurnRatio  float64 `json:"burnRatio"`
	Stability  float64 `json:"stability"`
	Sharpe     float64 `json:"sharpe"`
	Creep      float64 `json:"creep"`
	Label      string  `json:"label"`
}

// Projection is the blended actual/extrapolated estimate for the current
// month's total expense.
type Projection struct {
	EstimatedTotal float64 `json:"estimatedTotal"`
	ActualToDate   float64 `json:"actualToDate"`
	ProjectedShare float64 `json:"projectedShare"`
	DaysElapsed    int     `json:"daysElapsed"`
	DaysRemaining  int     `json:"daysRemaining"`
}

// BudgetContext classifies a proposed budget's temporal position relative to
// now.
type BudgetContext string

const (
	BudgetContextFuture  BudgetContext = "future"
	BudgetContextOngoing BudgetContext = "ongoing"
	BudgetContextPast    BudgetContext = "past"
)

// FeasibilityResult grades a proposed budget against historical cash flow.
type FeasibilityResult struct {
	Grade                string        `json:"grade"`
	IsAffordable         bool          `json:"isAffordable"`
	Context              BudgetContext `json:"context"`
	Message              string        `json:"message,omitempty"`
	MonthlyCost          float64       `json:"monthlyCost"`
	AvgMonthlyIncome     float64       `json:"avgMonthlyIncome"`
	AvgMonthlyExpenses   float64       `json:"avgMonthlyExpenses"`
	AvgNetFlow           float64       `json:"avgNetFlow"`
	AffordabilityRatio   float64       `json:"affordabilityRatio"`
	ProjectedSavingsRate float64       `json:"projectedSavingsRate"`
	MonthsToRecover      int           `json:"monthsToRecover"`
}
