// Package schema declares the seven logical tables of the household ledger
// and how their fields map onto raw spreadsheet columns.
//
// The backing document is hand-maintained and its header labels have
// drifted over time (e.g. the category column has appeared as both 분류 and
// 카테고리). Instead of scattering try-this-then-that lookups through the
// ingestion code, each logical field carries an ordered list of acceptable
// column aliases, resolved once per table load. A field whose aliases all
// miss is simply skipped; schema drift is tolerated, not fatal.
package schema

// Kind describes how a field's raw cells are normalized.
type Kind int

const (
	Text Kind = iota
	Amount
	Date
)

// Field maps one logical field onto raw column labels.
type Field struct {
	Name    string
	Kind    Kind
	Aliases []string // tried in order; first present column wins
}

// Table describes one logical table.
type Table struct {
	Name    string // logical name used in code and logs
	Tab     string // default sheet tab name in the backing document
	Fields  []Field
	DateKey string // field whose absence drops the row; "" keeps all rows
	// AppendOrder is the fixed column order for the write path.
	AppendOrder []string
}

// Logical field names.
const (
	FieldDate        = "date"
	FieldPayer       = "payer"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldMethod      = "method"
	FieldAmount      = "amount"
	FieldSource      = "source"
	FieldOwner       = "owner"
	FieldItem        = "item"
	FieldTitle       = "title"
	FieldBalance     = "balance"
	FieldGoal        = "goal"
	FieldSpent       = "spent"
	FieldRemaining   = "remaining"
	FieldPlanned     = "planned"
)

// Logical table names.
const (
	Expenses   = "expenses"
	Income     = "income"
	FixedCosts = "fixed_costs"
	Schedule   = "schedule"
	Loans      = "loans"
	Mission    = "mission"
	BudgetPlan = "budget_plan"
)

var (
	expensesTable = Table{
		Name: Expenses,
		Tab:  "지출내역",
		Fields: []Field{
			{Name: FieldDate, Kind: Date, Aliases: []string{"날짜", "일자", "Date"}},
			{Name: FieldPayer, Kind: Text, Aliases: []string{"사용자", "지출자", "Payer"}},
			{Name: FieldCategory, Kind: Text, Aliases: []string{"분류", "카테고리", "Category"}},
			{Name: FieldDescription, Kind: Text, Aliases: []string{"내용", "내역", "Description"}},
			{Name: FieldMethod, Kind: Text, Aliases: []string{"결제수단", "결제방법", "Method"}},
			{Name: FieldAmount, Kind: Amount, Aliases: []string{"금액", "지출금액", "Amount"}},
		},
		DateKey:     FieldDate,
		AppendOrder: []string{FieldDate, FieldPayer, FieldCategory, FieldDescription, FieldMethod, FieldAmount},
	}

	incomeTable = Table{
		Name: Income,
		Tab:  "수입내역",
		Fields: []Field{
			{Name: FieldDate, Kind: Date, Aliases: []string{"날짜", "일자", "Date"}},
			{Name: FieldSource, Kind: Text, Aliases: []string{"수입원", "출처", "사용자", "Source"}},
			{Name: FieldDescription, Kind: Text, Aliases: []string{"내용", "내역", "Description"}},
			{Name: FieldAmount, Kind: Amount, Aliases: []string{"금액", "수입금액", "Amount"}},
		},
		DateKey:     FieldDate,
		AppendOrder: []string{FieldDate, FieldSource, FieldDescription, FieldAmount},
	}

	fixedCostsTable = Table{
		Name: FixedCosts,
		Tab:  "고정지출",
		Fields: []Field{
			{Name: FieldDate, Kind: Date, Aliases: []string{"날짜", "일자", "Date"}},
			{Name: FieldOwner, Kind: Text, Aliases: []string{"담당", "사용자", "Owner"}},
			{Name: FieldItem, Kind: Text, Aliases: []string{"항목", "내용", "Item"}},
			{Name: FieldAmount, Kind: Amount, Aliases: []string{"금액", "Amount"}},
		},
		DateKey: FieldDate,
	}

	scheduleTable = Table{
		Name: Schedule,
		Tab:  "일정",
		Fields: []Field{
			{Name: FieldDate, Kind: Date, Aliases: []string{"날짜", "일자", "Date"}},
			{Name: FieldTitle, Kind: Text, Aliases: []string{"일정", "제목", "내용", "Title"}},
		},
		DateKey: FieldDate,
	}

	loansTable = Table{
		Name: Loans,
		Tab:  "대출",
		Fields: []Field{
			{Name: FieldItem, Kind: Text, Aliases: []string{"항목", "대출명", "Item"}},
			{Name: FieldBalance, Kind: Amount, Aliases: []string{"잔액", "남은금액", "Balance"}},
		},
	}

	missionTable = Table{
		Name: Mission,
		Tab:  "식비미션",
		Fields: []Field{
			{Name: FieldGoal, Kind: Amount, Aliases: []string{"주간목표", "목표금액", "Goal"}},
			{Name: FieldSpent, Kind: Amount, Aliases: []string{"실제지출", "사용금액", "Spent"}},
			{Name: FieldRemaining, Kind: Amount, Aliases: []string{"남은금액", "잔여", "Remaining"}},
		},
	}

	budgetPlanTable = Table{
		Name: BudgetPlan,
		Tab:  "예산계획",
		Fields: []Field{
			{Name: FieldItem, Kind: Text, Aliases: []string{"항목", "분류", "카테고리", "Item"}},
			{Name: FieldPlanned, Kind: Amount, Aliases: []string{"예산", "계획금액", "Planned"}},
		},
	}
)

// All returns the seven logical tables in their fixed order.
func All() []Table {
	return []Table{
		expensesTable, incomeTable, fixedCostsTable, scheduleTable,
		loansTable, missionTable, budgetPlanTable,
	}
}

// Lookup returns the table with the given logical name.
func Lookup(name string) (Table, bool) {
	for _, t := range All() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Resolve maps each logical field onto the first of its aliases present in
// columns. Fields with no matching column are absent from the result.
func (t Table) Resolve(columns []string) map[string]string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	resolved := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		for _, alias := range f.Aliases {
			if present[alias] {
				resolved[f.Name] = alias
				break
			}
		}
	}
	return resolved
}

// FieldKind returns the kind of a logical field, Text when unknown.
func (t Table) FieldKind(name string) Kind {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Kind
		}
	}
	return Text
}
