package intent

import (
	"strings"
	"time"

	"lifeos/internal/domain"
)

// Intent is one validated instruction from the model.
type Intent struct {
	Action       Action
	Payload      Payload
	ResponseText string
}

const (
	clarifyCategory = "Which category should I file this under?"
	clarifyType     = "Is this income or an expense?"
	clarifyAmount   = "How much was it?"
)

// Decode validates raw model output into an Intent. Unknown actions keep
// their name with a nil payload so the dispatcher can report them. Finance
// entries missing a category, type or amount become CLARIFY intents.
func Decode(action string, data Data, responseText string) Intent {
	a := Action(strings.ToUpper(strings.TrimSpace(action)))
	responseText = strings.TrimSpace(responseText)
	if data == nil {
		data = Data{}
	}

	in := Intent{Action: a, ResponseText: responseText}
	switch a.Domain() {
	case DomainTask:
		in.Payload = decodeTask(data)
	case DomainFinance:
		p := decodeFinance(a, data)
		if q := missingFinanceField(a, p); q != "" {
			return Intent{Action: Clarify, Payload: NoPayload{}, ResponseText: q}
		}
		in.Payload = p
	case DomainBudget, DomainSavings:
		in.Payload = decodeBudget(data)
	case DomainNote:
		in.Payload = decodeNote(data)
	case DomainHabit:
		in.Payload = HabitPayload{
			ID:   data.String("id", "habit_id"),
			Name: data.String("habit_name", "name", "title"),
		}
	case DomainInventory:
		in.Payload = decodeInventory(data)
	case DomainStudy:
		in.Payload = decodeStudy(data)
	case DomainUI:
		in.Payload = NavigatePayload{Route: data.String("route", "path", "page")}
	case DomainConversation:
		in.Payload = NoPayload{}
	}
	return in
}

func decodeTask(d Data) TaskPayload {
	p := TaskPayload{
		ID:          d.String("id", "task_id"),
		Title:       d.String("title", "task_name", "name"),
		NewTitle:    d.String("new_title"),
		Description: d.String("description"),
		Status:      strings.ToLower(d.String("status")),
		Priority:    strings.ToLower(d.String("priority")),
		DueDate:     normalizeDate(d.String("due_date", "date")),
		ContextType: strings.ToLower(d.String("context_type")),
		FinanceType: strings.ToLower(d.String("finance_type")),
		ContextID:   d.String("context_id"),
		BudgetName:  d.String("budget_name"),
		SavingsName: d.String("savings_name", "goal_name"),
	}
	if !domain.ValidTaskStatus(p.Status) {
		p.Status = ""
	}
	if !domain.ValidPriority(p.Priority) {
		p.Priority = ""
	}
	if !validFinanceType(p.FinanceType) {
		p.FinanceType = ""
	}
	if v, ok := d.Number("expected_cost", "cost", "amount"); ok && v >= 0 {
		p.ExpectedCost = &v
	}
	return p
}

func decodeFinance(a Action, d Data) FinancePayload {
	p := FinancePayload{
		ID:          d.String("id", "transaction_id"),
		Type:        strings.ToLower(d.String("type", "finance_type")),
		Category:    d.String("category"),
		Description: d.String("description", "note", "title"),
		Date:        normalizeDate(d.String("date")),
	}
	switch a {
	case AddExpense:
		p.Type = string(domain.Expense)
	case AddIncome:
		p.Type = string(domain.Income)
	}
	if !validFinanceType(p.Type) {
		p.Type = ""
	}
	if v, ok := d.Number("amount"); ok && v > 0 {
		p.Amount = &v
	}
	return p
}

func missingFinanceField(a Action, p FinancePayload) string {
	switch a {
	case AddExpense, AddIncome, AddTransaction:
	default:
		return ""
	}
	switch {
	case p.Type == "":
		return clarifyType
	case p.Category == "":
		return clarifyCategory
	case p.Amount == nil:
		return clarifyAmount
	}
	return ""
}

func decodeBudget(d Data) BudgetPayload {
	p := BudgetPayload{
		ID:      d.String("id", "budget_id", "goal_id"),
		Name:    d.String("name", "goal_name", "budget_name", "savings_name"),
		NewName: d.String("new_name"),
		Period:  strings.ToLower(d.String("period")),
	}
	if v, ok := d.Number("target_amount", "target"); ok && v >= 0 {
		p.TargetAmount = &v
	}
	if v, ok := d.Number("current_amount"); ok && v >= 0 {
		p.CurrentAmount = &v
	}
	if v, ok := d.Number("amount"); ok && v > 0 {
		p.Amount = &v
	}
	return p
}

func decodeNote(d Data) NotePayload {
	p := NotePayload{
		ID:       d.String("id", "note_id"),
		Title:    d.String("title", "note_title", "name"),
		NewTitle: d.String("new_title"),
		Content:  d.String("content", "text"),
		Tags:     d.Strings("tags"),
	}
	if v, ok := d.Bool("pinned", "pin"); ok {
		p.Pinned = &v
	}
	if v, ok := d.Bool("archived", "archive"); ok {
		p.Archived = &v
	}
	return p
}

func decodeInventory(d Data) InventoryPayload {
	p := InventoryPayload{
		ID:       d.String("id", "item_id"),
		Name:     d.String("item_name", "name"),
		Category: d.String("category"),
		Store:    d.String("store", "shop", "vendor"),
		Status:   strings.ToLower(d.String("status")),
	}
	if v, ok := d.Int("quantity", "qty"); ok && v > 0 {
		p.Quantity = &v
	}
	if v, ok := d.Number("cost", "price_paid"); ok && v >= 0 {
		p.Cost = &v
	}
	if v, ok := d.Number("price", "sale_price", "sold_for", "amount"); ok && v >= 0 {
		p.Price = &v
	}
	p.RecordPurchase, _ = d.Bool("record_purchase", "record_expense")
	return p
}

func decodeStudy(d Data) StudyPayload {
	p := StudyPayload{
		ID:      d.String("id"),
		Subject: d.String("subject", "subject_name"),
		Chapter: d.String("chapter", "chapter_name"),
		Part:    d.String("part", "part_name"),
		Preset:  d.String("preset"),
		Status:  strings.ToLower(d.String("status")),
	}
	if p.Subject == "" && p.Chapter == "" && p.Part == "" {
		p.Subject = d.String("name")
	}
	if !domain.ValidStudyStatus(p.Status) {
		p.Status = ""
	}
	return p
}

func validFinanceType(s string) bool {
	return s == string(domain.Income) || s == string(domain.Expense)
}

// normalizeDate keeps the calendar-date prefix of ISO dates and drops
// anything unparseable.
func normalizeDate(s string) string {
	if len(s) >= len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return ""
	}
	return s
}
