package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

const withdrawalCategory = "Savings Withdrawal"

func entryID(e domain.FinanceEntry) string { return e.ID }
func entryName(e domain.FinanceEntry) string {
	return strings.TrimSpace(e.Category + " " + e.Description)
}

func budgetID(b domain.Budget) string   { return b.ID }
func budgetName(b domain.Budget) string { return b.Name }

func (d *Dispatcher) addTransaction(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.FinancePayload)
	if p.Amount == nil || p.Type == "" || p.Category == "" {
		return invalid(in.Action, "an entry needs a type, a category and an amount"), nil
	}
	e := domain.FinanceEntry{
		Type:        domain.FinanceType(p.Type),
		Amount:      *p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        d.entryDate(p.Date),
		Source:      "assistant",
	}
	if _, err := d.stores.Finance.Create(ctx, e); err != nil {
		return Outcome{}, fmt.Errorf("create finance entry: %w", err)
	}
	return applied(in.Action, e.Category), nil
}

func (d *Dispatcher) deleteTransaction(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.FinancePayload)
	entries, err := d.stores.Finance.List(ctx)
	if err != nil {
		return Outcome{}, listErr("finance entries", err)
	}
	query := p.Description
	if query == "" {
		query = p.Category
	}
	candidates := entries
	if p.Amount != nil {
		candidates = filter(entries, func(e domain.FinanceEntry) bool { return e.Amount == *p.Amount })
	}
	e, ok := resolveBySubstring(candidates, p.ID, query, entryID, entryName)
	if !ok {
		return noMatch(in.Action, query), nil
	}
	if err := d.stores.Finance.Delete(ctx, e.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete finance entry %s: %w", e.ID, err)
	}
	return applied(in.Action, e.Category), nil
}

func (d *Dispatcher) findBudget(ctx context.Context, kind domain.BudgetType, p intent.BudgetPayload) (domain.Budget, bool, error) {
	budgets, err := d.stores.Budgets.List(ctx)
	if err != nil {
		return domain.Budget{}, false, listErr("budgets", err)
	}
	candidates := filter(budgets, func(b domain.Budget) bool { return b.Type == kind })
	b, ok := resolveBySubstring(candidates, p.ID, p.Name, budgetID, budgetName)
	return b, ok, nil
}

func budgetKind(a intent.Action) domain.BudgetType {
	if a.Domain() == intent.DomainSavings {
		return domain.KindSavings
	}
	return domain.KindBudget
}

func (d *Dispatcher) addBudget(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.BudgetPayload)
	kind := budgetKind(in.Action)
	if p.Name == "" {
		return invalid(in.Action, "a name is required"), nil
	}
	b := domain.Budget{
		Name:      p.Name,
		Type:      kind,
		Period:    p.Period,
		CreatedAt: d.now(),
	}
	switch {
	case p.TargetAmount != nil:
		b.TargetAmount = *p.TargetAmount
	case p.Amount != nil:
		b.TargetAmount = *p.Amount
	}
	if p.CurrentAmount != nil {
		b.CurrentAmount = *p.CurrentAmount
	}
	if b.Period == "" && kind == domain.KindBudget {
		b.Period = "monthly"
	}
	if _, err := d.stores.Budgets.Create(ctx, b); err != nil {
		return Outcome{}, fmt.Errorf("create %s: %w", kind, err)
	}
	return applied(in.Action, b.Name), nil
}

func (d *Dispatcher) updateBudget(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.BudgetPayload)
	b, ok, err := d.findBudget(ctx, domain.KindBudget, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}

	patch := store.Patch{}
	if p.NewName != "" {
		patch["name"] = p.NewName
	}
	switch {
	case p.TargetAmount != nil:
		patch["target_amount"] = *p.TargetAmount
	case p.Amount != nil:
		patch["target_amount"] = *p.Amount
	}
	if p.CurrentAmount != nil {
		patch["current_amount"] = *p.CurrentAmount
	}
	if p.Period != "" {
		patch["period"] = p.Period
	}
	if len(patch) == 0 {
		return invalid(in.Action, "nothing to change"), nil
	}
	if err := d.stores.Budgets.Update(ctx, b.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("update budget %s: %w", b.ID, err)
	}
	return applied(in.Action, b.Name), nil
}

func (d *Dispatcher) deleteBudget(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.BudgetPayload)
	kind := budgetKind(in.Action)
	b, ok, err := d.findBudget(ctx, kind, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}
	if err := d.stores.Budgets.Delete(ctx, b.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete %s %s: %w", kind, b.ID, err)
	}
	return applied(in.Action, b.Name), nil
}

func (d *Dispatcher) depositSavings(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.BudgetPayload)
	if p.Amount == nil {
		return invalid(in.Action, "an amount is required"), nil
	}
	goal, ok, err := d.findBudget(ctx, domain.KindSavings, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}
	if err := d.stores.Budgets.Update(ctx, goal.ID, store.Patch{"current_amount": goal.CurrentAmount + *p.Amount}); err != nil {
		return Outcome{}, fmt.Errorf("deposit into %s: %w", goal.ID, err)
	}
	return applied(in.Action, goal.Name), nil
}

// withdrawSavings lowers the goal balance, floored at zero, and records the
// full requested amount as an expense.
func (d *Dispatcher) withdrawSavings(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.BudgetPayload)
	if p.Amount == nil {
		return invalid(in.Action, "an amount is required"), nil
	}
	goal, ok, err := d.findBudget(ctx, domain.KindSavings, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}

	s := newSaga(in.Action)
	remaining := math.Max(0, goal.CurrentAmount-*p.Amount)
	if err := d.stores.Budgets.Update(ctx, goal.ID, store.Patch{"current_amount": remaining}); err != nil {
		return Outcome{}, fmt.Errorf("withdraw from %s: %w", goal.ID, err)
	}
	s.done("savings goal "+goal.ID+" balance lowered", func(ctx context.Context) error {
		return d.stores.Budgets.Update(ctx, goal.ID, store.Patch{"current_amount": goal.CurrentAmount})
	})

	_, err = d.stores.Finance.Create(ctx, domain.FinanceEntry{
		Type:        domain.Expense,
		Amount:      *p.Amount,
		Category:    withdrawalCategory,
		Description: goal.Name,
		Date:        d.now(),
		Source:      "savings",
	})
	if err != nil {
		return Outcome{}, s.fail(ctx, fmt.Errorf("record withdrawal: %w", err))
	}
	return applied(in.Action, goal.Name), nil
}
