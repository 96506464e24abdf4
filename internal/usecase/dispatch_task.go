package usecase

import (
	"context"
	"fmt"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

func taskID(t domain.Task) string   { return t.ID }
func taskName(t domain.Task) string { return t.Title }

func (d *Dispatcher) findTask(ctx context.Context, p intent.TaskPayload) (domain.Task, bool, error) {
	tasks, err := d.stores.Tasks.List(ctx)
	if err != nil {
		return domain.Task{}, false, listErr("tasks", err)
	}
	t, ok := resolveBySubstring(tasks, p.ID, p.Title, taskID, taskName)
	return t, ok, nil
}

func (d *Dispatcher) addTask(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.TaskPayload)
	if p.Title == "" {
		return invalid(in.Action, "a task needs a title"), nil
	}

	t := domain.Task{
		Title:       p.Title,
		Description: p.Description,
		Status:      domain.TaskTodo,
		Priority:    domain.PriorityMedium,
		DueDate:     p.DueDate,
		ContextType: p.ContextType,
		FinanceType: domain.FinanceType(p.FinanceType),
		ContextID:   p.ContextID,
		CreatedAt:   d.now(),
	}
	if p.Status != "" {
		t.Status = domain.TaskStatus(p.Status)
	}
	if p.Priority != "" {
		t.Priority = domain.Priority(p.Priority)
	}
	if p.ExpectedCost != nil {
		t.ExpectedCost = *p.ExpectedCost
	}
	if t.ExpectedCost > 0 && t.ContextType == "" {
		t.ContextType = domain.ContextFinance
	}
	if t.ContextType == domain.ContextFinance && t.FinanceType == "" {
		t.FinanceType = domain.Expense
	}
	if t.ContextType == domain.ContextFinance && t.ContextID == "" {
		id, err := d.linkFinanceContext(ctx, t.FinanceType, p)
		if err != nil {
			return Outcome{}, err
		}
		t.ContextID = id
	}

	if _, err := d.stores.Tasks.Create(ctx, t); err != nil {
		return Outcome{}, fmt.Errorf("create task: %w", err)
	}
	return applied(in.Action, t.Title), nil
}

// linkFinanceContext picks the budget (expense) or savings goal (income) a
// finance task attaches to: the named one when given and found, else the
// first of that kind.
func (d *Dispatcher) linkFinanceContext(ctx context.Context, ft domain.FinanceType, p intent.TaskPayload) (string, error) {
	budgets, err := d.stores.Budgets.List(ctx)
	if err != nil {
		return "", listErr("budgets", err)
	}
	kind, name := domain.KindBudget, p.BudgetName
	if ft == domain.Income {
		kind, name = domain.KindSavings, p.SavingsName
	}
	candidates := filter(budgets, func(b domain.Budget) bool { return b.Type == kind })
	if len(candidates) == 0 {
		return "", nil
	}
	if b, ok := resolveBySubstring(candidates, "", name, budgetID, budgetName); ok {
		return b.ID, nil
	}
	return candidates[0].ID, nil
}

func (d *Dispatcher) updateTask(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.TaskPayload)
	t, ok, err := d.findTask(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Title), nil
	}

	patch, next := taskChanges(t, p)
	if p.Status == string(domain.TaskDone) && t.Status != domain.TaskDone {
		return d.finishTask(ctx, in.Action, t, next, patch)
	}
	if p.Status != "" {
		patch["status"] = p.Status
		if p.Status != string(domain.TaskDone) {
			patch["completed_at"] = nil
		}
	}
	if len(patch) == 0 {
		return invalid(in.Action, "nothing to change"), nil
	}

	if err := d.stores.Tasks.Update(ctx, t.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return applied(in.Action, t.Title), nil
}

// taskChanges builds the patch for every field of p except status and
// returns t with those changes applied.
func taskChanges(t domain.Task, p intent.TaskPayload) (store.Patch, domain.Task) {
	patch := store.Patch{}
	if p.NewTitle != "" {
		patch["title"] = p.NewTitle
		t.Title = p.NewTitle
	}
	if p.Description != "" {
		patch["description"] = p.Description
		t.Description = p.Description
	}
	if p.Priority != "" {
		patch["priority"] = p.Priority
		t.Priority = domain.Priority(p.Priority)
	}
	if p.DueDate != "" {
		patch["due_date"] = p.DueDate
		t.DueDate = p.DueDate
	}
	if p.ExpectedCost != nil {
		patch["expected_cost"] = *p.ExpectedCost
		t.ExpectedCost = *p.ExpectedCost
	}
	if p.ContextType != "" {
		patch["context_type"] = p.ContextType
		t.ContextType = p.ContextType
	}
	if p.FinanceType != "" {
		patch["finance_type"] = p.FinanceType
		t.FinanceType = domain.FinanceType(p.FinanceType)
	}
	if p.ContextID != "" {
		patch["context_id"] = p.ContextID
		t.ContextID = p.ContextID
	}
	return patch, t
}

// taskRevert restores the attributes named in patch to their values on t.
func taskRevert(t domain.Task, patch store.Patch) store.Patch {
	prev := store.Patch{
		"title":         t.Title,
		"description":   t.Description,
		"priority":      string(t.Priority),
		"due_date":      t.DueDate,
		"expected_cost": t.ExpectedCost,
		"context_type":  t.ContextType,
		"finance_type":  string(t.FinanceType),
		"context_id":    t.ContextID,
		"status":        string(t.Status),
		"completed_at":  t.CompletedAt,
	}
	out := store.Patch{}
	for k := range patch {
		out[k] = prev[k]
	}
	return out
}

func (d *Dispatcher) completeTask(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.TaskPayload)
	t, ok, err := d.findTask(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Title), nil
	}
	if t.Status == domain.TaskDone {
		return Outcome{Action: in.Action, Status: StatusNoop, Target: t.Title, Detail: "already done"}, nil
	}
	return d.finishTask(ctx, in.Action, t, t, store.Patch{})
}

// finishTask marks the task done together with the changes in patch, which
// turn prev into next. For finance tasks with a positive expected cost it
// records the money movement: a finance entry dated now with the task title
// as category, plus a deposit into the linked savings goal for income tasks.
func (d *Dispatcher) finishTask(ctx context.Context, a intent.Action, prev, next domain.Task, patch store.Patch) (Outcome, error) {
	now := d.now()
	s := newSaga(a)

	patch["status"] = string(domain.TaskDone)
	patch["completed_at"] = now
	if err := d.stores.Tasks.Update(ctx, prev.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("complete task %s: %w", prev.ID, err)
	}
	undo := taskRevert(prev, patch)
	s.done("task "+prev.ID+" marked done", func(ctx context.Context) error {
		return d.stores.Tasks.Update(ctx, prev.ID, undo)
	})

	t := next
	if t.ContextType != domain.ContextFinance || t.ExpectedCost <= 0 {
		return applied(a, prev.Title), nil
	}

	ft := t.FinanceType
	if ft == "" {
		ft = domain.Expense
	}
	entryID, err := d.stores.Finance.Create(ctx, domain.FinanceEntry{
		Type:        ft,
		Amount:      t.ExpectedCost,
		Category:    t.Title,
		Description: t.Description,
		Date:        now,
		Source:      "task",
	})
	if err != nil {
		return Outcome{}, s.fail(ctx, fmt.Errorf("record finance entry: %w", err))
	}
	s.done("finance entry "+entryID, func(ctx context.Context) error {
		return d.stores.Finance.Delete(ctx, entryID)
	})

	if ft != domain.Income || t.ContextID == "" {
		return applied(a, prev.Title), nil
	}
	budgets, err := d.stores.Budgets.List(ctx)
	if err != nil {
		return Outcome{}, s.fail(ctx, listErr("budgets", err))
	}
	goal, ok := resolveBySubstring(budgets, t.ContextID, "", budgetID, budgetName)
	if !ok || goal.Type != domain.KindSavings {
		return applied(a, prev.Title), nil
	}
	if err := d.stores.Budgets.Update(ctx, goal.ID, store.Patch{"current_amount": goal.CurrentAmount + t.ExpectedCost}); err != nil {
		return Outcome{}, s.fail(ctx, fmt.Errorf("deposit into %s: %w", goal.ID, err))
	}
	return applied(a, prev.Title), nil
}

func (d *Dispatcher) deleteTask(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.TaskPayload)
	t, ok, err := d.findTask(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Title), nil
	}
	if err := d.stores.Tasks.Delete(ctx, t.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete task %s: %w", t.ID, err)
	}
	return applied(in.Action, t.Title), nil
}
