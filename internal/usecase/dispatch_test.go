package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store/storetest"
)

func TestNewDispatcher_ValidatesStores(t *testing.T) {
	f := storetest.NewFixture()
	set := f.Set()
	set.Habits = nil
	_, err := NewDispatcher(set, time.UTC)
	require.Error(t, err)
}

func TestExecute_ExactlyOneMutationPerIntent(t *testing.T) {
	cases := []struct {
		action string
		data   intent.Data
	}{
		{"ADD_TASK", intent.Data{"title": "Call mom"}},
		{"UPDATE_TASK", intent.Data{"title": "rent", "priority": "low"}},
		{"COMPLETE_TASK", intent.Data{"title": "rent"}},
		{"DELETE_TASK", intent.Data{"title": "rent"}},
		{"ADD_EXPENSE", intent.Data{"amount": 120.0, "category": "Transport"}},
		{"ADD_INCOME", intent.Data{"amount": "30,000", "category": "Salary"}},
		{"DELETE_TRANSACTION", intent.Data{"description": "lunch"}},
		{"ADD_BUDGET", intent.Data{"name": "Travel", "target_amount": 3000.0}},
		{"UPDATE_BUDGET", intent.Data{"name": "groceries", "target_amount": 6000.0}},
		{"DELETE_BUDGET", intent.Data{"name": "groceries"}},
		{"ADD_SAVINGS_GOAL", intent.Data{"name": "Laptop", "target_amount": 80000.0}},
		{"DEPOSIT_SAVINGS", intent.Data{"name": "emergency", "amount": 100.0}},
		{"DELETE_SAVINGS_GOAL", intent.Data{"name": "emergency"}},
		{"ADD_NOTE", intent.Data{"title": "Ideas", "content": "build a shed"}},
		{"UPDATE_NOTE", intent.Data{"title": "shopping", "new_title": "Groceries"}},
		{"APPEND_NOTE", intent.Data{"title": "shopping", "content": "[ ] bread"}},
		{"PIN_NOTE", intent.Data{"title": "shopping"}},
		{"ARCHIVE_NOTE", intent.Data{"title": "shopping"}},
		{"DELETE_NOTE", intent.Data{"title": "shopping"}},
		{"ADD_HABIT", intent.Data{"habit_name": "Meditate"}},
		{"COMPLETE_HABIT", intent.Data{"habit_name": "read"}},
		{"DELETE_HABIT", intent.Data{"habit_name": "read"}},
		{"ADD_INVENTORY", intent.Data{"item_name": "Mouse", "cost": 500.0}},
		{"UPDATE_INVENTORY", intent.Data{"item_name": "headphones", "quantity": 2.0}},
		{"DELETE_INVENTORY", intent.Data{"item_name": "headphones"}},
		{"ADD_STUDY_SUBJECT", intent.Data{"subject": "Chemistry"}},
		{"ADD_STUDY_CHAPTER", intent.Data{"subject": "math", "chapter": "Geometry"}},
		{"ADD_STUDY_PART", intent.Data{"chapter": "algebra", "part": "Quadratics"}},
		{"UPDATE_STUDY_STATUS", intent.Data{"part": "linear", "status": "completed"}},
		{"DELETE_STUDY_SUBJECT", intent.Data{"subject": "physics"}},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			f := seededFixture()
			d := mustDispatcher(t, f)

			out, err := d.Execute(userCtx(), decode(tc.action, tc.data))
			require.NoError(t, err)
			require.Equal(t, StatusApplied, out.Status, "detail=%s", out.Detail)
			require.Equal(t, 1, f.Mutations())
		})
	}
}

func TestExecute_ConversationalActionsDoNotMutate(t *testing.T) {
	for _, a := range []intent.Action{intent.Chat, intent.Unknown, intent.GetSummary, intent.AnalyzeBudget, intent.Clarify} {
		f := seededFixture()
		d := mustDispatcher(t, f)

		out, err := d.Execute(userCtx(), intent.Intent{Action: a, Payload: intent.NoPayload{}, ResponseText: "hi"})
		require.NoError(t, err)
		require.Equal(t, StatusNoop, out.Status)
		require.Zero(t, f.Mutations(), string(a))
		require.Zero(t, f.Tasks.ListCalls)
	}
}

func TestExecute_Navigate(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("NAVIGATE", intent.Data{"route": "/finance"}))
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)
	require.Equal(t, "/finance", out.Route)
	require.Zero(t, f.Mutations())

	out, err = d.Execute(userCtx(), decode("NAVIGATE", nil))
	require.NoError(t, err)
	require.Equal(t, StatusSkippedInvalid, out.Status)
}

func TestExecute_UnrecognizedAction(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("FLY_TO_MOON", intent.Data{"title": "x"}))
	require.NoError(t, err)
	require.Equal(t, StatusUnrecognized, out.Status)
	require.Equal(t, intent.Action("FLY_TO_MOON"), out.Action)
	require.Zero(t, f.Mutations())
}

func TestExecute_NoMatchSkipsMutation(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("COMPLETE_TASK", intent.Data{"title": "walk the dog"}))
	require.NoError(t, err)
	require.Equal(t, StatusSkippedNoMatch, out.Status)
	require.Equal(t, "walk the dog", out.Target)
	require.Zero(t, f.Mutations())
}

func TestExecute_DeleteIsIdempotent(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)
	in := decode("DELETE_TASK", intent.Data{"title": "rent"})

	out, err := d.Execute(userCtx(), in)
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)

	out, err = d.Execute(userCtx(), in)
	require.NoError(t, err)
	require.Equal(t, StatusSkippedNoMatch, out.Status)
	require.Equal(t, []string{"t1"}, f.Tasks.Deleted)
}

func TestExecute_ExplicitIDWins(t *testing.T) {
	f := seededFixture()
	f.Tasks.Items = append(f.Tasks.Items, domain.Task{ID: "t2", Title: "Pay rent deposit", Status: domain.TaskTodo})
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("DELETE_TASK", intent.Data{"id": "t2", "title": "rent"}))
	require.NoError(t, err)
	require.Equal(t, []string{"t2"}, f.Tasks.Deleted)
}

// A bought item defaults to quantity 1 and no finance entry.
func TestExecute_AddInventoryDefaults(t *testing.T) {
	f := storetest.NewFixture()
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("ADD_INVENTORY", intent.Data{"item_name": "mouse", "cost": 500.0, "store": "Amazon"}))
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)
	require.Len(t, f.Inventory.Created, 1)

	item := f.Inventory.Created[0]
	require.Equal(t, "mouse", item.Name)
	require.Equal(t, 1, item.Quantity)
	require.Equal(t, domain.InventoryActive, item.Status)
	require.Equal(t, 500.0, item.Cost)
	require.Equal(t, "Amazon", item.Store)
	require.Empty(t, item.FinanceEntryID)
	require.Empty(t, f.Finance.Created)
}

func TestExecute_AddInventoryRecordsPurchaseFirst(t *testing.T) {
	f := storetest.NewFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("ADD_INVENTORY", intent.Data{"item_name": "mouse", "cost": "500tk", "record_purchase": true}))
	require.NoError(t, err)
	require.Len(t, f.Finance.Created, 1)
	require.Equal(t, domain.Expense, f.Finance.Created[0].Type)
	require.Equal(t, 500.0, f.Finance.Created[0].Amount)
	require.Len(t, f.Inventory.Created, 1)
	require.Equal(t, "fin-1", f.Inventory.Created[0].FinanceEntryID)
}

func TestExecute_AddBudget(t *testing.T) {
	f := storetest.NewFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("ADD_BUDGET", intent.Data{"name": "Monthly Budget", "target_amount": 10000.0, "period": "monthly"}))
	require.NoError(t, err)
	require.Len(t, f.Budgets.Created, 1)

	b := f.Budgets.Created[0]
	require.Equal(t, "Monthly Budget", b.Name)
	require.Equal(t, domain.KindBudget, b.Type)
	require.Equal(t, 10000.0, b.TargetAmount)
	require.Zero(t, b.CurrentAmount)
	require.Equal(t, "monthly", b.Period)
}

func TestExecute_CompleteAllHabitsSkipsDoneToday(t *testing.T) {
	f := storetest.NewFixture()
	f.Habits.Items = []domain.Habit{
		{ID: "h1", Name: "Read", StreakCount: 5, LastCompletedAt: &testEarlier},
		{ID: "h2", Name: "Run", StreakCount: 3, LastCompletedAt: &testYesterday},
		{ID: "h3", Name: "Stretch"},
	}
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("COMPLETE_HABIT", intent.Data{"habit_name": "all"}))
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)
	require.Equal(t, 2, out.Count)

	require.Len(t, f.Habits.Updated, 2)
	require.Equal(t, "h2", f.Habits.Updated[0].ID)
	require.Equal(t, 4, f.Habits.Updated[0].Patch["streak_count"])
	require.Equal(t, "h3", f.Habits.Updated[1].ID)
	require.Equal(t, 1, f.Habits.Updated[1].Patch["streak_count"])
	require.Equal(t, testNow, f.Habits.Updated[1].Patch["last_completed_date"])
}

func TestExecute_BulkPhrasesCheckedBeforeSubstring(t *testing.T) {
	f := storetest.NewFixture()
	f.Habits.Items = []domain.Habit{
		{ID: "h1", Name: "Do everything on the list"},
		{ID: "h2", Name: "Run"},
	}
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("DELETE_HABIT", intent.Data{"habit_name": "everything"}))
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	require.Equal(t, []string{"h1", "h2"}, f.Habits.Deleted)
}

func TestExecute_CompleteHabitAlreadyDone(t *testing.T) {
	f := storetest.NewFixture()
	f.Habits.Items = []domain.Habit{{ID: "h1", Name: "Read", StreakCount: 5, LastCompletedAt: &testEarlier}}
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("COMPLETE_HABIT", intent.Data{"habit_name": "read"}))
	require.NoError(t, err)
	require.Equal(t, StatusNoop, out.Status)
	require.Zero(t, f.Mutations())
}

func TestExecute_CompleteIncomeTask(t *testing.T) {
	f := storetest.NewFixture()
	f.Budgets.Items = []domain.Budget{{ID: "goal-1", Name: "Holiday", Type: domain.KindSavings, CurrentAmount: 500}}
	f.Tasks.Items = []domain.Task{{
		ID:           "t1",
		Title:        "Freelance invoice",
		Status:       domain.TaskTodo,
		ContextType:  domain.ContextFinance,
		FinanceType:  domain.Income,
		ExpectedCost: 2000,
		ContextID:    "goal-1",
	}}
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("COMPLETE_TASK", intent.Data{"title": "freelance"}))
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)

	require.Len(t, f.Tasks.Updated, 1)
	require.Equal(t, "done", f.Tasks.Updated[0].Patch["status"])
	require.Equal(t, testNow, f.Tasks.Updated[0].Patch["completed_at"])

	require.Len(t, f.Finance.Created, 1)
	entry := f.Finance.Created[0]
	require.Equal(t, domain.Income, entry.Type)
	require.Equal(t, 2000.0, entry.Amount)
	require.Equal(t, "Freelance invoice", entry.Category)
	require.Equal(t, testNow, entry.Date)

	require.Len(t, f.Budgets.Updated, 1)
	require.Equal(t, "goal-1", f.Budgets.Updated[0].ID)
	require.Equal(t, 2500.0, f.Budgets.Updated[0].Patch["current_amount"])
}

func TestExecute_CompleteExpenseTaskRecordsEntryOnly(t *testing.T) {
	f := storetest.NewFixture()
	f.Budgets.Items = []domain.Budget{{ID: "b1", Name: "Groceries", Type: domain.KindBudget}}
	f.Tasks.Items = []domain.Task{{
		ID: "t1", Title: "Buy groceries", Status: domain.TaskTodo,
		ContextType: domain.ContextFinance, FinanceType: domain.Expense, ExpectedCost: 800, ContextID: "b1",
	}}
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("UPDATE_TASK", intent.Data{"title": "groceries", "status": "done"}))
	require.NoError(t, err)
	require.Len(t, f.Finance.Created, 1)
	require.Equal(t, domain.Expense, f.Finance.Created[0].Type)
	require.Empty(t, f.Budgets.Updated)
}

func TestExecute_UpdateTaskToDoneKeepsOtherChanges(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("UPDATE_TASK", intent.Data{
		"title": "rent", "new_title": "Rent March", "priority": "low", "status": "done",
	}))
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)

	require.Len(t, f.Tasks.Updated, 1)
	patch := f.Tasks.Updated[0].Patch
	require.Equal(t, "Rent March", patch["title"])
	require.Equal(t, "low", patch["priority"])
	require.Equal(t, "done", patch["status"])
	require.Equal(t, testNow, patch["completed_at"])
	require.Empty(t, f.Finance.Created)
}

func TestExecute_UpdateTaskToDoneUsesUpdatedFinanceFields(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("UPDATE_TASK", intent.Data{
		"title":         "rent",
		"new_title":     "Rent March",
		"status":        "done",
		"expected_cost": 1200.0,
		"context_type":  "finance",
		"finance_type":  "expense",
	}))
	require.NoError(t, err)

	require.Len(t, f.Tasks.Updated, 1)
	require.Equal(t, 1200.0, f.Tasks.Updated[0].Patch["expected_cost"])
	require.Len(t, f.Finance.Created, 1)
	entry := f.Finance.Created[0]
	require.Equal(t, domain.Expense, entry.Type)
	require.Equal(t, 1200.0, entry.Amount)
	require.Equal(t, "Rent March", entry.Category)
}

func TestExecute_UpdateTaskToDoneRevertsEveryFieldOnFailure(t *testing.T) {
	f := seededFixture()
	f.Finance.CreateErr = errors.New("throttled")
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("UPDATE_TASK", intent.Data{
		"title": "rent", "new_title": "Rent March", "status": "done",
		"expected_cost": 1200.0, "context_type": "finance",
	}))
	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
	require.False(t, execErr.NeedsReconciliation)

	require.Len(t, f.Tasks.Updated, 2)
	undo := f.Tasks.Updated[1].Patch
	require.Equal(t, "Pay rent", undo["title"])
	require.Equal(t, 0.0, undo["expected_cost"])
	require.Equal(t, "", undo["context_type"])
	require.Equal(t, "todo", undo["status"])
	require.Nil(t, undo["completed_at"])
}

// Withdrawing more than the balance floors it at zero but records the
// full amount.
func TestExecute_WithdrawSavingsFloorsAtZero(t *testing.T) {
	f := storetest.NewFixture()
	f.Budgets.Items = []domain.Budget{{ID: "g1", Name: "Emergency Fund", Type: domain.KindSavings, CurrentAmount: 200}}
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("WITHDRAW_SAVINGS", intent.Data{"name": "emergency", "amount": 300.0}))
	require.NoError(t, err)

	require.Len(t, f.Budgets.Updated, 1)
	require.Equal(t, 0.0, f.Budgets.Updated[0].Patch["current_amount"])
	require.Len(t, f.Finance.Created, 1)
	require.Equal(t, domain.Expense, f.Finance.Created[0].Type)
	require.Equal(t, 300.0, f.Finance.Created[0].Amount)
}

func TestExecute_WithdrawCompensatesWhenEntryFails(t *testing.T) {
	f := storetest.NewFixture()
	f.Budgets.Items = []domain.Budget{{ID: "g1", Name: "Emergency Fund", Type: domain.KindSavings, CurrentAmount: 200}}
	f.Finance.CreateErr = errors.New("throttled")
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("WITHDRAW_SAVINGS", intent.Data{"name": "emergency", "amount": 50.0}))
	require.Error(t, err)
	require.Equal(t, StatusFailed, out.Status)

	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, intent.WithdrawSavings, execErr.Action)
	require.False(t, execErr.NeedsReconciliation)
	require.ErrorContains(t, err, "throttled")

	require.Len(t, f.Budgets.Updated, 2)
	require.Equal(t, 150.0, f.Budgets.Updated[0].Patch["current_amount"])
	require.Equal(t, 200.0, f.Budgets.Updated[1].Patch["current_amount"])
}

func TestExecute_FailedCompensationNeedsReconciliation(t *testing.T) {
	f := storetest.NewFixture()
	f.Inventory.CreateErr = errors.New("inventory down")
	f.Finance.DeleteErr = errors.New("finance down")
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("ADD_INVENTORY", intent.Data{"item_name": "Desk", "cost": 9000.0, "record_purchase": "yes"}))
	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
	require.True(t, execErr.NeedsReconciliation)
	require.Equal(t, []string{"finance entry fin-1"}, execErr.LeftInPlace)
	require.ErrorContains(t, err, "needs reconciliation")
}

func TestExecute_SellInventoryRecordsIncome(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("SELL_INVENTORY", intent.Data{"item_name": "headphones", "price": 1200.0}))
	require.NoError(t, err)
	require.Len(t, f.Inventory.Updated, 1)
	require.Equal(t, "sold", f.Inventory.Updated[0].Patch["status"])
	require.Len(t, f.Finance.Created, 1)
	require.Equal(t, domain.Income, f.Finance.Created[0].Type)
	require.Equal(t, 1200.0, f.Finance.Created[0].Amount)
}

func TestExecute_AddTaskCrossDomainDefaults(t *testing.T) {
	cases := []struct {
		name        string
		data        intent.Data
		financeType domain.FinanceType
		contextID   string
	}{
		{"expense links first budget", intent.Data{"title": "Buy groceries", "expected_cost": 800.0}, domain.Expense, "b1"},
		{"expense links named budget", intent.Data{"title": "Fill tank", "cost": 60.0, "budget_name": "fuel"}, domain.Expense, "b2"},
		{"income links first savings goal", intent.Data{"title": "Invoice", "amount": 2000.0, "finance_type": "income"}, domain.Income, "g1"},
		{"explicit context kept", intent.Data{"title": "Gift", "expected_cost": 50.0, "context_id": "b9"}, domain.Expense, "b9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := seededFixture()
			f.Budgets.Items = append(f.Budgets.Items, domain.Budget{ID: "b2", Name: "Fuel", Type: domain.KindBudget})
			d := mustDispatcher(t, f)

			_, err := d.Execute(userCtx(), decode("ADD_TASK", tc.data))
			require.NoError(t, err)
			require.Len(t, f.Tasks.Created, 1)

			task := f.Tasks.Created[0]
			require.Equal(t, domain.ContextFinance, task.ContextType)
			require.Equal(t, tc.financeType, task.FinanceType)
			require.Equal(t, tc.contextID, task.ContextID)
			require.Equal(t, domain.TaskTodo, task.Status)
		})
	}
}

func TestExecute_StoreFailureIsActionExecutionError(t *testing.T) {
	f := seededFixture()
	f.Tasks.ListErr = errors.New("not reachable")
	d := mustDispatcher(t, f)

	out, err := d.Execute(userCtx(), decode("COMPLETE_TASK", intent.Data{"title": "rent"}))
	require.Equal(t, StatusFailed, out.Status)
	var execErr *ActionExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, intent.CompleteTask, execErr.Action)
}

func TestExecute_MissingFieldsAreInvalid(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	for _, in := range []intent.Intent{
		decode("ADD_TASK", nil),
		decode("DEPOSIT_SAVINGS", intent.Data{"name": "emergency"}),
		decode("UPDATE_TASK", intent.Data{"title": "rent"}),
		decode("ADD_STUDY_PART", intent.Data{"chapter": "algebra"}),
	} {
		out, err := d.Execute(userCtx(), in)
		require.NoError(t, err)
		require.Equal(t, StatusSkippedInvalid, out.Status, string(in.Action))
	}
	require.Zero(t, f.Mutations())
}

func TestExecuteAll_StopsAtFirstFailure(t *testing.T) {
	f := seededFixture()
	f.Finance.CreateErr = errors.New("boom")
	d := mustDispatcher(t, f)

	outcomes, err := d.ExecuteAll(userCtx(), []intent.Intent{
		decode("ADD_HABIT", intent.Data{"habit_name": "Meditate"}),
		decode("ADD_EXPENSE", intent.Data{"amount": 10.0, "category": "Coffee"}),
		decode("ADD_NOTE", intent.Data{"title": "never"}),
	})
	require.Error(t, err)
	require.Len(t, outcomes, 2)
	require.Equal(t, StatusApplied, outcomes[0].Status)
	require.Equal(t, StatusFailed, outcomes[1].Status)
	require.Len(t, f.Habits.Created, 1)
	require.Empty(t, f.Notes.Created)
}

func TestExecuteAll_BatchSeesEarlierWrites(t *testing.T) {
	f := seededFixture()
	set := f.Set().Cached()
	d, err := NewDispatcher(set, time.UTC)
	require.NoError(t, err)
	d.now = func() time.Time { return testNow }

	ctx := userCtx()
	_, err = set.Budgets.List(ctx)
	require.NoError(t, err)

	outcomes, err := d.ExecuteAll(ctx, []intent.Intent{
		decode("ADD_BUDGET", intent.Data{"name": "Travel", "target_amount": 3000.0}),
		decode("ADD_TASK", intent.Data{"title": "Flight", "expected_cost": 300.0, "budget_name": "travel"}),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.Equal(t, "budget-1", f.Tasks.Created[0].ContextID)
}

func TestExecute_StudyCascadeDelete(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("DELETE_STUDY_SUBJECT", intent.Data{"subject": "math"}))
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, f.Subjects.Deleted)
	require.Equal(t, []string{"c1"}, f.Chapters.Deleted)
	require.Equal(t, []string{"p1"}, f.Parts.Deleted)
}

func TestExecute_AddStudyChapterPosition(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("ADD_STUDY_CHAPTER", intent.Data{"subject": "math", "chapter": "Geometry"}))
	require.NoError(t, err)
	require.Equal(t, "s1", f.Chapters.Created[0].SubjectID)
	require.Equal(t, 2, f.Chapters.Created[0].Position)
}

func TestExecute_AppendNote(t *testing.T) {
	f := seededFixture()
	d := mustDispatcher(t, f)

	_, err := d.Execute(userCtx(), decode("APPEND_NOTE", intent.Data{"title": "shopping", "content": "[ ] bread"}))
	require.NoError(t, err)
	require.Equal(t, "[x] milk\n[ ] eggs\n[ ] bread", f.Notes.Updated[0].Patch["content"])
}
