package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifeos/internal/auth"
	"lifeos/internal/domain"
	"lifeos/internal/integrations/paramstore"
	"lifeos/internal/intent"
	"lifeos/internal/store/storetest"
)

const testPrefix = "/lifeos"

var (
	testNow       = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	testYesterday = testNow.AddDate(0, 0, -1)
	testEarlier   = testNow.Add(-time.Hour)
)

func userCtx() context.Context {
	return auth.WithUser(context.Background(), "user-1")
}

type mockParams struct {
	mu    sync.Mutex
	vals  map[string]string
	err   error
	calls int
}

func (m *mockParams) GetParameter(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.vals[name]
	if !ok {
		return "", fmt.Errorf("param %s: %w", name, paramstore.ErrNotFound)
	}
	return v, nil
}

func defaultParams() *mockParams {
	return &mockParams{vals: map[string]string{testPrefix + "/config/openai_model": "gpt-4o-mini"}}
}

type mockLLM struct {
	mu        sync.Mutex
	answer    string
	err       error
	block     bool
	callCount int
	model     string
	messages  []domain.ChatMessage
}

func (m *mockLLM) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.model = model
	m.messages = messages
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.answer, m.err
}

func mustDispatcher(t *testing.T, f *storetest.Fixture) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(f.Set(), time.UTC)
	require.NoError(t, err)
	d.now = func() time.Time { return testNow }
	return d
}

// seededFixture holds one or two entities per domain.
func seededFixture() *storetest.Fixture {
	f := storetest.NewFixture()
	f.Tasks.Items = []domain.Task{
		{ID: "t1", Title: "Pay rent", Status: domain.TaskTodo, Priority: domain.PriorityHigh, DueDate: "2026-03-09"},
	}
	f.Finance.Items = []domain.FinanceEntry{
		{ID: "e1", Type: domain.Expense, Amount: 45, Category: "Food", Description: "Lunch", Date: testEarlier},
	}
	f.Budgets.Items = []domain.Budget{
		{ID: "b1", Name: "Groceries", Type: domain.KindBudget, TargetAmount: 5000, Period: "monthly"},
		{ID: "g1", Name: "Emergency Fund", Type: domain.KindSavings, TargetAmount: 10000, CurrentAmount: 200},
	}
	f.Notes.Items = []domain.Note{
		{ID: "n1", Title: "Shopping list", Content: "[x] milk\n[ ] eggs"},
	}
	f.Habits.Items = []domain.Habit{
		{ID: "h1", Name: "Read", StreakCount: 2, LastCompletedAt: &testYesterday},
	}
	f.Inventory.Items = []domain.InventoryItem{
		{ID: "i1", Name: "Headphones", Quantity: 1, Cost: 1500, Status: domain.InventoryActive},
	}
	f.Subjects.Items = []domain.StudySubject{
		{ID: "s1", Name: "Math", Status: domain.StudyInProgress},
		{ID: "s2", Name: "Physics", Status: domain.StudyNotStarted},
	}
	f.Chapters.Items = []domain.StudyChapter{
		{ID: "c1", SubjectID: "s1", Name: "Algebra", Status: domain.StudyInProgress, Position: 1},
	}
	f.Parts.Items = []domain.StudyPart{
		{ID: "p1", ChapterID: "c1", Name: "Linear equations", Status: domain.StudyNotStarted},
	}
	return f
}

func decode(action string, data intent.Data) intent.Intent {
	return intent.Decode(action, data, "")
}
