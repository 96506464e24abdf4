package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lifeos/internal/domain"
	"lifeos/internal/store"
)

const (
	maxSnapshotNotes        = 20
	maxSnapshotTransactions = 10
	maxNotePreview          = 500
)

// SnapshotBuilder renders the user's live data as model context.
type SnapshotBuilder struct {
	stores store.Set
	loc    *time.Location
	now    func() time.Time
}

func NewSnapshotBuilder(stores store.Set, loc *time.Location) (*SnapshotBuilder, error) {
	if err := stores.Validate(); err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotBuilder{stores: stores, loc: loc, now: time.Now}, nil
}

type snapshotData struct {
	tasks     []domain.Task
	finance   []domain.FinanceEntry
	budgets   []domain.Budget
	notes     []domain.Note
	habits    []domain.Habit
	inventory []domain.InventoryItem
	subjects  []domain.StudySubject
	chapters  []domain.StudyChapter
	parts     []domain.StudyPart
}

// Build loads every store concurrently and renders the snapshot. A store
// that fails to load contributes an empty section.
func (b *SnapshotBuilder) Build(ctx context.Context, route string) string {
	// Each turn starts from current data; other clients write these tables too.
	b.stores.Invalidate(ctx)

	var data snapshotData
	var g errgroup.Group
	g.Go(load(ctx, "tasks", b.stores.Tasks, &data.tasks))
	g.Go(load(ctx, "finance", b.stores.Finance, &data.finance))
	g.Go(load(ctx, "budgets", b.stores.Budgets, &data.budgets))
	g.Go(load(ctx, "notes", b.stores.Notes, &data.notes))
	g.Go(load(ctx, "habits", b.stores.Habits, &data.habits))
	g.Go(load(ctx, "inventory", b.stores.Inventory, &data.inventory))
	g.Go(load(ctx, "study subjects", b.stores.Subjects, &data.subjects))
	g.Go(load(ctx, "study chapters", b.stores.Chapters, &data.chapters))
	g.Go(load(ctx, "study parts", b.stores.Parts, &data.parts))
	_ = g.Wait()

	return renderSnapshot(data, b.now().In(b.loc), route)
}

func load[T any](ctx context.Context, name string, s store.Store[T], dst *[]T) func() error {
	return func() error {
		items, err := s.List(ctx)
		if err != nil {
			slog.Warn("snapshot store unavailable", "store", name, "err", err)
			return nil
		}
		*dst = items
		return nil
	}
}

func timeOfDay(hour int) string {
	switch {
	case hour < 5:
		return "Late Night"
	case hour < 12:
		return "Morning"
	case hour < 17:
		return "Afternoon"
	case hour < 22:
		return "Evening"
	default:
		return "Night"
	}
}

func renderSnapshot(data snapshotData, now time.Time, route string) string {
	today := now.Format(domain.DateLayout)
	loc := now.Location()
	var sb strings.Builder

	if route == "" {
		route = "/"
	}
	fmt.Fprintf(&sb, "Now: %s, %s (%s), %s\n", now.Weekday(), today, timeOfDay(now.Hour()), now.Format("15:04"))
	fmt.Fprintf(&sb, "Current page: %s\n", route)

	writeTasks(&sb, data.tasks, today)
	writeHabits(&sb, data.habits, today, loc)
	writeFinance(&sb, data.finance, data.budgets, today, loc)
	writeInventory(&sb, data.inventory)
	writeStudy(&sb, data.subjects, data.chapters, data.parts)
	writeNotes(&sb, data.notes)
	return sb.String()
}

func writeTasks(sb *strings.Builder, tasks []domain.Task, today string) {
	var open, overdue, dueToday, pressing []domain.Task
	for _, t := range tasks {
		if t.Status == domain.TaskDone {
			continue
		}
		open = append(open, t)
		if t.Overdue(today) {
			overdue = append(overdue, t)
		}
		if t.DueOn(today) {
			dueToday = append(dueToday, t)
		}
		if t.Pressing() {
			pressing = append(pressing, t)
		}
	}
	fmt.Fprintf(sb, "\nTasks: %d open, %d done\n", len(open), len(tasks)-len(open))
	writeTaskList(sb, "Overdue", overdue)
	writeTaskList(sb, "Due today", dueToday)
	writeTaskList(sb, "High priority", pressing)
}

func writeTaskList(sb *strings.Builder, label string, tasks []domain.Task) {
	fmt.Fprintf(sb, "%s (%d):\n", label, len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(sb, "- %s [%s, %s", t.Title, t.Status, t.Priority)
		if t.DueDate != "" {
			fmt.Fprintf(sb, ", due %s", t.DueDate)
		}
		if t.ContextType == domain.ContextFinance && t.ExpectedCost > 0 {
			fmt.Fprintf(sb, ", %s %.2f", t.FinanceType, t.ExpectedCost)
		}
		sb.WriteString("]\n")
	}
}

func writeHabits(sb *strings.Builder, habits []domain.Habit, today string, loc *time.Location) {
	done := 0
	for _, h := range habits {
		if h.DoneOn(today, loc) {
			done++
		}
	}
	fmt.Fprintf(sb, "\nHabits (%d/%d done today):\n", done, len(habits))
	for _, h := range habits {
		mark := "pending"
		if h.DoneOn(today, loc) {
			mark = "done"
		}
		fmt.Fprintf(sb, "- %s: %s, streak %d\n", h.Name, mark, h.StreakCount)
	}
}

func writeFinance(sb *strings.Builder, entries []domain.FinanceEntry, budgets []domain.Budget, today string, loc *time.Location) {
	totals := domain.SumEntries(entries, today, loc)
	fmt.Fprintf(sb, "\nFinance: income %.2f, expense %.2f, balance %.2f, spent today %.2f\n",
		totals.Income, totals.Expense, totals.Balance(), totals.SpentToday)

	recent := make([]domain.FinanceEntry, len(entries))
	copy(recent, entries)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > maxSnapshotTransactions {
		recent = recent[:maxSnapshotTransactions]
	}
	fmt.Fprintf(sb, "Recent transactions (%d):\n", len(recent))
	for _, e := range recent {
		fmt.Fprintf(sb, "- %s %s %.2f %s", e.Date.In(loc).Format(domain.DateLayout), e.Type, e.Amount, e.Category)
		if e.Description != "" {
			fmt.Fprintf(sb, " (%s)", e.Description)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "Budgets and savings goals (%d):\n", len(budgets))
	for _, b := range budgets {
		fmt.Fprintf(sb, "- %s [%s] %.2f/%.2f", b.Name, b.Type, b.CurrentAmount, b.TargetAmount)
		if b.Period != "" {
			fmt.Fprintf(sb, " %s", b.Period)
		}
		sb.WriteString("\n")
	}
}

func writeInventory(sb *strings.Builder, items []domain.InventoryItem) {
	var active []domain.InventoryItem
	for _, it := range items {
		if it.Status == domain.InventoryActive {
			active = append(active, it)
		}
	}
	fmt.Fprintf(sb, "\nInventory (%d active of %d):\n", len(active), len(items))
	for _, it := range active {
		fmt.Fprintf(sb, "- %s x%d", it.Name, it.Quantity)
		if it.Cost > 0 {
			fmt.Fprintf(sb, " cost %.2f", it.Cost)
		}
		if it.Store != "" {
			fmt.Fprintf(sb, " from %s", it.Store)
		}
		sb.WriteString("\n")
	}
}

func writeStudy(sb *strings.Builder, subjects []domain.StudySubject, chapters []domain.StudyChapter, parts []domain.StudyPart) {
	fmt.Fprintf(sb, "\nStudy subjects (%d):\n", len(subjects))
	for _, s := range subjects {
		done, total := domain.Progress(s.ID, chapters, parts)
		fmt.Fprintf(sb, "- %s: %d/%d completed\n", s.Name, done, total)
	}
}

func writeNotes(sb *strings.Builder, notes []domain.Note) {
	var live []domain.Note
	for _, n := range notes {
		if !n.Trashed && !n.Archived {
			live = append(live, n)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].Pinned != live[j].Pinned {
			return live[i].Pinned
		}
		return live[i].UpdatedAt.After(live[j].UpdatedAt)
	})
	shown := live
	if len(shown) > maxSnapshotNotes {
		shown = shown[:maxSnapshotNotes]
	}
	fmt.Fprintf(sb, "\nNotes (%d of %d):\n", len(shown), len(live))
	for _, n := range shown {
		sb.WriteString("- " + n.Title)
		if n.Pinned {
			sb.WriteString(" [pinned]")
		}
		if done, total := n.Checklist(); total > 0 {
			fmt.Fprintf(sb, " [checklist %d/%d]", done, total)
		}
		if preview := truncate(n.Content, maxNotePreview); preview != "" {
			sb.WriteString(": " + preview)
		}
		sb.WriteString("\n")
	}
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
