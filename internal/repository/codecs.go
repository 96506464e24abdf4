package repository

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"lifeos/internal/domain"
)

func fieldSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// NewTasks returns the task table.
func NewTasks(api dynamodbAPI, tableName string) (*Table[domain.Task], error) {
	return newTable(api, tableName, codec[domain.Task]{
		kind:   "TASK",
		fields: fieldSet("title", "description", "status", "priority", "due_date", "expected_cost", "context_type", "finance_type", "context_id", "completed_at"),
		encode: func(t domain.Task) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"title":         str(t.Title),
				"status":        str(string(t.Status)),
				"priority":      str(string(t.Priority)),
				"expected_cost": num(t.ExpectedCost),
				"created_at":    timestamp(t.CreatedAt),
			}
			putOpt(item, "description", t.Description)
			putOpt(item, "due_date", t.DueDate)
			putOpt(item, "context_type", t.ContextType)
			putOpt(item, "finance_type", string(t.FinanceType))
			putOpt(item, "context_id", t.ContextID)
			putOptTime(item, "completed_at", t.CompletedAt)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.Task, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.Task{}, err
			}
			cost, err := optNum(item, "expected_cost")
			if err != nil {
				return domain.Task{}, err
			}
			completed, err := optTime(item, "completed_at")
			if err != nil {
				return domain.Task{}, err
			}
			created, err := optTime(item, "created_at")
			if err != nil {
				return domain.Task{}, err
			}
			return domain.Task{
				ID:           id,
				UserID:       optStr(item, "user_id"),
				Title:        optStr(item, "title"),
				Description:  optStr(item, "description"),
				Status:       domain.TaskStatus(optStr(item, "status")),
				Priority:     domain.Priority(optStr(item, "priority")),
				DueDate:      optStr(item, "due_date"),
				ExpectedCost: cost,
				ContextType:  optStr(item, "context_type"),
				FinanceType:  domain.FinanceType(optStr(item, "finance_type")),
				ContextID:    optStr(item, "context_id"),
				CompletedAt:  completed,
				CreatedAt:    timeOrZero(created),
			}, nil
		},
	})
}

// NewFinance returns the finance entry table.
func NewFinance(api dynamodbAPI, tableName string) (*Table[domain.FinanceEntry], error) {
	return newTable(api, tableName, codec[domain.FinanceEntry]{
		kind:   "FINANCE",
		fields: fieldSet("type", "amount", "category", "description", "date"),
		encode: func(e domain.FinanceEntry) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"type":     str(string(e.Type)),
				"amount":   num(e.Amount),
				"category": str(e.Category),
				"date":     timestamp(e.Date),
			}
			putOpt(item, "description", e.Description)
			putOpt(item, "source", e.Source)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.FinanceEntry, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.FinanceEntry{}, err
			}
			amount, err := optNum(item, "amount")
			if err != nil {
				return domain.FinanceEntry{}, err
			}
			date, err := optTime(item, "date")
			if err != nil {
				return domain.FinanceEntry{}, err
			}
			return domain.FinanceEntry{
				ID:          id,
				UserID:      optStr(item, "user_id"),
				Type:        domain.FinanceType(optStr(item, "type")),
				Amount:      amount,
				Category:    optStr(item, "category"),
				Description: optStr(item, "description"),
				Date:        timeOrZero(date),
				Source:      optStr(item, "source"),
			}, nil
		},
	})
}

// NewBudgets returns the table shared by budgets and savings goals.
func NewBudgets(api dynamodbAPI, tableName string) (*Table[domain.Budget], error) {
	return newTable(api, tableName, codec[domain.Budget]{
		kind:   "BUDGET",
		fields: fieldSet("name", "target_amount", "current_amount", "period"),
		encode: func(b domain.Budget) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"name":           str(b.Name),
				"type":           str(string(b.Type)),
				"target_amount":  num(b.TargetAmount),
				"current_amount": num(b.CurrentAmount),
				"created_at":     timestamp(b.CreatedAt),
			}
			putOpt(item, "period", b.Period)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.Budget, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.Budget{}, err
			}
			target, err := optNum(item, "target_amount")
			if err != nil {
				return domain.Budget{}, err
			}
			current, err := optNum(item, "current_amount")
			if err != nil {
				return domain.Budget{}, err
			}
			created, err := optTime(item, "created_at")
			if err != nil {
				return domain.Budget{}, err
			}
			return domain.Budget{
				ID:            id,
				UserID:        optStr(item, "user_id"),
				Name:          optStr(item, "name"),
				Type:          domain.BudgetType(optStr(item, "type")),
				TargetAmount:  target,
				CurrentAmount: current,
				Period:        optStr(item, "period"),
				CreatedAt:     timeOrZero(created),
			}, nil
		},
	})
}

// NewNotes returns the note table.
func NewNotes(api dynamodbAPI, tableName string) (*Table[domain.Note], error) {
	return newTable(api, tableName, codec[domain.Note]{
		kind:   "NOTE",
		fields: fieldSet("title", "content", "tags", "pinned", "archived", "trashed", "updated_at"),
		encode: func(n domain.Note) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"title":      str(n.Title),
				"content":    str(n.Content),
				"pinned":     boolean(n.Pinned),
				"archived":   boolean(n.Archived),
				"trashed":    boolean(n.Trashed),
				"updated_at": timestamp(n.UpdatedAt),
			}
			if len(n.Tags) > 0 {
				tags, _ := toAttr(n.Tags)
				item["tags"] = tags
			}
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.Note, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.Note{}, err
			}
			updated, err := optTime(item, "updated_at")
			if err != nil {
				return domain.Note{}, err
			}
			return domain.Note{
				ID:        id,
				UserID:    optStr(item, "user_id"),
				Title:     optStr(item, "title"),
				Content:   optStr(item, "content"),
				Tags:      optStrings(item, "tags"),
				Pinned:    optBool(item, "pinned"),
				Archived:  optBool(item, "archived"),
				Trashed:   optBool(item, "trashed"),
				UpdatedAt: timeOrZero(updated),
			}, nil
		},
	})
}

// NewHabits returns the habit table.
func NewHabits(api dynamodbAPI, tableName string) (*Table[domain.Habit], error) {
	return newTable(api, tableName, codec[domain.Habit]{
		kind:   "HABIT",
		fields: fieldSet("name", "streak_count", "last_completed_date"),
		encode: func(h domain.Habit) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"name":         str(h.Name),
				"streak_count": num(float64(h.StreakCount)),
				"created_at":   timestamp(h.CreatedAt),
			}
			putOptTime(item, "last_completed_date", h.LastCompletedAt)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.Habit, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.Habit{}, err
			}
			streak, err := optInt(item, "streak_count")
			if err != nil {
				return domain.Habit{}, err
			}
			last, err := optTime(item, "last_completed_date")
			if err != nil {
				return domain.Habit{}, err
			}
			created, err := optTime(item, "created_at")
			if err != nil {
				return domain.Habit{}, err
			}
			return domain.Habit{
				ID:              id,
				UserID:          optStr(item, "user_id"),
				Name:            optStr(item, "name"),
				StreakCount:     streak,
				LastCompletedAt: last,
				CreatedAt:       timeOrZero(created),
			}, nil
		},
	})
}

// NewInventory returns the inventory table.
func NewInventory(api dynamodbAPI, tableName string) (*Table[domain.InventoryItem], error) {
	return newTable(api, tableName, codec[domain.InventoryItem]{
		kind:   "INVENTORY",
		fields: fieldSet("name", "category", "quantity", "cost", "store", "status", "finance_entry_id"),
		encode: func(i domain.InventoryItem) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"name":         str(i.Name),
				"quantity":     num(float64(i.Quantity)),
				"cost":         num(i.Cost),
				"status":       str(string(i.Status)),
				"purchased_at": timestamp(i.PurchasedAt),
			}
			putOpt(item, "category", i.Category)
			putOpt(item, "store", i.Store)
			putOpt(item, "finance_entry_id", i.FinanceEntryID)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.InventoryItem, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.InventoryItem{}, err
			}
			qty, err := optInt(item, "quantity")
			if err != nil {
				return domain.InventoryItem{}, err
			}
			cost, err := optNum(item, "cost")
			if err != nil {
				return domain.InventoryItem{}, err
			}
			purchased, err := optTime(item, "purchased_at")
			if err != nil {
				return domain.InventoryItem{}, err
			}
			return domain.InventoryItem{
				ID:             id,
				UserID:         optStr(item, "user_id"),
				Name:           optStr(item, "name"),
				Category:       optStr(item, "category"),
				Quantity:       qty,
				Cost:           cost,
				Store:          optStr(item, "store"),
				Status:         domain.InventoryStatus(optStr(item, "status")),
				FinanceEntryID: optStr(item, "finance_entry_id"),
				PurchasedAt:    timeOrZero(purchased),
			}, nil
		},
	})
}

// NewStudySubjects returns the study subject table.
func NewStudySubjects(api dynamodbAPI, tableName string) (*Table[domain.StudySubject], error) {
	return newTable(api, tableName, codec[domain.StudySubject]{
		kind:   "SUBJECT",
		fields: fieldSet("name", "preset", "status"),
		encode: func(s domain.StudySubject) map[string]types.AttributeValue {
			item := map[string]types.AttributeValue{
				"name":   str(s.Name),
				"status": str(string(s.Status)),
			}
			putOpt(item, "preset", s.Preset)
			return item
		},
		decode: func(item map[string]types.AttributeValue) (domain.StudySubject, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.StudySubject{}, err
			}
			return domain.StudySubject{
				ID:     id,
				UserID: optStr(item, "user_id"),
				Name:   optStr(item, "name"),
				Preset: optStr(item, "preset"),
				Status: domain.StudyStatus(optStr(item, "status")),
			}, nil
		},
	})
}

// NewStudyChapters returns the study chapter table.
func NewStudyChapters(api dynamodbAPI, tableName string) (*Table[domain.StudyChapter], error) {
	return newTable(api, tableName, codec[domain.StudyChapter]{
		kind:   "CHAPTER",
		fields: fieldSet("name", "status", "position"),
		encode: func(c domain.StudyChapter) map[string]types.AttributeValue {
			return map[string]types.AttributeValue{
				"subject_id": str(c.SubjectID),
				"name":       str(c.Name),
				"status":     str(string(c.Status)),
				"position":   num(float64(c.Position)),
			}
		},
		decode: func(item map[string]types.AttributeValue) (domain.StudyChapter, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.StudyChapter{}, err
			}
			pos, err := optInt(item, "position")
			if err != nil {
				return domain.StudyChapter{}, err
			}
			return domain.StudyChapter{
				ID:        id,
				UserID:    optStr(item, "user_id"),
				SubjectID: optStr(item, "subject_id"),
				Name:      optStr(item, "name"),
				Status:    domain.StudyStatus(optStr(item, "status")),
				Position:  pos,
			}, nil
		},
	})
}

// NewStudyParts returns the study part table.
func NewStudyParts(api dynamodbAPI, tableName string) (*Table[domain.StudyPart], error) {
	return newTable(api, tableName, codec[domain.StudyPart]{
		kind:   "PART",
		fields: fieldSet("name", "status"),
		encode: func(p domain.StudyPart) map[string]types.AttributeValue {
			return map[string]types.AttributeValue{
				"chapter_id": str(p.ChapterID),
				"name":       str(p.Name),
				"status":     str(string(p.Status)),
			}
		},
		decode: func(item map[string]types.AttributeValue) (domain.StudyPart, error) {
			id, err := strAttr(item, "id")
			if err != nil {
				return domain.StudyPart{}, err
			}
			return domain.StudyPart{
				ID:        id,
				UserID:    optStr(item, "user_id"),
				ChapterID: optStr(item, "chapter_id"),
				Name:      optStr(item, "name"),
				Status:    domain.StudyStatus(optStr(item, "status")),
			}, nil
		},
	})
}
