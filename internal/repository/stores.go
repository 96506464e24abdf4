package repository

import (
	"fmt"

	"lifeos/internal/store"
)

// NewStoreSet builds every domain table on one DynamoDB table.
func NewStoreSet(api dynamodbAPI, tableName string) (store.Set, error) {
	if err := validateTable(api, tableName); err != nil {
		return store.Set{}, err
	}
	var (
		set store.Set
		err error
	)
	if set.Tasks, err = NewTasks(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: tasks: %w", err)
	}
	if set.Finance, err = NewFinance(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: finance: %w", err)
	}
	if set.Budgets, err = NewBudgets(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: budgets: %w", err)
	}
	if set.Notes, err = NewNotes(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: notes: %w", err)
	}
	if set.Habits, err = NewHabits(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: habits: %w", err)
	}
	if set.Inventory, err = NewInventory(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: inventory: %w", err)
	}
	if set.Subjects, err = NewStudySubjects(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: study subjects: %w", err)
	}
	if set.Chapters, err = NewStudyChapters(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: study chapters: %w", err)
	}
	if set.Parts, err = NewStudyParts(api, tableName); err != nil {
		return store.Set{}, fmt.Errorf("repository: study parts: %w", err)
	}
	return set, nil
}
