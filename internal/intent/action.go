// Package intent defines the closed set of assistant actions and the typed
// payloads the language model's loosely typed output is validated into.
package intent

import "sort"

// Action names one assistant operation.
type Action string

const (
	AddTask      Action = "ADD_TASK"
	UpdateTask   Action = "UPDATE_TASK"
	CompleteTask Action = "COMPLETE_TASK"
	DeleteTask   Action = "DELETE_TASK"

	AddExpense        Action = "ADD_EXPENSE"
	AddIncome         Action = "ADD_INCOME"
	AddTransaction    Action = "ADD_TRANSACTION"
	DeleteTransaction Action = "DELETE_TRANSACTION"

	AddBudget    Action = "ADD_BUDGET"
	UpdateBudget Action = "UPDATE_BUDGET"
	DeleteBudget Action = "DELETE_BUDGET"

	AddSavingsGoal    Action = "ADD_SAVINGS_GOAL"
	DepositSavings    Action = "DEPOSIT_SAVINGS"
	WithdrawSavings   Action = "WITHDRAW_SAVINGS"
	DeleteSavingsGoal Action = "DELETE_SAVINGS_GOAL"

	AddNote     Action = "ADD_NOTE"
	UpdateNote  Action = "UPDATE_NOTE"
	AppendNote  Action = "APPEND_NOTE"
	PinNote     Action = "PIN_NOTE"
	ArchiveNote Action = "ARCHIVE_NOTE"
	DeleteNote  Action = "DELETE_NOTE"

	AddHabit      Action = "ADD_HABIT"
	CompleteHabit Action = "COMPLETE_HABIT"
	DeleteHabit   Action = "DELETE_HABIT"

	AddInventory    Action = "ADD_INVENTORY"
	UpdateInventory Action = "UPDATE_INVENTORY"
	SellInventory   Action = "SELL_INVENTORY"
	DeleteInventory Action = "DELETE_INVENTORY"

	AddStudySubject    Action = "ADD_STUDY_SUBJECT"
	AddStudyChapter    Action = "ADD_STUDY_CHAPTER"
	AddStudyPart       Action = "ADD_STUDY_PART"
	UpdateStudyStatus  Action = "UPDATE_STUDY_STATUS"
	DeleteStudySubject Action = "DELETE_STUDY_SUBJECT"

	Chat          Action = "CHAT"
	Unknown       Action = "UNKNOWN"
	GetSummary    Action = "GET_SUMMARY"
	AnalyzeBudget Action = "ANALYZE_BUDGET"
	Clarify       Action = "CLARIFY"
	Navigate      Action = "NAVIGATE"
)

// Domain groups actions by the store they touch.
type Domain string

const (
	DomainTask         Domain = "task"
	DomainFinance      Domain = "finance"
	DomainBudget       Domain = "budget"
	DomainSavings      Domain = "savings"
	DomainNote         Domain = "note"
	DomainHabit        Domain = "habit"
	DomainInventory    Domain = "inventory"
	DomainStudy        Domain = "study"
	DomainConversation Domain = "conversation"
	DomainUI           Domain = "ui"
)

var domains = map[Action]Domain{
	AddTask: DomainTask, UpdateTask: DomainTask, CompleteTask: DomainTask, DeleteTask: DomainTask,

	AddExpense: DomainFinance, AddIncome: DomainFinance, AddTransaction: DomainFinance, DeleteTransaction: DomainFinance,

	AddBudget: DomainBudget, UpdateBudget: DomainBudget, DeleteBudget: DomainBudget,

	AddSavingsGoal: DomainSavings, DepositSavings: DomainSavings, WithdrawSavings: DomainSavings, DeleteSavingsGoal: DomainSavings,

	AddNote: DomainNote, UpdateNote: DomainNote, AppendNote: DomainNote, PinNote: DomainNote, ArchiveNote: DomainNote, DeleteNote: DomainNote,

	AddHabit: DomainHabit, CompleteHabit: DomainHabit, DeleteHabit: DomainHabit,

	AddInventory: DomainInventory, UpdateInventory: DomainInventory, SellInventory: DomainInventory, DeleteInventory: DomainInventory,

	AddStudySubject: DomainStudy, AddStudyChapter: DomainStudy, AddStudyPart: DomainStudy, UpdateStudyStatus: DomainStudy, DeleteStudySubject: DomainStudy,

	Chat: DomainConversation, Unknown: DomainConversation, GetSummary: DomainConversation, AnalyzeBudget: DomainConversation, Clarify: DomainConversation,

	Navigate: DomainUI,
}

// Known reports whether a is a member of the action set.
func (a Action) Known() bool {
	_, ok := domains[a]
	return ok
}

// Domain returns the domain of a, or "" when a is not known.
func (a Action) Domain() Domain {
	return domains[a]
}

// Conversational reports whether a only carries reply text.
func (a Action) Conversational() bool {
	return domains[a] == DomainConversation
}

// Mutating reports whether a changes a domain store.
func (a Action) Mutating() bool {
	d := domains[a]
	return d != "" && d != DomainConversation && d != DomainUI
}

// All returns every known action sorted by name.
func All() []Action {
	out := make([]Action, 0, len(domains))
	for a := range domains {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
