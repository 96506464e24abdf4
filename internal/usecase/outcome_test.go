package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
)

func TestMergeReply(t *testing.T) {
	intents := []intent.Intent{
		{Action: intent.AddTask, ResponseText: "Added the task."},
		{Action: intent.DeleteNote, ResponseText: "Deleted your note."},
		{Action: intent.Chat, ResponseText: "Anything else?"},
		{Action: "FLY", ResponseText: "Flying!"},
		{Action: intent.CompleteHabit, ResponseText: "Nice streak!"},
		{Action: intent.DepositSavings, ResponseText: "Deposited."},
	}
	outcomes := []Outcome{
		{Action: intent.AddTask, Status: StatusApplied},
		{Action: intent.DeleteNote, Status: StatusSkippedNoMatch, Target: "groceries"},
		{Action: intent.Chat, Status: StatusNoop},
		{Action: "FLY", Status: StatusUnrecognized},
		{Action: intent.CompleteHabit, Status: StatusNoop, Target: "Read", Detail: "already done today"},
		{Action: intent.DepositSavings, Status: StatusSkippedInvalid, Detail: "an amount is required"},
	}

	require.Equal(t, "Added the task.\n"+
		"I couldn't find \"groceries\", so I didn't delete note.\n"+
		"Anything else?\n"+
		"I don't know how to handle \"FLY\" yet.\n"+
		"Nothing to do for complete habit (Read): already done today.\n"+
		"I need more detail to deposit savings: an amount is required.",
		mergeReply(intents, outcomes))
}

func TestMergeReply_EmptyAndDuplicates(t *testing.T) {
	require.Equal(t, "Okay.", mergeReply(nil, nil))

	intents := []intent.Intent{{Action: intent.Chat, ResponseText: "Hi"}, {Action: intent.Chat, ResponseText: "Hi"}}
	outcomes := []Outcome{{Action: intent.Chat, Status: StatusNoop}, {Action: intent.Chat, Status: StatusNoop}}
	require.Equal(t, "Hi", mergeReply(intents, outcomes))
}

func TestResolveBySubstring(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Title: "Pay Rent"},
		{ID: "t2", Title: "Pay rent deposit"},
		{ID: "t3", Title: "Call mom"},
	}

	got, ok := resolveBySubstring(tasks, "", "RENT", taskID, taskName)
	require.True(t, ok)
	require.Equal(t, "t1", got.ID)

	got, ok = resolveBySubstring(tasks, "t3", "rent", taskID, taskName)
	require.True(t, ok)
	require.Equal(t, "t3", got.ID)

	got, ok = resolveBySubstring(tasks, "missing", "deposit", taskID, taskName)
	require.True(t, ok)
	require.Equal(t, "t2", got.ID)

	_, ok = resolveBySubstring(tasks, "", "  ", taskID, taskName)
	require.False(t, ok)
	_, ok = resolveBySubstring(tasks, "", "gym", taskID, taskName)
	require.False(t, ok)
}

func TestIsBulk(t *testing.T) {
	for _, s := range []string{"all", " ALL ", "every habit", "Everything"} {
		require.True(t, isBulk(s), s)
	}
	for _, s := range []string{"", "allergy pills", "read"} {
		require.False(t, isBulk(s), s)
	}
}
