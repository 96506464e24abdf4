package usecase

import (
	"strings"

	"lifeos/internal/domain"
)

const defaultPersona = "You are LifeOS, a concise and friendly personal assistant that manages the user's tasks, money, notes, habits, inventory and studies."

// actionGuide lists each supported action with the data fields it needs.
var actionGuide = []string{
	"ADD_TASK {title, description?, priority? (low|medium|high|urgent), due_date? (YYYY-MM-DD), expected_cost?, finance_type? (income|expense), budget_name?, savings_name?}",
	"UPDATE_TASK {title or id, new_title?, description?, status? (todo|in-progress|done), priority?, due_date?, expected_cost?}",
	"COMPLETE_TASK {title or id}",
	"DELETE_TASK {title or id}",
	"ADD_EXPENSE {amount, category, description?, date?}",
	"ADD_INCOME {amount, category, description?, date?}",
	"ADD_TRANSACTION {type (income|expense), amount, category, description?, date?}",
	"DELETE_TRANSACTION {description or category or id, amount?}",
	"ADD_BUDGET {name, target_amount, period? (daily|weekly|monthly|yearly)}",
	"UPDATE_BUDGET {name or id, new_name?, target_amount?, current_amount?, period?}",
	"DELETE_BUDGET {name or id}",
	"ADD_SAVINGS_GOAL {name, target_amount, current_amount?}",
	"DEPOSIT_SAVINGS {name or id, amount}",
	"WITHDRAW_SAVINGS {name or id, amount}",
	"DELETE_SAVINGS_GOAL {name or id}",
	"ADD_NOTE {title, content?, tags?, pinned?}",
	"UPDATE_NOTE {title or id, new_title?, content?, tags?}",
	"APPEND_NOTE {title or id, content}",
	"PIN_NOTE {title or id, pinned?}",
	"ARCHIVE_NOTE {title or id, archived?}",
	"DELETE_NOTE {title or id}",
	"ADD_HABIT {habit_name}",
	"COMPLETE_HABIT {habit_name, or \"all\" for every habit}",
	"DELETE_HABIT {habit_name, or \"all\" for every habit}",
	"ADD_INVENTORY {item_name, quantity?, cost?, store?, category?, record_purchase?}",
	"UPDATE_INVENTORY {item_name or id, quantity?, cost?, store?, category?, status? (active|sold|used)}",
	"SELL_INVENTORY {item_name or id, price?}",
	"DELETE_INVENTORY {item_name or id}",
	"ADD_STUDY_SUBJECT {subject, preset?}",
	"ADD_STUDY_CHAPTER {subject, chapter}",
	"ADD_STUDY_PART {subject?, chapter, part}",
	"UPDATE_STUDY_STATUS {subject?, chapter?, part?, status (not-started|in-progress|completed)}",
	"DELETE_STUDY_SUBJECT {subject}",
	"NAVIGATE {route}",
	"GET_SUMMARY {}",
	"ANALYZE_BUDGET {}",
	"CLARIFY {}",
	"CHAT {}",
	"UNKNOWN {} when the request is outside what LifeOS can do",
}

func buildSystemPrompt(persona string) string {
	persona = strings.TrimSpace(persona)
	if persona == "" {
		persona = defaultPersona
	}
	return strings.Join([]string{
		"Role:",
		persona,
		"",
		"Task:",
		"Read the user's message, the conversation so far and the current data snapshot.",
		"Decide which action the user wants and extract its fields.",
		"",
		"Supported Actions:",
		strings.Join(actionGuide, "\n"),
		"",
		"Behavior Rules:",
		behaviorRules(),
		"",
		"Output Contract:",
		outputContract(),
	}, "\n")
}

func behaviorRules() string {
	return strings.Join([]string{
		"1) Use only the actions listed above. Use CHAT for conversation and questions you can answer from the snapshot.",
		"2) Use GET_SUMMARY or ANALYZE_BUDGET when the user asks for an overview or spending analysis, and write the analysis in response_text.",
		"3) If an income or expense lacks a category, or it is unclear whether it is income or an expense, use CLARIFY and ask for the missing detail. Never guess.",
		"4) Refer to existing items by the names shown in the snapshot.",
		"5) Amounts are plain numbers without currency symbols. Dates use YYYY-MM-DD.",
		"6) Keep response_text short and written for the user.",
	}, "\n")
}

func outputContract() string {
	return "Return exactly one JSON object, never an array, with keys action (string), data (object) and response_text (string). " +
		"When the user asks for several changes at once, return the same object with an extra key intents holding a list of " +
		"{action, data, response_text} objects in the order they should run."
}

// buildPromptMessages assembles the model input: instructions, the data
// snapshot, the most recent history and the new message.
func buildPromptMessages(persona, snapshot, message string, history []domain.ChatMessage) []domain.ChatMessage {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: buildSystemPrompt(persona)},
		{Role: domain.RoleSystem, Content: "Current data snapshot:\n" + strings.TrimSpace(snapshot)},
	}

	if len(history) > maxPromptHistory {
		history = history[len(history)-maxPromptHistory:]
	}
	for _, m := range history {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, m)
	}

	return append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})
}
