package usecase

import (
	"fmt"
	"strings"

	"lifeos/internal/intent"
)

type OutcomeStatus string

const (
	StatusApplied        OutcomeStatus = "applied"
	StatusSkippedNoMatch OutcomeStatus = "skipped_no_match"
	StatusSkippedInvalid OutcomeStatus = "skipped_invalid"
	StatusNoop           OutcomeStatus = "noop"
	StatusUnrecognized   OutcomeStatus = "unrecognized"
	StatusFailed         OutcomeStatus = "failed"
)

// Outcome is what actually happened for one intent.
type Outcome struct {
	Action intent.Action `json:"action"`
	Status OutcomeStatus `json:"status"`
	Target string        `json:"target,omitempty"`
	Count  int           `json:"count,omitempty"`
	Route  string        `json:"route,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

func applied(a intent.Action, target string) Outcome {
	return Outcome{Action: a, Status: StatusApplied, Target: target, Count: 1}
}

func noMatch(a intent.Action, query string) Outcome {
	return Outcome{Action: a, Status: StatusSkippedNoMatch, Target: query}
}

func invalid(a intent.Action, detail string) Outcome {
	return Outcome{Action: a, Status: StatusSkippedInvalid, Detail: detail}
}

func failed(a intent.Action) Outcome {
	return Outcome{Action: a, Status: StatusFailed}
}

// mergeReply builds the assistant reply from the model's text and what the
// dispatcher did. Model text is only used when its intent was applied or
// carried no mutation.
func mergeReply(intents []intent.Intent, outcomes []Outcome) string {
	var lines []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		lines = append(lines, s)
	}

	for i, o := range outcomes {
		text := ""
		if i < len(intents) {
			text = intents[i].ResponseText
		}
		switch o.Status {
		case StatusApplied:
			if text == "" {
				text = fmt.Sprintf("Done: %s%s.", describe(o.Action), targetSuffix(o.Target))
			}
			add(text)
		case StatusNoop:
			if o.Detail != "" {
				add(fmt.Sprintf("Nothing to do for %s%s: %s.", describe(o.Action), targetSuffix(o.Target), o.Detail))
				continue
			}
			add(text)
		case StatusSkippedNoMatch:
			if o.Target == "" {
				add(fmt.Sprintf("I couldn't tell what to %s.", describe(o.Action)))
				continue
			}
			add(fmt.Sprintf("I couldn't find %q, so I didn't %s.", o.Target, describe(o.Action)))
		case StatusSkippedInvalid:
			add(fmt.Sprintf("I need more detail to %s: %s.", describe(o.Action), o.Detail))
		case StatusUnrecognized:
			add(fmt.Sprintf("I don't know how to handle %q yet.", o.Action))
		case StatusFailed:
			add(fmt.Sprintf("Something went wrong while trying to %s, so I stopped there.", describe(o.Action)))
		}
	}
	if len(lines) == 0 {
		return "Okay."
	}
	return strings.Join(lines, "\n")
}

func describe(a intent.Action) string {
	return strings.ToLower(strings.ReplaceAll(string(a), "_", " "))
}

func targetSuffix(target string) string {
	if target == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", target)
}
