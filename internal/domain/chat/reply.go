package chat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rpggio/threadhub/internal/domain/identity"
)

var (
	greetingWords   = map[string]bool{"hello": true, "hi": true, "hey": true, "greetings": true, "howdy": true}
	greetingPhrases = []string{"good morning", "good afternoon", "good evening"}
	thanksWords     = map[string]bool{"thank": true, "thanks": true, "thx": true, "ty": true, "appreciate": true, "appreciated": true}
)

func welcomeMessage(name, description string, persona identity.Participant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to %s! I'm %s.", name, persona.DisplayName)
	if description = strings.TrimSpace(description); description != "" {
		fmt.Fprintf(&b, "\nThis thread is about: %s", description)
	}
	b.WriteString("\nSend a message whenever you're ready to get started.")
	return b.String()
}

// composeReply picks the agent's answer to trigger. Greetings and thanks win
// over the persona's canned response.
func composeReply(agentType identity.AgentType, persona identity.Participant, projectID, trigger string) string {
	words := tokenize(trigger)
	lower := strings.ToLower(trigger)

	if hasAny(words, greetingWords) || containsAny(lower, greetingPhrases) {
		return fmt.Sprintf("Hello! I'm %s, here to help with %s. What would you like to work on?",
			persona.DisplayName, projectID)
	}
	if hasAny(words, thanksWords) {
		return fmt.Sprintf("You're welcome! Let me know if there's anything else I can do for %s.", projectID)
	}

	switch agentType {
	case identity.AgentTask:
		return fmt.Sprintf("I've reviewed the tasks for %s.\n"+
			"- 3 tasks are in progress\n"+
			"- 2 tasks are blocked on review\n"+
			"Should I reprioritize the backlog or assign the blocked items?", projectID)
	case identity.AgentFeature:
		return fmt.Sprintf("Here's my analysis of that feature for %s:\n"+
			"- It touches the core user workflow\n"+
			"- It depends on two existing requirements\n"+
			"Want me to draft acceptance criteria?", projectID)
	case identity.AgentDocumentation:
		return fmt.Sprintf("I can document that for %s.\n"+
			"- Overview and goals\n"+
			"- Setup and usage\n"+
			"- Open questions\n"+
			"Which section should I write first?", projectID)
	case identity.AgentDetail:
		return fmt.Sprintf("Let's dig into the details for %s.\n"+
			"- Edge cases worth covering\n"+
			"- Data the change relies on\n"+
			"Which area should I expand on?", projectID)
	case identity.AgentPlanner:
		return fmt.Sprintf("Here's a proposed timeline for %s:\n"+
			"1. Discovery and scoping\n"+
			"2. Build and review\n"+
			"3. Release and follow-up\n"+
			"Shall I break these phases into milestones?", projectID)
	default:
		return fmt.Sprintf("Got it. I'll keep that in mind for %s.\n"+
			"I can hand this off to a specialist agent or track it here.\n"+
			"How would you like to proceed?", projectID)
	}
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasAny(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
