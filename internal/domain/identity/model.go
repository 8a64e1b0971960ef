package identity

// AgentType tags an agent persona with the specialised role it plays.
type AgentType string

const (
	AgentMain          AgentType = "main"
	AgentTask          AgentType = "task"
	AgentFeature       AgentType = "feature"
	AgentDocumentation AgentType = "documentation"
	AgentDetail        AgentType = "detail"
	AgentPlanner       AgentType = "planner"
)

// Valid reports whether t names a known persona role.
func (t AgentType) Valid() bool {
	switch t {
	case AgentMain, AgentTask, AgentFeature, AgentDocumentation, AgentDetail, AgentPlanner:
		return true
	}
	return false
}

// Participant is a conversation member. Exactly one participant is human.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	IsAgent     bool      `json:"is_agent"`
	AgentType   AgentType `json:"agent_type,omitempty"`
}
