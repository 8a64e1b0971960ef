package identity

// Registry is the fixed, read-only set of known participants.
type Registry struct {
	user   Participant
	agents []Participant
	byType map[AgentType]Participant
}

// NewRegistry builds a registry from a human user and a set of agent personas.
// Personas without a valid agent type, or repeating one, are ignored.
func NewRegistry(user Participant, agents ...Participant) *Registry {
	user.IsAgent = false
	user.AgentType = ""

	r := &Registry{
		user:   user,
		byType: make(map[AgentType]Participant, len(agents)),
	}
	for _, agent := range agents {
		if !agent.AgentType.Valid() {
			continue
		}
		if _, dup := r.byType[agent.AgentType]; dup {
			continue
		}
		agent.IsAgent = true
		r.byType[agent.AgentType] = agent
		r.agents = append(r.agents, agent)
	}
	return r
}

// DefaultRegistry returns the built-in user and the six dashboard personas.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Participant{ID: "user-1", DisplayName: "You", AvatarRef: "avatars/user.png"},
		Participant{ID: "agent-main", DisplayName: "Project Assistant", AvatarRef: "avatars/main.png", AgentType: AgentMain},
		Participant{ID: "agent-task", DisplayName: "Task Manager", AvatarRef: "avatars/task.png", AgentType: AgentTask},
		Participant{ID: "agent-feature", DisplayName: "Feature Analyst", AvatarRef: "avatars/feature.png", AgentType: AgentFeature},
		Participant{ID: "agent-documentation", DisplayName: "Documentation Writer", AvatarRef: "avatars/documentation.png", AgentType: AgentDocumentation},
		Participant{ID: "agent-detail", DisplayName: "Detail Specialist", AvatarRef: "avatars/detail.png", AgentType: AgentDetail},
		Participant{ID: "agent-planner", DisplayName: "Project Planner", AvatarRef: "avatars/planner.png", AgentType: AgentPlanner},
	)
}

// User returns the human participant.
func (r *Registry) User() Participant {
	return r.user
}

// Agents returns every persona in registration order.
func (r *Registry) Agents() []Participant {
	out := make([]Participant, len(r.agents))
	copy(out, r.agents)
	return out
}

// Agent returns the persona for t, if registered.
func (r *Registry) Agent(t AgentType) (Participant, bool) {
	p, ok := r.byType[t]
	return p, ok
}

// AgentOrMain resolves t to its persona, falling back to the main persona.
func (r *Registry) AgentOrMain(t AgentType) Participant {
	if p, ok := r.byType[t]; ok {
		return p
	}
	if p, ok := r.byType[AgentMain]; ok {
		return p
	}
	// A registry without a main persona still needs an author for agent messages.
	return Participant{ID: "agent-main", DisplayName: "Assistant", IsAgent: true, AgentType: AgentMain}
}
