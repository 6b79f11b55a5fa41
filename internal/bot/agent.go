package bot

import (
	"collapsization/internal/app"
)

// Agent represents an autonomous player occupying one match role.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Plan asks the agent for its next action given its current role view.
// A zero Intent means the agent is waiting on another player.
func (a *Agent) Plan(view app.RoleView) (Intent, error) {
	return a.Strategy.PlanIntent(view)
}
