package authz

import (
	"github.com/doodlesbykumbi/zealot-in-go/pkg/identity"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

// Action is an operation an actor can attempt on an app
type Action string

const (
	ActionIndex   Action = "index"
	ActionShow    Action = "show"
	ActionNew     Action = "new"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Authorizer decides whether an actor may perform an action on an app.
type Authorizer interface {
	// Allowed reports whether actor may perform action on app.
	// actor is nil for guests. app is nil for collection actions
	// (index, new, create).
	Allowed(actor *identity.Identity, action Action, app *model.App) bool
}

// Ensure AppPolicy implements Authorizer
var _ Authorizer = AppPolicy{}

// AppPolicy is the access policy for apps:
//
//   - anyone, guests included, may list and show apps
//   - developers and admins may create and edit apps
//   - admins may destroy any app, developers only apps they are a member of
type AppPolicy struct{}

// Allowed implements Authorizer.
func (AppPolicy) Allowed(actor *identity.Identity, action Action, app *model.App) bool {
	switch action {
	case ActionIndex, ActionShow:
		return true
	case ActionNew, ActionCreate, ActionEdit, ActionUpdate:
		return actor != nil && actor.Role.CanManageApps()
	case ActionDestroy:
		if actor == nil {
			return false
		}
		if actor.IsAdmin() {
			return true
		}
		return actor.Role == model.RoleDeveloper && app != nil && app.HasMember(actor.UserID)
	default:
		return false
	}
}
