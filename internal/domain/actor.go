package domain

// ActorRole is the closed set of role classes recorded on a revision.
type ActorRole string

const (
	RoleAdmin       ActorRole = "admin"
	RoleEditor      ActorRole = "editor"
	RoleAuthor      ActorRole = "author"
	RoleContributor ActorRole = "contributor"
	RoleSystem      ActorRole = "system"
)

// SystemActorName is recorded when no actor could be resolved.
const SystemActorName = "System"

// ActorContext identifies whoever triggered a snapshot. It is passed
// explicitly by the caller (the handler layer builds it from gateway-injected
// headers) instead of being read from ambient session state.
type ActorContext struct {
	ID   *uint64
	Name string
	Role string
}

// SystemActor is the fallback identity for unresolvable actors,
// e.g. scheduled jobs and restores triggered without a session.
func SystemActor() ActorContext {
	return ActorContext{Name: SystemActorName, Role: string(RoleSystem)}
}

// IsResolved reports whether the context carries a usable identity.
func (a ActorContext) IsResolved() bool {
	return a.ID != nil || a.Name != ""
}

// NormalizeRole maps arbitrary role input onto the closed role set.
// Unknown values fall back to RoleAuthor.
func NormalizeRole(s string) ActorRole {
	switch ActorRole(s) {
	case RoleAdmin, RoleEditor, RoleAuthor, RoleContributor, RoleSystem:
		return ActorRole(s)
	}
	return RoleAuthor
}
