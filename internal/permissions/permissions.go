package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Action string

const (
	ActionRead    Action = "read"
	ActionPublish Action = "publish"
	ActionArchive Action = "archive"
	ActionManage  Action = "manage"
)

const (
	ResourceContent = "content"
)

const (
	ContentRead    = "content:read"
	ContentPublish = "content:publish"
	ContentArchive = "content:archive"
	ContentManage  = "content:manage"
)

var ErrPermissionDenied = errors.New("permissions: denied")

// Error reports a capability that the acting principal does not hold.
type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// Join builds a capability token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a capability collection supporting resource (`content:*`) and global
// (`*`) wildcards.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, _ := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

// Actor is the acting principal: an identity plus the capability set granted
// by the host's authorization provider. The set is read-only from the
// workflow's perspective.
type Actor struct {
	ID           uuid.UUID
	Capabilities Set
}

// Allowed satisfies Checker so an actor can be stored directly on the context.
func (a Actor) Allowed(permission string) bool {
	return a.Capabilities.Allowed(permission)
}

type contextKey string

const (
	checkerKey contextKey = "publisher.permissions.checker"
	actorKey   contextKey = "publisher.permissions.actor"
)

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPermissions stores a static capability set on the context. An empty set
// is stored as-is so that callers without capabilities are denied rather than
// treated as unchecked.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// WithActor stores the acting principal on the context for permission checks
// and attribution.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, actorKey, actor)
	return WithChecker(ctx, actor)
}

// WithSystemActor grants the context unrestricted capabilities. Reserved for
// internal callers such as the scheduled-job worker.
func WithSystemActor(ctx context.Context) context.Context {
	return WithChecker(ctx, CheckerFunc(func(string) bool { return true }))
}

// ActorFromContext returns the acting principal when one was attached.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	value := ctx.Value(checkerKey)
	if value == nil {
		return nil
	}
	switch typed := value.(type) {
	case Checker:
		return typed
	case []string:
		return NewSet(typed...)
	case map[string]struct{}:
		return Set(typed)
	case map[string]bool:
		set := Set{}
		for key, allowed := range typed {
			if !allowed {
				continue
			}
			if normalized := normalizePermission(key); normalized != "" {
				set[normalized] = struct{}{}
			}
		}
		return set
	default:
		return nil
	}
}

// Allowed reports whether the provided capability is held by the context's
// principal. Contexts without a checker are never allowed; the workflow
// refuses to act on behalf of an unidentified caller.
func Allowed(ctx context.Context, permission string) bool {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return true
	}
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return false
	}
	return checker.Allowed(normalized)
}

// Require enforces a capability requirement, returning an Error that unwraps
// to ErrPermissionDenied when the context's principal does not hold it.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	if Allowed(ctx, normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	trimmed := strings.TrimSpace(permission)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
