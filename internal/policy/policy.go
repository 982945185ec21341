// Package policy decides who may do what to teams, projects, tasks and comments.
//
// Every rule is a predicate over a Relation, which callers compute fresh from stored
// state on each request.
package policy

import "errors"

// ErrForbidden is returned by Check when the rule denies the action.
var ErrForbidden = errors.New("policy: forbidden")

type Resource string

const (
	Team         Resource = "team"
	Project      Resource = "project"
	PersonalTask Resource = "personal-task"
	ProjectTask  Resource = "project-task"
	Comment      Resource = "comment"
)

type Action string

const (
	View          Action = "view"
	Update        Action = "update"
	Delete        Action = "delete"
	ManageMembers Action = "manage-members"
	CreateProject Action = "create-project"
	AddComment    Action = "comment"
	Attach        Action = "attach"
	Detach        Action = "detach"
)

// Relation describes how the caller stands towards one resource.
type Relation struct {
	IsLeader        bool
	IsMember        bool
	IsCreator       bool
	IsAssignee      bool
	IsProjectLeader bool
	IsProjectMember bool
	IsAuthor        bool
}

// Rule is a permission predicate.
type Rule func(r Relation) bool

func leader(r Relation) bool            { return r.IsLeader }
func leaderOrMember(r Relation) bool    { return r.IsLeader || r.IsMember }
func creator(r Relation) bool           { return r.IsCreator }
func creatorOrAssignee(r Relation) bool { return r.IsCreator || r.IsAssignee }
func author(r Relation) bool            { return r.IsAuthor }

func projectParticipant(r Relation) bool {
	return r.IsCreator || r.IsAssignee || r.IsProjectLeader || r.IsProjectMember
}

func creatorOrProjectLeader(r Relation) bool {
	return r.IsCreator || r.IsProjectLeader
}

var rules = map[Resource]map[Action]Rule{
	Team: {
		View:          leaderOrMember,
		Update:        leader,
		Delete:        leader,
		ManageMembers: leader,
		CreateProject: leaderOrMember,
	},
	Project: {
		View:          leaderOrMember,
		Update:        leader,
		Delete:        leader,
		ManageMembers: leader,
	},
	PersonalTask: {
		View:       creatorOrAssignee,
		Update:     creator,
		Delete:     creator,
		AddComment: creatorOrAssignee,
		Attach:     creatorOrAssignee,
		Detach:     creatorOrAssignee,
	},
	ProjectTask: {
		View:       projectParticipant,
		Update:     projectParticipant,
		Delete:     creatorOrProjectLeader,
		AddComment: projectParticipant,
		Attach:     creatorOrAssignee,
		Detach:     creatorOrAssignee,
	},
	Comment: {
		Update: author,
		Delete: author,
		Detach: author,
	},
}

// Allowed reports whether the relation permits the action. Unknown pairs are denied.
func Allowed(res Resource, action Action, r Relation) bool {
	rule, ok := rules[res][action]
	if !ok {
		return false
	}
	return rule(r)
}

// Check is Allowed as an error.
func Check(res Resource, action Action, r Relation) error {
	if !Allowed(res, action, r) {
		return ErrForbidden
	}
	return nil
}

// TaskResource picks the rule set for a task depending on whether it has a project.
func TaskResource(hasProject bool) Resource {
	if hasProject {
		return ProjectTask
	}
	return PersonalTask
}
