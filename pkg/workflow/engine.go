// Package workflow implements the revisioned-entity state machine: the
// transitions a CulturalEntity moves through between draft and accepted,
// plus the audit and side-effect behavior attached to each transition.
// Persistence and in-transaction invariants live in the stor layer; the
// engine enforces who may perform which transition and publishes events
// once a transition commits.
package workflow

import (
	"encoding/json"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	pkgerrors "github.com/pkg/errors"
)

type Engine struct {
	entityStor stor.EntityStor
	events     EventSink

	// When true any authenticated user may append revisions to an entity,
	// matching collaborative editing setups. The default restricts
	// revisions to the entity's contributor.
	collaborativeRevisions bool
}

type Option func(*Engine)

func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		e.events = sink
	}
}

func WithCollaborativeRevisions(allowed bool) Option {
	return func(e *Engine) {
		e.collaborativeRevisions = allowed
	}
}

func NewEngine(entityStor stor.EntityStor, opts ...Option) *Engine {
	e := &Engine{entityStor: entityStor}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateEntity creates a draft entity owned by contributor together with
// revision 1 holding the submitted form data.
func (e *Engine) CreateEntity(contributor *hgmodel.User, name, description string, category hgmodel.EntityCategory, data json.RawMessage) (*hgmodel.CulturalEntity, error) {
	if name == "" {
		return nil, pkgerrors.Wrap(ErrInvalidInput, "name is required")
	}

	if !category.IsValid() {
		return nil, pkgerrors.Wrapf(ErrInvalidInput, "unknown category %q", category)
	}

	entity := &hgmodel.CulturalEntity{
		Name:          name,
		Description:   description,
		Category:      category,
		ContributorID: contributor.ID,
	}

	created, err := e.entityStor.CreateEntityWithRevision(entity, data)
	if err != nil {
		return nil, err
	}

	e.publish(Event{Type: EventEntityCreated, Entity: created, Actor: contributor})

	return created, nil
}

// SubmitForReview moves a draft entity into the contribution queue. Only
// the contributor may submit their own entity.
func (e *Engine) SubmitForReview(entity *hgmodel.CulturalEntity, caller *hgmodel.User) (*hgmodel.CulturalEntity, error) {
	if entity.ContributorID != caller.ID {
		return nil, ErrNotContributor
	}

	updated, err := e.entityStor.SubmitEntityForReview(entity, caller)
	if err != nil {
		return nil, err
	}

	e.publish(Event{Type: EventSubmitted, Entity: updated, Actor: caller})

	return updated, nil
}

// Accept publishes the entity's latest revision. Editor role required.
func (e *Engine) Accept(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error) {
	if !editor.IsEditor {
		return nil, ErrNotEditor
	}

	updated, err := e.entityStor.AcceptEntity(entity, editor, comment)
	if err != nil {
		return nil, err
	}

	e.publish(Event{Type: EventAccepted, Entity: updated, Actor: editor, Comment: comment})

	return updated, nil
}

// Reject marks the entity rejected without touching its published
// revision. Editor role required; the comment tells the contributor what
// to fix.
func (e *Engine) Reject(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error) {
	if !editor.IsEditor {
		return nil, ErrNotEditor
	}

	updated, err := e.entityStor.RejectEntity(entity, editor, comment)
	if err != nil {
		return nil, err
	}

	e.publish(Event{Type: EventRejected, Entity: updated, Actor: editor, Comment: comment})

	return updated, nil
}

// CreateRevision appends a new snapshot of the entity's form data and moves
// the entity to pending_revision.
func (e *Engine) CreateRevision(entity *hgmodel.CulturalEntity, caller *hgmodel.User, data json.RawMessage) (*hgmodel.Revision, error) {
	if !e.collaborativeRevisions && entity.ContributorID != caller.ID {
		return nil, ErrNotContributor
	}

	revision, err := e.entityStor.CreateEntityRevision(entity, caller, data)
	if err != nil {
		return nil, err
	}

	e.publish(Event{Type: EventRevised, Entity: entity, Actor: caller})

	return revision, nil
}

func (e *Engine) publish(event Event) {
	if e.events == nil {
		return
	}

	e.events.Publish(event)
}
