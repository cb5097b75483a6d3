package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// TriggerDiff is the added/removed result of comparing two Trigger sets
// belonging to the same model. Triggers have no separate update form:
// since identity already includes the canonicalized body, any change in
// Execute, Event or Level produces a different identity and therefore
// shows up as a remove plus an add rather than an update.
type TriggerDiff struct {
	Added   []schema.Trigger
	Removed []schema.Trigger
}

// CompareTriggers: identity is (Event, Level, CanonicalExecute(Execute)).
func CompareTriggers(from, to []schema.Trigger) TriggerDiff {
	fromByID := indexTriggers(from)
	toByID := indexTriggers(to)

	var d TriggerDiff
	for id, t := range toByID {
		if _, ok := fromByID[id]; !ok {
			d.Added = append(d.Added, t)
		}
	}
	for id, f := range fromByID {
		if _, ok := toByID[id]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}

	sortTriggers(d.Added)
	sortTriggers(d.Removed)
	return d
}

// PlanTriggers emits CREATE/DROP TRIGGER (function + binding) steps.
func PlanTriggers(d TriggerDiff, schemaName, modelName string) []migration.Step {
	var steps []migration.Step

	for _, trg := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectTrigger,
			Name:        render.TriggerBindingName(modelName, trg),
			SQL:         render.CreateTrigger(schemaName, modelName, trg),
			RollbackSQL: render.DropTrigger(schemaName, modelName, trg),
		})
	}

	for _, trg := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectTrigger,
			Name:        render.TriggerBindingName(modelName, trg),
			SQL:         render.DropTrigger(schemaName, modelName, trg),
			RollbackSQL: render.CreateTrigger(schemaName, modelName, trg),
		})
	}

	return steps
}

func triggerIdentity(trg schema.Trigger) string {
	return trg.Event + "|" + trg.Level + "|" + schema.CanonicalExecute(trg.Execute)
}

func indexTriggers(triggers []schema.Trigger) map[string]schema.Trigger {
	m := make(map[string]schema.Trigger, len(triggers))
	for _, t := range triggers {
		m[triggerIdentity(t)] = t
	}
	return m
}

func sortTriggers(triggers []schema.Trigger) {
	sort.Slice(triggers, func(i, j int) bool { return triggerIdentity(triggers[i]) < triggerIdentity(triggers[j]) })
}
