// Package kitchen is the recipe kitchen: the Cargo/Cab/Recipe/Step data
// model of spec.md §3, the Alias Resolver of §4.5, and the Recipe Executor
// of §4.6.
package kitchen

import "github.com/reciperun/kitchen/internal/paramvalid"

// Schema is spec.md §3's "Parameter schema", reused directly from
// paramvalid since the Parameter Validator and the recipe kitchen share one
// definition of what a parameter looks like.
type Schema = paramvalid.Schema

// AssignBasedOn is a value-keyed dispatch table: when the named Base
// variable equals one of Cases's keys, the corresponding map is merged into
// assign; DEFAULT (if present) applies when no case matches. Grounded in
// the original's assign_based_on / update_assign_based_on (spec.md §4 "4.6
// Recipe Executor" step 5b, supplemented per SPEC_FULL.md §4).
type AssignBasedOn struct {
	Base    string                            `yaml:"base"`
	Cases   map[string]map[string]interface{} `yaml:"cases"`
	Default map[string]interface{}            `yaml:"default,omitempty"`
}

// CabDef is the config-document shape of a cab (spec.md §6).
type CabDef struct {
	Name          string                   `yaml:"name"`
	Inputs        map[string]Schema        `yaml:"inputs,omitempty"`
	Outputs       map[string]Schema        `yaml:"outputs,omitempty"`
	Defaults      map[string]interface{}   `yaml:"defaults,omitempty"`
	Assign        map[string]interface{}   `yaml:"assign,omitempty"`
	AssignBasedOn map[string]AssignBasedOn `yaml:"assign_based_on,omitempty"`
	Command       string                   `yaml:"command"`
	Backend       string                   `yaml:"backend,omitempty"`
}

// ForLoopDef is the config-document shape of a for_loop block.
type ForLoopDef struct {
	Var     string      `yaml:"var"`
	Over    interface{} `yaml:"over"` // string (input name) or []interface{} (literal list)
	Scatter bool        `yaml:"scatter,omitempty"`
}

// StepDef is the config-document shape of one recipe step.
type StepDef struct {
	Label         string                   `yaml:"label"`
	Cab           string                   `yaml:"cab,omitempty"`
	Recipe        *RecipeDef               `yaml:"recipe,omitempty"`
	Params        map[string]interface{}   `yaml:"params,omitempty"`
	Skip          bool                     `yaml:"skip,omitempty"`
	SkipCond      string                   `yaml:"skip_cond,omitempty"`
	BreakCond     string                   `yaml:"break_cond,omitempty"`
	Tags          []string                 `yaml:"tags,omitempty"`
	Assign        map[string]interface{}   `yaml:"assign,omitempty"`
	AssignBasedOn map[string]AssignBasedOn `yaml:"assign_based_on,omitempty"`
	Backend       string                   `yaml:"backend,omitempty"`
}

// RecipeDef is the config-document shape of a recipe (spec.md §6).
type RecipeDef struct {
	Name                string                   `yaml:"name"`
	Inputs              map[string]Schema        `yaml:"inputs,omitempty"`
	Outputs             map[string]Schema        `yaml:"outputs,omitempty"`
	Defaults            map[string]interface{}   `yaml:"defaults,omitempty"`
	Assign              map[string]interface{}   `yaml:"assign,omitempty"`
	AssignBasedOn       map[string]AssignBasedOn `yaml:"assign_based_on,omitempty"`
	Aliases             map[string][]string      `yaml:"aliases,omitempty"`
	Steps               []StepDef                `yaml:"steps,omitempty"`
	ForLoop             *ForLoopDef              `yaml:"for_loop,omitempty"`
	ProtectedFromAssign []string                 `yaml:"protected_from_assign,omitempty"`
	Backend             string                   `yaml:"backend,omitempty"`
}

// Provider is spec.md §1's "config provider" external collaborator: it
// yields named cab definitions for a step's `cab:` reference to bind
// against at finalise.
type Provider interface {
	GetCab(name string) (CabDef, bool)
}
