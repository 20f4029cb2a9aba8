package paramvalid_test

import (
	"testing"

	"github.com/reciperun/kitchen/internal/paramvalid"
	"github.com/reciperun/kitchen/internal/subst"
)

func TestValidateFillsDefaults(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"greeting": {Dtype: "str", Default: "hello"},
	}
	out, err := paramvalid.Validate(schemas, nil, subst.Namespace{}, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["greeting"] != "hello" {
		t.Fatalf("got %#v", out["greeting"])
	}
}

func TestValidateRequiredMissingStrict(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"msg": {Dtype: "str", Required: true},
	}
	_, err := paramvalid.Validate(schemas, nil, subst.Namespace{}, false, nil)
	var svErr *paramvalid.StepValidationError
	if err == nil {
		t.Fatalf("expected StepValidationError")
	}
	if !errorsAs(err, &svErr) {
		t.Fatalf("got %T: %v", err, err)
	}
}

func TestValidateRequiredMissingLoose(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"msg": {Dtype: "str", Required: true},
	}
	out, err := paramvalid.Validate(schemas, nil, subst.Namespace{}, true, nil)
	if err != nil {
		t.Fatalf("loose validation should not raise: %v", err)
	}
	if !subst.IsUnresolved(out["msg"]) {
		t.Fatalf("expected Unresolved placeholder, got %#v", out["msg"])
	}
}

func TestValidateTypeMismatchRecordsInPlaceError(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"count": {Dtype: "int"},
	}
	values := map[string]interface{}{"count": "not-a-number"}
	out, err := paramvalid.Validate(schemas, values, subst.Namespace{}, false, nil)
	if err == nil {
		t.Fatalf("expected StepValidationError for invalid int")
	}
	if !paramvalid.IsError(out["count"]) {
		t.Fatalf("expected in-place Error value, got %#v", out["count"])
	}
}

func TestValidateChoices(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"mode": {Dtype: "str", Choices: []interface{}{"a", "b"}},
	}
	values := map[string]interface{}{"mode": "c"}
	_, err := paramvalid.Validate(schemas, values, subst.Namespace{}, false, nil)
	if err == nil {
		t.Fatalf("expected error for out-of-choices value")
	}
}

func TestValidateSubstitution(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"path": {Dtype: "str"},
	}
	values := map[string]interface{}{"path": "{base}/out"}
	ns := subst.Namespace{"base": "/tmp"}
	out, err := paramvalid.Validate(schemas, values, ns, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["path"] != "/tmp/out" {
		t.Fatalf("got %#v", out["path"])
	}
}

func TestValidateUnresolvedSubstitutionIsNotFatalWhenLoose(t *testing.T) {
	schemas := map[string]paramvalid.Schema{
		"path": {Dtype: "str", Required: true},
	}
	values := map[string]interface{}{"path": "{missing}"}
	out, err := paramvalid.Validate(schemas, values, subst.Namespace{}, true, nil)
	if err != nil {
		t.Fatalf("loose validation should not raise: %v", err)
	}
	if !subst.IsUnresolved(out["path"]) {
		t.Fatalf("expected Unresolved, got %#v", out["path"])
	}
}

func TestSchemaCheckRejectsAliasOnNonStr(t *testing.T) {
	s := paramvalid.Schema{Dtype: "int", Aliases: []string{"step1.x"}}
	if err := s.Check(); err == nil {
		t.Fatalf("expected error for alias on non-str dtype")
	}
}

func TestSchemaPureAliasHandle(t *testing.T) {
	s := paramvalid.Schema{Dtype: "str", Aliases: []string{"step1.x"}}
	if !s.IsPureAliasHandle() {
		t.Fatalf("expected pure alias handle")
	}
	s.Writable = true
	if s.IsPureAliasHandle() {
		t.Fatalf("writable alias schema must not be a pure alias handle")
	}
}

// errorsAs avoids importing "errors" just for As in this file's tests.
func errorsAs(err error, target **paramvalid.StepValidationError) bool {
	if e, ok := err.(*paramvalid.StepValidationError); ok {
		*target = e
		return true
	}
	return false
}
