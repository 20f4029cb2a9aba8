package kitchen

import "testing"

func testSteps() []*Step {
	mk := func(label, cabtype string) *Step {
		return &Step{Label: label, cargo: NewCab(CabDef{
			Name:    cabtype,
			Inputs:  map[string]Schema{"p": {Dtype: "str"}},
			Outputs: map[string]Schema{"o": {Dtype: "str"}},
		})}
	}
	return []*Step{mk("img1", "imager"), mk("img2", "imager"), mk("calib", "calibrator")}
}

func TestResolveTargetRefLiteral(t *testing.T) {
	eps, err := resolveTargetRef("img1.p", testSteps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eps) != 1 || eps[0].step.Label != "img1" || eps[0].ioSide != "inputs" {
		t.Fatalf("unexpected endpoints: %+v", eps)
	}
}

func TestResolveTargetRefGlob(t *testing.T) {
	eps, err := resolveTargetRef("img*.p", testSteps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("expected 2 endpoints matching img*, got %d: %+v", len(eps), eps)
	}
}

func TestResolveTargetRefCabtype(t *testing.T) {
	eps, err := resolveTargetRef("(imager).o", testSteps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("expected 2 endpoints for cabtype imager, got %d: %+v", len(eps), eps)
	}
	for _, ep := range eps {
		if ep.ioSide != "outputs" {
			t.Fatalf("expected output-side endpoint, got %+v", ep)
		}
	}
}

func TestResolveTargetRefUnknownParam(t *testing.T) {
	if _, err := resolveTargetRef("img1.nope", testSteps()); err == nil {
		t.Fatalf("expected error for unknown parameter")
	}
}

func TestResolveTargetRefNoMatch(t *testing.T) {
	if _, err := resolveTargetRef("missing.p", testSteps()); err == nil {
		t.Fatalf("expected error when no step matches")
	}
}
