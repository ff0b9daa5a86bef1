package feunit

import "testing"

func TestEarlyFailAbortsStage(t *testing.T) {
	var ran []string
	units := []*Unit{
		{Ident: "a", EarlyFail: true, InitNodes: func() error {
			ran = append(ran, "a")
			return errFailing
		}},
		{Ident: "b", InitNodes: func() error {
			ran = append(ran, "b")
			return nil
		}},
	}
	if err := DoInitNodes(units); err == nil {
		t.Fatal("expected an error from the earlyfail unit")
	}
	if len(ran) != 1 || ran[0] != "a" {
		t.Fatalf("expected unit b to be skipped after a's earlyfail failure, ran=%v", ran)
	}
}

func TestNonEarlyFailContinues(t *testing.T) {
	var ran []string
	units := []*Unit{
		{Ident: "a", InitNodes: func() error {
			ran = append(ran, "a")
			return errFailing
		}},
		{Ident: "b", InitNodes: func() error {
			ran = append(ran, "b")
			return nil
		}},
	}
	err := DoInitNodes(units)
	if err == nil {
		t.Fatal("expected the recorded failure to be returned")
	}
	if len(ran) != 2 {
		t.Fatalf("expected both units to run, ran=%v", ran)
	}
}

func TestSetupLanguageRunsStagesInOrder(t *testing.T) {
	var order []string
	u := &Unit{
		Ident: "x",
		InitNodes: func() error {
			order = append(order, "nodes")
			return nil
		},
		RegReducers: func() error {
			order = append(order, "reducers")
			return nil
		},
		InitDFATrans: func() error {
			order = append(order, "dfatrans")
			return nil
		},
		PostSetup: func() error {
			order = append(order, "post")
			return nil
		},
	}
	if err := SetupLanguage([]*Unit{u}); err != nil {
		t.Fatal(err)
	}
	want := []string{"nodes", "reducers", "dfatrans", "post"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestSetupLanguageStopsAtFirstFailingStage(t *testing.T) {
	var order []string
	u := &Unit{
		Ident:     "x",
		EarlyFail: true,
		InitNodes: func() error {
			order = append(order, "nodes")
			return nil
		},
		RegReducers: func() error {
			order = append(order, "reducers")
			return errFailing
		},
		InitDFATrans: func() error {
			order = append(order, "dfatrans")
			return nil
		},
	}
	if err := SetupLanguage([]*Unit{u}); err == nil {
		t.Fatal("expected an error")
	}
	if len(order) != 2 {
		t.Fatalf("expected dfatrans stage to be skipped, ran=%v", order)
	}
}

type failingError string

func (e failingError) Error() string { return string(e) }

const errFailing = failingError("induced failure")
