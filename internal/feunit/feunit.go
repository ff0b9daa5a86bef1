// Package feunit glues an ordered list of front-end units together,
// driving each through its setup stages (§4.F): init-nodes, register
// reducers, init DFA transitions, post-setup.
package feunit

import "github.com/pkg/errors"

// Unit (feunit_t) is one front-end unit's Go-side setup hooks. A nil hook
// is skipped. EarlyFail mirrors the original's per-unit earlyfail flag:
// when true, this unit's own failure aborts the rest of the units in
// whichever stage is running; when false, the failure is recorded (the
// first one is what callers see) but later units still run.
type Unit struct {
	Ident        string
	EarlyFail    bool
	InitNodes    func() error
	RegReducers  func() error
	InitDFATrans func() error
	PostSetup    func() error
}

func runStage(units []*Unit, fn func(*Unit) error) error {
	var firstErr error
	for _, u := range units {
		if fn == nil {
			continue
		}
		if err := fn(u); err != nil {
			wrapped := errors.Wrapf(err, "feunit %q", u.Ident)
			if firstErr == nil {
				firstErr = wrapped
			}
			if u.EarlyFail {
				return firstErr
			}
		}
	}
	return firstErr
}

// DoInitNodes runs InitNodes across units in order.
func DoInitNodes(units []*Unit) error {
	return runStage(units, func(u *Unit) error {
		if u.InitNodes == nil {
			return nil
		}
		return u.InitNodes()
	})
}

// DoRegReducers runs RegReducers across units in order.
func DoRegReducers(units []*Unit) error {
	return runStage(units, func(u *Unit) error {
		if u.RegReducers == nil {
			return nil
		}
		return u.RegReducers()
	})
}

// DoInitDFATrans runs InitDFATrans across units in order.
func DoInitDFATrans(units []*Unit) error {
	return runStage(units, func(u *Unit) error {
		if u.InitDFATrans == nil {
			return nil
		}
		return u.InitDFATrans()
	})
}

// DoPostSetup runs PostSetup across units in order.
func DoPostSetup(units []*Unit) error {
	return runStage(units, func(u *Unit) error {
		if u.PostSetup == nil {
			return nil
		}
		return u.PostSetup()
	})
}

// SetupLanguage runs every stage in order — init-nodes, reg-reducers,
// init-dfatrans, post-setup — stopping at the first stage that reports an
// error, since each stage depends on the previous one having completed
// (DFA transitions reference node-types init-nodes must have registered).
func SetupLanguage(units []*Unit) error {
	if err := DoInitNodes(units); err != nil {
		return err
	}
	if err := DoRegReducers(units); err != nil {
		return err
	}
	if err := DoInitDFATrans(units); err != nil {
		return err
	}
	return DoPostSetup(units)
}
