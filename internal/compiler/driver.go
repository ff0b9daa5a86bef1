package compiler

import "github.com/pkg/errors"

// Pipeline is the ordered stage table a Context runs against. It is kept
// separate from Context so a driver can swap in a custom table (e.g. the
// interactive shell overlaying a reduced set) without mutating the context.
type Pipeline struct {
	stages []*Stage
}

// NewPipeline wraps stages in run order.
func NewPipeline(stages []*Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Names returns the stage table's short IDs in order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.ID
	}
	return out
}

// StageAt returns the stage at index i, or nil past the end.
func (p *Pipeline) StageAt(i int) *Stage {
	if i < 0 || i >= len(p.stages) {
		return nil
	}
	return p.stages[i]
}

// step runs exactly the stage at ctx.AtStage and advances it on OK.
func (p *Pipeline) step(ctx *Context, interactive bool) (Result, error) {
	s := p.StageAt(ctx.AtStage)
	if s == nil {
		return AtEnd, nil
	}
	if !s.runsIn(interactive) {
		ctx.AtStage++
		return OK, nil
	}
	res, err := s.Fn(ctx)
	if err != nil {
		return res, errors.Wrapf(err, "stage %q", s.ID)
	}
	if res == OK {
		ctx.AtStage++
	}
	return res, nil
}

// Step runs a single stage (the interactive shell's "step" command).
func (p *Pipeline) Step(ctx *Context) (Result, error) {
	return p.step(ctx, true)
}

// RunTo runs stages until ctx.AtStage reaches stopAt (exclusive of stopAt
// itself, i.e. stopAt is the first stage NOT run) or the table is exhausted
// or a non-OK result is returned.
func (p *Pipeline) RunTo(ctx *Context, stopAt int) (Result, error) {
	for ctx.AtStage < stopAt {
		res, err := p.step(ctx, true)
		if err != nil || res != OK {
			return res, err
		}
	}
	return OK, nil
}

// Run drives the context through every remaining stage in interactive
// mode (the shell's "run" command): stops at the first non-OK result or
// end of table.
func (p *Pipeline) Run(ctx *Context) (Result, error) {
	for {
		res, err := p.step(ctx, true)
		if err != nil {
			return res, err
		}
		switch res {
		case OK:
			continue
		case AtEnd:
			return AtEnd, nil
		default:
			return res, nil
		}
	}
}

// RunBatch drives the context through the whole stage table non-interactively
// (the default, non-shell mode): every stage flagged FlagNoAuto is skipped,
// and the run halts on the first stage reporting anything other than OK.
func (p *Pipeline) RunBatch(ctx *Context) (Result, error) {
	for {
		s := p.StageAt(ctx.AtStage)
		if s == nil {
			return AtEnd, nil
		}
		if !s.runsIn(false) {
			ctx.AtStage++
			continue
		}
		res, err := s.Fn(ctx)
		if err != nil {
			return res, errors.Wrapf(err, "stage %q", s.ID)
		}
		if res != OK {
			return res, nil
		}
		ctx.AtStage++
	}
}
