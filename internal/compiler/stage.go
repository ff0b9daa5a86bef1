// Package compiler implements the orchestrator (§4.H): a stage table
// driving source files from extension-load through lexing, parsing and
// the front-/back-end pass pipelines, plus the compile context every
// stage function is threaded through.
package compiler

// Flags marks a stage's eligibility, mirroring the original's CST_* bits.
type Flags uint32

const (
	// FlagNone marks a stage that runs in every mode.
	FlagNone Flags = 0
	// FlagNoInteractive stages are skipped by the interactive "step"/"run" driver.
	FlagNoInteractive Flags = 1 << iota
	// FlagNoAuto stages are skipped by RunBatch's fully-automatic mode.
	FlagNoAuto
)

// Result is a stage function's outcome (CSTR_*).
type Result int

const (
	// OK advances the stage cursor and continues.
	OK Result = iota
	// ExitComp stops the whole compile run immediately, successfully.
	ExitComp
	// ErrExit stops the run unsuccessfully.
	ErrExit
	// CleanExit stops the run without an error.
	CleanExit
	// AtEnd signals the stage table's final entry has been reached.
	AtEnd
	// DoExit is a hard, unsuccessful stop.
	DoExit
)

// Stage (cstage_t) is one named, ordered entry in the compile sequence.
type Stage struct {
	ID          string
	Name        string
	Description string
	Flags       Flags
	Fn          func(ctx *Context) (Result, error)
}

func (s *Stage) runsIn(interactive bool) bool {
	if interactive {
		return s.Flags&FlagNoInteractive == 0
	}
	return s.Flags&FlagNoAuto == 0
}

// DefaultStages builds the stable stage table (§4.H), wired to ctx.Hooks.
// A hook left nil degrades its stage to a no-op OK, so a caller can supply
// only the hooks its front end actually needs.
func DefaultStages() []*Stage {
	return []*Stage{
		{ID: "lext", Name: "load extensions", Fn: stageLoadExtensions},
		{ID: "dext", Name: "dump extensions", Fn: stageDumpExtensions},
		{ID: "drfcn", Name: "dump registered functions", Fn: stageDumpRegFcns},
		{ID: "cchk", Name: "check for compile", Fn: stageCheckCompile},
		{ID: "iext", Name: "initialise extensions", Fn: stageInitExtensions},
		{ID: "itrw", Name: "initialise tree-rewriting", Fn: stageInitTreeRewriting},
		{ID: "itrace", Name: "initialise traces", Fn: stageInitTraces},
		{ID: "ftarg", Name: "find target", Fn: stageFindTarget},
		{ID: "htarg", Name: "help with target", Fn: stageHelpTarget},

		{ID: "olex", Name: "open lexers", Fn: stageOpenLexers},
		{ID: "slex", Name: "stop after tokenise", Flags: FlagNoInteractive, Fn: stageMaybeStopTokenise},
		{ID: "parse", Name: "parse", Fn: stageParse},
		{ID: "sparse", Name: "stop after parse", Flags: FlagNoInteractive, Fn: stageMaybeStopParse},
		{ID: "cparse", Name: "check parse error", Fn: stageCheckParseError},
		{ID: "dnt", Name: "dump node types", Fn: stageDumpNodeTypes},
		{ID: "dsnt", Name: "dump node types (short)", Fn: stageDumpShortNodeTypes},
		{ID: "dsntag", Name: "dump node tags (short)", Fn: stageDumpShortNodeTags},

		{ID: "feopt", Name: "process left-over options", Fn: stageFrontEndOpts},
		{ID: "feps", Name: "front-end compiler passes", Fn: stageFrontEndPasses},
		{ID: "itarg", Name: "initialise target", Fn: stageInitTarget},
		{ID: "beopt", Name: "process left-over options", Fn: stageBackEndOpts},
		{ID: "beps", Name: "back-end compiler passes", Fn: stageBackEndPasses},
	}
}
