package compiler

import (
	"github.com/pkg/errors"

	"github.com/viant/nocc/internal/diagnostic"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/pass"
)

func stageLoadExtensions(ctx *Context) (Result, error) {
	if ctx.Hooks.SetupLanguage == nil {
		return OK, nil
	}
	if err := ctx.Hooks.SetupLanguage(); err != nil {
		return DoExit, errors.Wrap(err, "compiler: load extensions")
	}
	return OK, nil
}

func stageDumpExtensions(ctx *Context) (Result, error) {
	return runOptionalDump(ctx.Hooks.DumpExtensions)
}

func stageDumpRegFcns(ctx *Context) (Result, error) {
	return runOptionalDump(ctx.Hooks.DumpRegFcns)
}

func stageCheckCompile(ctx *Context) (Result, error) {
	if len(ctx.SourceFiles) == 0 {
		return ExitComp, nil
	}
	return OK, nil
}

func stageInitExtensions(ctx *Context) (Result, error) { return OK, nil }

func stageInitTreeRewriting(ctx *Context) (Result, error) { return OK, nil }

func stageInitTraces(ctx *Context) (Result, error) { return OK, nil }

func stageFindTarget(ctx *Context) (Result, error) {
	if ctx.TargetSpec == "" {
		return OK, nil
	}
	t, err := ParseTarget(ctx.TargetSpec)
	if err != nil {
		return ErrExit, err
	}
	ctx.Target = &t
	return OK, nil
}

func stageHelpTarget(ctx *Context) (Result, error) { return OK, nil }

func stageOpenLexers(ctx *Context) (Result, error) {
	if ctx.Hooks.NewLexer == nil {
		return OK, nil
	}
	for _, path := range ctx.SourceFiles {
		lexer, err := ctx.Hooks.NewLexer(path)
		if err != nil {
			return ErrExit, errors.Wrapf(err, "compiler: opening lexer for %s", path)
		}
		ctx.SrcLexers = append(ctx.SrcLexers, parseframe.NewLexFile(path, lexer))
	}
	return OK, nil
}

func stageMaybeStopTokenise(ctx *Context) (Result, error) {
	if ctx.StopName == "slex" {
		return CleanExit, nil
	}
	return OK, nil
}

func stageParse(ctx *Context) (Result, error) {
	if ctx.Hooks.Walk == nil || ctx.Hooks.EntryRule == "" {
		return OK, nil
	}
	for _, lf := range ctx.SrcLexers {
		p := parseframe.NewParser(lf)
		root, err := ctx.Hooks.Walk(ctx.Hooks.EntryRule, p)
		if err != nil {
			lf.Errors.Errorf(diagnostic.Parse, lf.Origin(0, 0), "%s", err)
			ctx.Errored++
			continue
		}
		ctx.SrcTrees = append(ctx.SrcTrees, root)
	}
	return OK, nil
}

func stageMaybeStopParse(ctx *Context) (Result, error) {
	if ctx.StopName == "sparse" {
		return CleanExit, nil
	}
	return OK, nil
}

func stageCheckParseError(ctx *Context) (Result, error) {
	if ctx.HasErrors() {
		return ErrExit, nil
	}
	return OK, nil
}

func stageDumpNodeTypes(ctx *Context) (Result, error) {
	return runOptionalDump(ctx.Hooks.DumpNodeTypes)
}

func stageDumpShortNodeTypes(ctx *Context) (Result, error) {
	return runOptionalDump(ctx.Hooks.DumpShortNodeTypes)
}

func stageDumpShortNodeTags(ctx *Context) (Result, error) {
	return runOptionalDump(ctx.Hooks.DumpShortNodeTags)
}

func stageFrontEndOpts(ctx *Context) (Result, error) { return OK, nil }

func stageFrontEndPasses(ctx *Context) (Result, error) {
	return runPipeline(ctx, ctx.Hooks.FEPipeline)
}

func stageInitTarget(ctx *Context) (Result, error) { return OK, nil }

func stageBackEndOpts(ctx *Context) (Result, error) { return OK, nil }

func stageBackEndPasses(ctx *Context) (Result, error) {
	return runPipeline(ctx, ctx.Hooks.BEPipeline)
}

func runOptionalDump(fn func() error) (Result, error) {
	if fn == nil {
		return OK, nil
	}
	if err := fn(); err != nil {
		return DoExit, err
	}
	return OK, nil
}

func runPipeline(ctx *Context, p *pass.Pipeline) (Result, error) {
	if p == nil {
		return OK, nil
	}
	for i := range ctx.SrcTrees {
		args := &pass.Args{TreePtr: &ctx.SrcTrees[i]}
		if ctx.Target != nil {
			args.Target = ctx.Target
		}
		if err := p.Run(args, ctx.StopAt, nil); err != nil {
			return ErrExit, err
		}
	}
	return OK, nil
}
