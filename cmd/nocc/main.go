// Command nocc drives the DFA-based compiler kernel (§4.H) over one or
// more source files: load a front end, lex, parse, run the front-/back-end
// pass pipelines, and optionally dump the resulting tree.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/viant/nocc/internal/compiler"
	"github.com/viant/nocc/internal/diagnostic"
	"github.com/viant/nocc/internal/dump"
	"github.com/viant/nocc/internal/interactive"
	"github.com/viant/nocc/internal/langdef"
	"github.com/viant/nocc/internal/specfile"
	"github.com/viant/nocc/internal/testlang"
)

// Global flags, following the teacher CLI's "one package-level var block"
// idiom rather than a config struct threaded through every function.
var (
	verbose         bool
	specsFile       string
	targetSpec      string
	interactiveMode bool
	treecheck       bool
	notMainModule   bool
	dumpTree        string
	dumpStree       string
	dumpSpecs       bool
	dumpExtns       bool
	dumpLexers      bool
	dumpTargets     bool
	dumpNodeTypes   bool
	dumpChooks      bool
	dumpTokensTo    string
	dumpDFAs        bool
	dumpGrammar     bool
	noAliasCheck    bool
	noUsageCheck    bool
	noDefCheck      bool
	noTracesCheck   bool
	noMobilityCheck bool

	// stopName holds a `--stop-<passname>` option's passname, extracted
	// before cobra parses (§6: the flag's own name carries the value, so
	// it cannot be a normal registered flag).
	stopName string
)

// extensions lists the source-file extensions this build's front end
// lexes. Only `.foo` (internal/testlang) is wired in this kernel build —
// a real distribution would register one entry per shipped language.
var extensions = []string{".foo"}

// frontEnd builds a fresh environment and its compiler.Hooks together, so
// callers needing post-setup registry introspection (the --dump-* admin
// flags) and callers only needing to compile share one construction path.
func frontEnd() (*langdef.Environment, compiler.Hooks) {
	env := testlang.NewEnvironment()
	return env, testlang.CompilerHooks(env)
}

var rootCmd = &cobra.Command{
	Use:   "nocc [source files...]",
	Short: "nocc drives the DFA-based compiler kernel over one or more source files",
	RunE:  runCompile,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&verbose, "verbose", "v", false, "accepted; has no effect in this build")
	f.StringVar(&specsFile, "specs-file", "", "load compiler configuration from an XML specs file")
	f.StringVar(&targetSpec, "target", "", "target triple <cpu>-<vendor>-<os>")
	f.BoolVar(&interactiveMode, "interactive", false, "step the compile pipeline interactively")
	f.BoolVar(&treecheck, "treecheck", false, "accepted; has no effect in this build (no tree-checker runs)")
	f.BoolVar(&notMainModule, "not-main-module", false, "compile as part of another module's tree rather than the main module")

	f.StringVar(&dumpTree, "dump-tree", "", "dump the parse tree as XML, optionally to path (default stdout)")
	f.Lookup("dump-tree").NoOptDefVal = "-"
	f.StringVar(&dumpStree, "dump-stree", "", "dump the parse tree as an s-expression, optionally to path (default stdout)")
	f.Lookup("dump-stree").NoOptDefVal = "-"

	f.BoolVar(&dumpSpecs, "dump-specs", false, "dump the loaded specs file and exit")
	f.BoolVar(&dumpExtns, "dump-extns", false, "dump the registered source-file extensions and exit")
	f.BoolVar(&dumpLexers, "dump-lexers", false, "dump the registered front-end lexers and exit")
	f.BoolVar(&dumpTargets, "dump-targets", false, "dump the resolved compile target and exit")
	f.BoolVar(&dumpNodeTypes, "dump-node-types", false, "dump the registered node-types and exit")
	f.BoolVar(&dumpChooks, "dump-chooks", false, "dump the registered compiler hooks and exit")
	f.StringVar(&dumpTokensTo, "dump-tokens-to", "", "accepted; has no effect in this build (no token dump is written)")
	f.BoolVar(&dumpDFAs, "dump-dfas", false, "dump the compiled non-terminal names and exit")
	f.BoolVar(&dumpGrammar, "dump-grammar", false, "dump the compiled grammar (alias for --dump-dfas) and exit")

	f.BoolVar(&noAliasCheck, "no-alias-check", false, "disable the alias-check semantic pass")
	f.BoolVar(&noUsageCheck, "no-usage-check", false, "disable the usage-check semantic pass")
	f.BoolVar(&noDefCheck, "no-def-check", false, "disable the def-check semantic pass")
	f.BoolVar(&noTracesCheck, "no-traces-check", false, "disable the traces-check semantic pass")
	f.BoolVar(&noMobilityCheck, "no-mobility-check", false, "disable the mobility-check semantic pass")
}

var exitCode int

func main() {
	var args []string
	stopName, args = extractStopFlag(os.Args[1:])
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("nocc: %v", err))
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// extractStopFlag pulls a `--stop-<passname>` option (§6) out of args
// before cobra sees them: unlike every other reserved option, the pass
// name is encoded in the flag's own name, which cobra's static flag
// registration cannot express.
func extractStopFlag(args []string) (string, []string) {
	var name string
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "--stop-") && !strings.Contains(a, "=") {
			name = strings.TrimPrefix(a, "--stop-")
			continue
		}
		out = append(out, a)
	}
	return name, out
}

// detectNotMainModule reports whether src's enclosing go.mod declares a
// different module than the current working directory's, i.e. src is
// being compiled as part of another module's tree rather than the main
// module. Detection failures (no go.mod found, unparseable file) are not
// fatal here: they simply leave --not-main-module at its explicit or
// default value.
func detectNotMainModule(src string) bool {
	mainModule, _, err := compiler.ModuleRoot(".")
	if err != nil {
		return false
	}
	srcModule, _, err := compiler.ModuleRoot(src)
	if err != nil {
		return false
	}
	return srcModule != mainModule
}

// stopPointFor resolves name against whichever of the front-/back-end
// pass pipelines registered it, for `--stop-<passname>` (§6).
func stopPointFor(hooks compiler.Hooks, name string) (int, bool) {
	if hooks.FEPipeline != nil {
		if sp, ok := hooks.FEPipeline.StopPointFor(name); ok {
			return sp, true
		}
	}
	if hooks.BEPipeline != nil {
		if sp, ok := hooks.BEPipeline.StopPointFor(name); ok {
			return sp, true
		}
	}
	return 0, false
}

func hasRegisteredExtension(path string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func runCompile(cmd *cobra.Command, args []string) error {
	switch {
	case dumpExtns || dumpLexers:
		return runAdminDump(dumpRegisteredExtensions)
	case dumpSpecs:
		return runAdminDump(dumpLoadedSpecs)
	case dumpTargets:
		return runAdminDump(dumpResolvedTarget)
	}

	if dumpNodeTypes || dumpChooks || dumpDFAs || dumpGrammar {
		env, hooks := frontEnd()
		if err := hooks.SetupLanguage(); err != nil {
			return errors.Wrap(err, "nocc: setting up language")
		}
		switch {
		case dumpNodeTypes:
			return runAdminDump(func() string { return strings.Join(env.Tree.TypeNames(), "\n") })
		case dumpChooks:
			return runAdminDump(func() string { return strings.Join(env.Tree.ChookNames(), "\n") })
		case dumpDFAs, dumpGrammar:
			return runAdminDump(func() string { return strings.Join(env.DFA.Names(), "\n") })
		}
	}

	if len(args) == 0 {
		return cmd.Help()
	}
	if !hasRegisteredExtension(args[0]) {
		return errors.Errorf("nocc: no front end registered for %s", args[0])
	}
	_, hooks := frontEnd()

	ctx := compiler.NewContext(args)
	ctx.Hooks = hooks
	ctx.TargetSpec = targetSpec
	ctx.NotMainModule = notMainModule
	if !cmd.Flags().Changed("not-main-module") {
		ctx.NotMainModule = detectNotMainModule(args[0])
	}

	if specsFile != "" {
		spec, err := specfile.Load(context.Background(), afs.New(), specsFile, &ctx.Diag)
		if err != nil {
			return errors.Wrapf(err, "nocc: loading specs file %s", specsFile)
		}
		if ctx.TargetSpec == "" {
			ctx.TargetSpec = spec.Target
		}
	}

	if stopName != "" {
		ctx.StopName = stopName
		if sp, ok := stopPointFor(hooks, stopName); ok {
			ctx.StopAt = sp
		}
	}

	for name, disabled := range map[string]bool{
		"alias-check":    noAliasCheck,
		"usage-check":    noUsageCheck,
		"def-check":      noDefCheck,
		"traces-check":   noTracesCheck,
		"mobility-check": noMobilityCheck,
	} {
		if !disabled {
			continue
		}
		if hooks.FEPipeline != nil {
			hooks.FEPipeline.Disable(name)
		}
		if hooks.BEPipeline != nil {
			hooks.BEPipeline.Disable(name)
		}
	}

	pipeline := compiler.NewPipeline(compiler.DefaultStages())

	var res compiler.Result
	if interactiveMode {
		model := interactive.New(pipeline, ctx)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return errors.Wrap(err, "nocc: interactive session")
		}
	} else {
		var err error
		res, err = pipeline.RunBatch(ctx)
		if err != nil {
			return err
		}
	}

	reportDiagnostics(ctx)

	if dumpTree != "" || dumpStree != "" {
		if err := emitTreeDumps(ctx); err != nil {
			return err
		}
	}

	exitCode = exitCodeFor(res, ctx)
	return nil
}

func runAdminDump(render func() string) error {
	fmt.Println(render())
	return nil
}

func dumpRegisteredExtensions() string {
	names := make([]string, len(extensions))
	copy(names, extensions)
	sort.Strings(names)
	return strings.Join(names, "\n")
}

func dumpLoadedSpecs() string {
	if specsFile == "" {
		return "no specs file given (--specs-file)"
	}
	spec, err := specfile.Load(context.Background(), afs.New(), specsFile, &diagnostic.Counter{})
	if err != nil {
		return fmt.Sprintf("error loading %s: %v", specsFile, err)
	}
	return fmt.Sprintf("%+v", *spec)
}

func dumpResolvedTarget() string {
	if targetSpec == "" {
		return "no target given (--target=<cpu>-<vendor>-<os>)"
	}
	t, err := compiler.ParseTarget(targetSpec)
	if err != nil {
		return fmt.Sprintf("error parsing target %q: %v", targetSpec, err)
	}
	return t.String()
}

func reportDiagnostics(ctx *compiler.Context) {
	report := func(d diagnostic.Diagnostic) {
		line := d.String()
		switch d.Severity {
		case diagnostic.Warning:
			fmt.Fprintln(os.Stderr, color.YellowString(line))
		case diagnostic.Internal, diagnostic.Fatal:
			fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint(line))
		default:
			fmt.Fprintln(os.Stderr, color.RedString(line))
		}
	}
	for _, d := range ctx.Diag.Log {
		report(d)
	}
	for _, lf := range ctx.SrcLexers {
		for _, d := range lf.Errors.Log {
			report(d)
		}
	}
}

func emitTreeDumps(ctx *compiler.Context) error {
	sources := make([]dump.Source, 0, len(ctx.SrcTrees))
	for i, tr := range ctx.SrcTrees {
		path := "?"
		if i < len(ctx.SourceFiles) {
			path = ctx.SourceFiles[i]
		}
		sources = append(sources, dump.Source{Path: path, Tree: tr})
	}
	if dumpTree != "" {
		if err := writeDump(dumpTree, dump.XML("1", dump.Default(), sources)); err != nil {
			return err
		}
	}
	if dumpStree != "" {
		if err := writeDump(dumpStree, dump.SExpr("1", sources)); err != nil {
			return err
		}
	}
	return nil
}

func writeDump(target, content string) error {
	if target == "-" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}
	return os.WriteFile(target, []byte(content+"\n"), 0o644)
}

func exitCodeFor(res compiler.Result, ctx *compiler.Context) int {
	if ctx.HasErrors() {
		return 1
	}
	switch res {
	case compiler.ErrExit, compiler.DoExit:
		return 1
	default:
		return 0
	}
}
