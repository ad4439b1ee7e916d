package immutablecheck

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `check that @immutable types only hold immutable fields

A type whose doc comment contains @immutable, or that embeds such a type as
its first struct embedding, must only have unexported fields whose types are
primitive, on the built-in immutable allowlist, or themselves @immutable.
Fields of nested @immutable types are checked too and blamed on the outer type.

A type marked @immutable-type-parameters must constrain every type parameter
to @immutable types.`

var config = DefaultSettings()

// Analyzer is configured through its flags and Configure.
var Analyzer = newAnalyzer(&config)

// NewAnalyzer returns an analyzer with its own settings. Zero fields in s
// take their defaults.
func NewAnalyzer(s Settings) (*analysis.Analyzer, error) {
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return newAnalyzer(&s), nil
}

func newAnalyzer(cfg *Settings) *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name:      "immutablecheck",
		Doc:       doc,
		Run:       func(pass *analysis.Pass) (any, error) { return run(pass, cfg) },
		Requires:  []*analysis.Analyzer{inspect.Analyzer},
		FactTypes: []analysis.Fact{new(markerFact)},
	}
	a.Flags.StringVar(&cfg.Format, "format", cfg.Format, "report format: pretty or plain")
	a.Flags.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum number of nested field types followed from one type")
	a.Flags.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "number of types validated concurrently per package")
	return a
}

// Configure replaces the settings of Analyzer. Flags parsed afterwards still
// override them.
func Configure(s Settings) error {
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return err
	}
	config = s
	SetLogDestination(s.Log)
	return nil
}

// New is the golangci-lint factory for the legacy plugin interface.
func New(conf any) ([]*analysis.Analyzer, error) {
	s, err := decodeSettings(conf)
	if err != nil {
		return nil, err
	}
	a, err := NewAnalyzer(s)
	if err != nil {
		return nil, err
	}
	return []*analysis.Analyzer{a}, nil
}

// check for parser errors, if they exist, skip analysis
func isParserOk(pass *analysis.Pass) bool {
	for _, file := range pass.Files {
		foundBad := false
		ast.Inspect(file, func(n ast.Node) bool {
			switch n.(type) {
			case *ast.BadExpr, *ast.BadDecl, *ast.BadStmt:
				foundBad = true
				return false
			}
			return true
		})
		if foundBad {
			return false
		}
	}
	return true
}

// passCollector orchestrates the passes over one package
type passCollector struct {
	pass     *analysis.Pass
	cfg      *Settings
	inspect  *inspector.Inspector
	declared []*types.TypeName
	marked   map[*types.TypeName]MarkerSet
	model    *goModel
	roots    []*Class
	bag      *Bag
}

func newPassCollector(pass *analysis.Pass, cfg *Settings) *passCollector {
	return &passCollector{
		pass:    pass,
		cfg:     cfg,
		inspect: pass.ResultOf[inspect.Analyzer].(*inspector.Inspector),
		marked:  make(map[*types.TypeName]MarkerSet),
		bag:     &Bag{},
	}
}

func (pc *passCollector) firstPass() {
	pc.collectDeclaredTypes()
}

func (pc *passCollector) secondPass() {
	pc.buildModel()
}

func (pc *passCollector) thirdPass() error {
	return pc.validate()
}

func (pc *passCollector) fourthPass() {
	pc.reportAll()
}

// collectDeclaredTypes records every type declared in the package and the
// markers found in their doc comments, exporting a fact for each marked
// package-level type.
func (pc *passCollector) collectDeclaredTypes() {
	putLog(info, "started collecting declared types", "package", pc.pass.Pkg.Path())

	pc.inspect.Preorder([]ast.Node{(*ast.GenDecl)(nil)}, func(n ast.Node) {
		decl := n.(*ast.GenDecl)
		if decl.Tok != token.TYPE {
			return
		}
		// a marker on the declaration applies to every spec in the group
		declMarkers := markersIn(decl.Doc)
		for _, spec := range decl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			set := declMarkers | markersIn(typeSpec.Doc)

			obj, ok := pc.pass.TypesInfo.Defs[typeSpec.Name].(*types.TypeName)
			if !ok {
				continue
			}
			if obj.IsAlias() {
				if set != 0 {
					putLog(warn, "markers on type aliases are ignored", "alias", typeSpec.Name.Name)
				}
				continue
			}
			pc.declared = append(pc.declared, obj)
			if set == 0 {
				continue
			}
			pc.marked[obj] = set
			if obj.Parent() == pc.pass.Pkg.Scope() {
				pc.pass.ExportObjectFact(obj, &markerFact{Markers: set})
			}
		}
	})

	putLog(info, "finished collecting declared types", "declared", len(pc.declared), "marked", len(pc.marked))
	putLog(dbug, formatMarkedTypes(pc.marked))
}

func (pc *passCollector) buildModel() {
	pc.model = newGoModel(pc.pass, pc.marked)
	pc.roots = make([]*Class, 0, len(pc.declared))
	for _, obj := range pc.declared {
		pc.roots = append(pc.roots, pc.model.classOf(obj))
	}
}

func (pc *passCollector) validate() error {
	putLog(info, "started validation pass", "roots", len(pc.roots), "jobs", pc.cfg.Jobs)

	v := NewValidator(pc.model, pc.cfg.MaxDepth)
	if err := CheckAll(context.Background(), v, pc.roots, pc.bag, pc.cfg.Jobs); err != nil {
		return fmt.Errorf("validating %s: %w", pc.pass.Pkg.Path(), err)
	}

	putLog(info, "finished validation pass", "diagnostics", pc.bag.Len())
	return nil
}

func (pc *passCollector) reportAll() {
	for _, d := range pc.bag.Items() {
		pc.report(d)
	}
}

func run(pass *analysis.Pass, cfg *Settings) (any, error) {
	putLog(info, "=====================================")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !isParserOk(pass) {
		putLog(info, "analysis skipped due to errors in package", "package", pass.Pkg.Path())
		return nil, nil
	}

	collector := newPassCollector(pass, cfg)
	collector.firstPass()
	collector.secondPass()
	if err := collector.thirdPass(); err != nil {
		return nil, err
	}
	collector.fourthPass()

	return nil, nil
}

// markersIn returns the markers named in a doc comment. Markers are whole
// words: "@immutable" and "@immutable-type-parameters".
func markersIn(doc *ast.CommentGroup) MarkerSet {
	var set MarkerSet
	if doc == nil {
		return set
	}
	for _, comment := range doc.List {
		text := strings.TrimPrefix(comment.Text, "//")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		for _, word := range strings.Fields(text) {
			switch strings.TrimRight(word, ".,;:") {
			case "@immutable":
				set = set.With(MarkerImmutable)
			case "@immutable-type-parameters":
				set = set.With(MarkerImmutableTypeParameters)
			}
		}
	}
	return set
}

// format is json like
func formatMarkedTypes(marked map[*types.TypeName]MarkerSet) string {
	names := make([]string, 0, len(marked))
	byName := make(map[string]MarkerSet, len(marked))
	for obj, set := range marked {
		name := canonicalName(obj)
		names = append(names, name)
		byName[name] = set
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString("Marked Types Detected:\n{\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %q: { \"markers\": %q }\n", name, byName[name].String())
	}
	sb.WriteString("}\n")
	return sb.String()
}
