// Package pycredit statically analyzes submitted Python for honest
// BeautifulSoup usage. It parses the submission with a real Python
// grammar, so comments and string literals can never count as usage
// evidence, and it walks only reachable code: constant-false branches
// and functions nothing calls are decorative and earn nothing.
package pycredit

import (
	"strings"

	"github.com/go-python/gpython/ast"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"
)

// Tier is the gated usage ladder. A tier only holds when every tier
// below it holds too: querying a soup built from a hard-coded literal
// proves nothing about handling the live input.
type Tier int

const (
	TierNone Tier = iota
	// TierImported: the bs4 library was imported in reachable code.
	TierImported
	// TierLiveParse: a BeautifulSoup document was constructed from the
	// injected input (a binding reachable from ARTIFACT), not a
	// literal stand-in.
	TierLiveParse
	// TierQueried: that live document was actually queried.
	TierQueried
)

// LiveInputName is the context binding the prelude injects.
const LiveInputName = "ARTIFACT"

// soupQueryMethods are the accessors that count as querying a parsed
// document.
var soupQueryMethods = map[string]bool{
	"find": true, "find_all": true, "findAll": true,
	"select": true, "select_one": true,
	"get_text": true, "getText": true, "get": true,
	"attrs": true, "text": true, "string": true, "decompose": true,
}

// Analysis reports which tiers a submission demonstrated.
type Analysis struct {
	Tier      Tier
	Imported  bool
	LiveParse bool
	Queried   bool
	// ParseError is set when the submission is not valid Python; the
	// analysis is then empty, never guessed from raw text.
	ParseError string
}

// Analyze parses one submission and walks its reachable code.
func Analyze(code string) Analysis {
	mod, err := parser.ParseString(code, py.ExecMode)
	if err != nil {
		return Analysis{ParseError: err.Error()}
	}
	module, ok := mod.(*ast.Module)
	if !ok {
		return Analysis{ParseError: "not a module"}
	}

	a := newAnalyzer()
	a.walkStmts(module.Body)
	// Functions become reachable when something reachable calls them;
	// iterate to a fixpoint so call chains resolve.
	for {
		name, ok := a.nextPending()
		if !ok {
			break
		}
		if fn := a.funcs[name]; fn != nil {
			a.walkStmts(fn.Body)
		}
	}

	res := Analysis{Imported: a.imported, LiveParse: a.liveParse, Queried: a.queried}
	// Gate the ladder: a later tier never counts without the one below.
	switch {
	case res.Imported && res.LiveParse && res.Queried:
		res.Tier = TierQueried
	case res.Imported && res.LiveParse:
		res.Tier = TierLiveParse
	case res.Imported:
		res.Tier = TierImported
	default:
		res.Tier = TierNone
	}
	return res
}

type analyzer struct {
	imported  bool
	liveParse bool
	queried   bool

	// Name environments. Rebinding removes a name from rival sets.
	bs4Modules map[string]bool // names bound to the bs4 module
	bsCtors    map[string]bool // names bound to the BeautifulSoup constructor
	live       map[string]bool // names carrying the live input
	soupLive   map[string]bool // soups built from live input
	soupDead   map[string]bool // soups built from literal stand-ins

	funcs   map[string]*ast.FunctionDef
	visited map[string]bool
	pending []string
}

func newAnalyzer() *analyzer {
	return &analyzer{
		bs4Modules: map[string]bool{},
		bsCtors:    map[string]bool{},
		live:       map[string]bool{LiveInputName: true},
		soupLive:   map[string]bool{},
		soupDead:   map[string]bool{},
		funcs:      map[string]*ast.FunctionDef{},
		visited:    map[string]bool{},
	}
}

func (a *analyzer) nextPending() (string, bool) {
	for len(a.pending) > 0 {
		name := a.pending[0]
		a.pending = a.pending[1:]
		if !a.visited[name] {
			a.visited[name] = true
			return name, true
		}
	}
	return "", false
}

// ─── Statements ─────────────────────────────────────────────────────────────

func (a *analyzer) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.walkStmt(s)
	}
}

func (a *analyzer) walkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Import:
		for _, alias := range st.Names {
			name := string(alias.Name)
			if name == "bs4" || strings.HasPrefix(name, "bs4.") {
				bound := string(alias.AsName)
				if bound == "" {
					bound = "bs4"
				}
				a.bs4Modules[bound] = true
				a.imported = true
			}
		}
	case *ast.ImportFrom:
		if string(st.Module) == "bs4" {
			a.imported = true
			for _, alias := range st.Names {
				if string(alias.Name) == "BeautifulSoup" {
					bound := string(alias.AsName)
					if bound == "" {
						bound = "BeautifulSoup"
					}
					a.bsCtors[bound] = true
				}
			}
		}
	case *ast.Assign:
		a.walkExpr(st.Value)
		class := a.classify(st.Value)
		for _, target := range st.Targets {
			if name, ok := target.(*ast.Name); ok {
				a.bind(string(name.Id), class)
			}
		}
	case *ast.AugAssign:
		a.walkExpr(st.Value)
	case *ast.ExprStmt:
		a.walkExpr(st.Value)
	case *ast.Return:
		if st.Value != nil {
			a.walkExpr(st.Value)
		}
	case *ast.If:
		switch constTruth(st.Test) {
		case constFalse:
			a.walkStmts(st.Orelse) // body is dead
		case constTrue:
			a.walkStmts(st.Body) // else is dead
		default:
			a.walkExpr(st.Test)
			a.walkStmts(st.Body)
			a.walkStmts(st.Orelse)
		}
	case *ast.While:
		if constTruth(st.Test) == constFalse {
			a.walkStmts(st.Orelse)
			return
		}
		a.walkExpr(st.Test)
		a.walkStmts(st.Body)
		a.walkStmts(st.Orelse)
	case *ast.For:
		a.walkExpr(st.Iter)
		// A loop variable over a live iterable carries live content.
		if name, ok := st.Target.(*ast.Name); ok {
			a.bind(string(name.Id), a.classify(st.Iter))
		}
		a.walkStmts(st.Body)
		a.walkStmts(st.Orelse)
	case *ast.With:
		for _, item := range st.Items {
			a.walkExpr(item.ContextExpr)
		}
		a.walkStmts(st.Body)
	case *ast.Try:
		a.walkStmts(st.Body)
		for _, h := range st.Handlers {
			a.walkStmts(h.Body)
		}
		a.walkStmts(st.Orelse)
		a.walkStmts(st.Finalbody)
	case *ast.FunctionDef:
		// Registered, not walked: the body only counts once something
		// reachable calls it.
		a.funcs[string(st.Name)] = st
	case *ast.ClassDef:
		// Class bodies are treated as decorative for credit purposes.
	}
}

// ─── Expressions ────────────────────────────────────────────────────────────

// walkExpr recurses through an expression, recording imports of soup
// queries and scheduling reachable function calls.
func (a *analyzer) walkExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Call:
		a.classifyCall(ex)
		for _, arg := range ex.Args {
			a.walkExpr(arg)
		}
		for _, kw := range ex.Keywords {
			a.walkExpr(kw.Value)
		}
		a.walkExpr(ex.Func)
	case *ast.Attribute:
		a.noteAttributeQuery(ex)
		a.walkExpr(ex.Value)
	case *ast.BinOp:
		a.walkExpr(ex.Left)
		a.walkExpr(ex.Right)
	case *ast.BoolOp:
		for _, v := range ex.Values {
			a.walkExpr(v)
		}
	case *ast.UnaryOp:
		a.walkExpr(ex.Operand)
	case *ast.Compare:
		a.walkExpr(ex.Left)
		for _, c := range ex.Comparators {
			a.walkExpr(c)
		}
	case *ast.Subscript:
		a.walkExpr(ex.Value)
	case *ast.List:
		for _, el := range ex.Elts {
			a.walkExpr(el)
		}
	case *ast.Tuple:
		for _, el := range ex.Elts {
			a.walkExpr(el)
		}
	case *ast.Dict:
		for _, k := range ex.Keys {
			a.walkExpr(k)
		}
		for _, v := range ex.Values {
			a.walkExpr(v)
		}
	case *ast.IfExp:
		a.walkExpr(ex.Test)
		a.walkExpr(ex.Body)
		a.walkExpr(ex.Orelse)
	}
}

// classifyCall handles the two calls the ladder cares about: the
// BeautifulSoup constructor and queries on a constructed soup. It also
// schedules user function calls for reachability.
func (a *analyzer) classifyCall(call *ast.Call) {
	if name, ok := call.Func.(*ast.Name); ok {
		id := string(name.Id)
		if a.funcs[id] != nil && !a.visited[id] {
			a.pending = append(a.pending, id)
		}
	}
	if a.isSoupCtor(call.Func) {
		if a.liveArgs(call) {
			a.liveParse = true
		}
		return
	}
	if attr, ok := call.Func.(*ast.Attribute); ok {
		a.noteAttributeQuery(attr)
	}
}

// noteAttributeQuery marks TierQueried when a query accessor is reached
// on a soup that was built from the live input. Queries on dead soups
// are ignored: the gate below them never opened.
func (a *analyzer) noteAttributeQuery(attr *ast.Attribute) {
	if !soupQueryMethods[string(attr.Attr)] {
		return
	}
	if a.exprClass(attr.Value) == classSoupLive {
		a.queried = true
	}
}

func (a *analyzer) isSoupCtor(fn ast.Expr) bool {
	switch f := fn.(type) {
	case *ast.Name:
		return a.bsCtors[string(f.Id)]
	case *ast.Attribute:
		if base, ok := f.Value.(*ast.Name); ok {
			return a.bs4Modules[string(base.Id)] && string(f.Attr) == "BeautifulSoup"
		}
	}
	return false
}

// liveArgs reports whether the constructor receives the live input (or
// a value derived from it) rather than a literal stand-in.
func (a *analyzer) liveArgs(call *ast.Call) bool {
	for _, arg := range call.Args {
		if a.exprClass(arg) == classLive {
			return true
		}
	}
	for _, kw := range call.Keywords {
		if a.exprClass(kw.Value) == classLive {
			return true
		}
	}
	return false
}

// ─── Value classification ───────────────────────────────────────────────────

type valueClass int

const (
	classOther valueClass = iota
	classLive             // the injected input or derived from it
	classSoupLive
	classSoupDead
)

// classify evaluates an assigned value's class, registering soup
// constructions as it goes.
func (a *analyzer) classify(e ast.Expr) valueClass {
	if call, ok := e.(*ast.Call); ok && a.isSoupCtor(call.Func) {
		if a.liveArgs(call) {
			a.liveParse = true
			return classSoupLive
		}
		return classSoupDead
	}
	return a.exprClass(e)
}

// exprClass is a conservative reachability of liveness through the
// expression tree: derivation (methods, slices, concatenation) keeps a
// value live, a literal never becomes live.
func (a *analyzer) exprClass(e ast.Expr) valueClass {
	switch ex := e.(type) {
	case *ast.Name:
		id := string(ex.Id)
		switch {
		case a.live[id]:
			return classLive
		case a.soupLive[id]:
			return classSoupLive
		case a.soupDead[id]:
			return classSoupDead
		}
	case *ast.Attribute:
		base := a.exprClass(ex.Value)
		if base == classSoupLive || base == classLive {
			return base
		}
	case *ast.Subscript:
		return a.exprClass(ex.Value)
	case *ast.Call:
		// soup.find(...) yields something still rooted in the soup;
		// ARTIFACT.strip() is still the live input.
		switch fn := ex.Func.(type) {
		case *ast.Attribute:
			return a.exprClass(fn.Value)
		}
	case *ast.BinOp:
		if a.exprClass(ex.Left) == classLive || a.exprClass(ex.Right) == classLive {
			return classLive
		}
	}
	return classOther
}

func (a *analyzer) bind(name string, class valueClass) {
	delete(a.live, name)
	delete(a.soupLive, name)
	delete(a.soupDead, name)
	switch class {
	case classLive:
		a.live[name] = true
	case classSoupLive:
		a.soupLive[name] = true
	case classSoupDead:
		a.soupDead[name] = true
	}
}

// ─── Constant tests ─────────────────────────────────────────────────────────

type truth int

const (
	constUnknown truth = iota
	constTrue
	constFalse
)

// constTruth decides statically known branch conditions: if False / if
// 0 bodies are dead code and must not earn credit.
func constTruth(e ast.Expr) truth {
	switch ex := e.(type) {
	case *ast.NameConstant:
		switch ex.Value {
		case py.True:
			return constTrue
		case py.False, py.None:
			return constFalse
		}
	case *ast.Num:
		if n, ok := ex.N.(py.Int); ok {
			if n == 0 {
				return constFalse
			}
			return constTrue
		}
	}
	return constUnknown
}
