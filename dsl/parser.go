package dsl

import (
	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/span"
)

// Parser is a hand-written recursive-descent parser over a Token
// stream produced by Lexer. It never calls into a host-language
// expression parser (§9): the whitelisted policy grammar (§4.2) is
// implemented directly in exprXxx below.
type Parser struct {
	toks []Token
	pos  int
	src  string
}

// NewParser returns a Parser over toks. src is the original source
// text, kept only to render carets in diagnostics.
func NewParser(toks []Token, src string) *Parser {
	return &Parser{toks: toks, src: src}
}

// Parse parses a full domain file into an unresolved model list plus
// the policy and hook declarations attached to each model (§4.1). The
// returned models have not yet been validated — call ast.Validate on
// the result.
func Parse(src string) ([]*ast.Model, error) {
	toks, err := NewLexer(src).Lex()
	if err != nil {
		return nil, err
	}
	return NewParser(toks, src).ParseProgram()
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) peekNext() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) errorf(sp span.Span, format string, args ...any) *diag.CompileError {
	err := diag.Syntaxf(sp, format, args...)
	err.Caret = caret(p.src, sp)
	return err
}

func (p *Parser) unexpected(want string) *diag.CompileError {
	tok := p.cur()
	got := tok.Kind.String()
	if tok.Kind == Ident {
		got = "identifier " + quote(tok.Text)
	}
	return p.errorf(tok.Span, "expected %s, found %s", want, got)
}

func quote(s string) string { return "\"" + s + "\"" }

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k Kind) (Token, error) {
	if p.cur().Kind != k {
		return Token{}, p.unexpected(k.String())
	}
	return p.advance(), nil
}

func (p *Parser) expectIdentText(text string) error {
	tok := p.cur()
	if tok.Kind != Ident || tok.Text != text {
		return p.unexpected(quote(text))
	}
	p.advance()
	return nil
}

func (p *Parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *Parser) atIdent(text string) bool {
	return p.cur().Kind == Ident && p.cur().Text == text
}

// ParseProgram parses the full top-level declaration sequence.
func (p *Parser) ParseProgram() ([]*ast.Model, error) {
	models := map[string]*ast.Model{}
	var order []string

	for !p.at(EOF) {
		tok := p.cur()
		if tok.Kind != Ident {
			return nil, p.unexpected("a top-level declaration (model, policy, or hook)")
		}
		switch tok.Text {
		case kwModel:
			m, err := p.parseModel()
			if err != nil {
				return nil, err
			}
			if _, exists := models[m.Name]; exists {
				return nil, p.errorf(m.Span, "model %q already declared", m.Name)
			}
			models[m.Name] = m
			order = append(order, m.Name)
		case kwPolicy:
			if err := p.parsePolicy(models); err != nil {
				return nil, err
			}
		case kwHook:
			if err := p.parseHook(models); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf(tok.Span, "unknown top-level keyword %q", tok.Text)
		}
	}

	out := make([]*ast.Model, 0, len(order))
	for _, name := range order {
		out = append(out, models[name])
	}
	return out, nil
}

func (p *Parser) parseModel() (*ast.Model, error) {
	start := p.cur().Span
	p.advance() // "model"
	nameTok, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	m := &ast.Model{Name: nameTok.Text, Fields: map[string]*ast.Field{}, Span: start}
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	for !p.at(RBrace) {
		if p.at(EOF) {
			return nil, p.errorf(p.cur().Span, "unterminated model body, expected '}'")
		}
		if err := p.parseMember(m); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}
	return m, nil
}

// parseMember parses one field or relation declaration. Members are
// self-terminating (a field ends at the next member's identifier or
// the closing '}'; a relation ends at its ')'), so no separator token
// needs to be consumed between them. An optional ';' between members
// is skipped by the lexer.
func (p *Parser) parseMember(m *ast.Model) error {
	nameTok, err := p.expect(Ident)
	if err != nil {
		return err
	}
	if _, err := p.expect(Colon); err != nil {
		return err
	}
	kindTok := p.cur()
	if kindTok.Kind != Ident {
		return p.unexpected("a field type or relation kind")
	}
	switch kindTok.Text {
	case kwBelongsTo, kwHasMany, kwManyToMany:
		rel, err := p.parseRelation(nameTok)
		if err != nil {
			return err
		}
		m.Relations = append(m.Relations, rel)
	default:
		f, err := p.parseField(nameTok)
		if err != nil {
			return err
		}
		if _, exists := m.Fields[f.Name]; exists {
			return p.errorf(f.Span, "model %q: field %q declared more than once", m.Name, f.Name)
		}
		m.FieldNames = append(m.FieldNames, f.Name)
		m.Fields[f.Name] = f
	}
	return nil
}

func (p *Parser) parseField(nameTok Token) (*ast.Field, error) {
	typeTok := p.advance()
	ft := ast.FieldType(typeTok.Text)
	if !ft.Valid() {
		return nil, p.errorf(typeTok.Span, "unknown field type %q", typeTok.Text)
	}
	f := &ast.Field{Name: nameTok.Text, Type: ft, Span: nameTok.Span}
	for p.atModifierStart() {
		if err := p.parseModifier(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// atModifierStart reports whether the parser is positioned at a field
// modifier rather than the start of the next member or a closing brace.
func (p *Parser) atModifierStart() bool {
	tok := p.cur()
	if tok.Kind != Ident {
		return false
	}
	switch tok.Text {
	case kwPK, kwTenant, kwOptional, kwSecret, kwDefault, kwResidency:
		return true
	default:
		return false
	}
}

func (p *Parser) parseModifier(f *ast.Field) error {
	tok := p.advance()
	switch tok.Text {
	case kwPK:
		f.PrimaryKey = true
	case kwTenant:
		f.Tenant = true
	case kwOptional:
		f.Optional = true
	case kwSecret:
		f.Secret = true
	case kwDefault:
		lit, err := p.expect(String)
		if err != nil {
			return err
		}
		v := lit.Text
		f.Default = &v
	case kwResidency:
		tag, err := p.expect(Ident)
		if err != nil {
			return err
		}
		f.Residency = tag.Text
	default:
		return p.errorf(tok.Span, "unknown field modifier %q", tok.Text)
	}
	return nil
}

func (p *Parser) parseRelation(nameTok Token) (*ast.Relation, error) {
	kindTok := p.advance()
	rel := &ast.Relation{Name: nameTok.Text, Span: nameTok.Span}
	switch kindTok.Text {
	case kwBelongsTo:
		rel.Kind = ast.BelongsTo
	case kwHasMany:
		rel.Kind = ast.HasMany
	case kwManyToMany:
		rel.Kind = ast.ManyToMany
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	target, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	rel.TargetName = target.Text
	if p.at(Comma) {
		p.advance()
		if err := p.expectIdentText(kwThrough); err != nil {
			return nil, err
		}
		if _, err := p.expect(Colon); err != nil {
			return nil, err
		}
		through, err := p.expect(String)
		if err != nil {
			return nil, err
		}
		rel.Through = through.Text
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if rel.Kind == ast.ManyToMany && rel.Through == "" {
		return nil, p.errorf(rel.Span, "manyToMany relation %q requires a through: join table", rel.Name)
	}
	return rel, nil
}

func (p *Parser) parsePolicy(models map[string]*ast.Model) error {
	start := p.cur().Span
	p.advance() // "policy"
	modelTok, err := p.expect(Ident)
	if err != nil {
		return err
	}
	if _, err := p.expect(Dot); err != nil {
		return err
	}
	actionTok, err := p.expect(Ident)
	if err != nil {
		return err
	}
	action := ast.Action(actionTok.Text)
	switch action {
	case ast.ActionRead, ast.ActionCreate, ast.ActionUpdate, ast.ActionDelete:
	default:
		return p.errorf(actionTok.Span, "unknown policy action %q", actionTok.Text)
	}
	m, ok := models[modelTok.Text]
	if !ok {
		return p.errorf(modelTok.Span, "policy references undeclared model %q", modelTok.Text)
	}
	if m.Policies == nil {
		m.Policies = map[ast.Action]*ast.Policy{}
	}
	if _, exists := m.Policies[action]; exists {
		err := diag.Semanticf(start, "duplicate policy for %s.%s", m.Name, action)
		err.Caret = caret(p.src, start)
		return err
	}
	if _, err := p.expect(LBrace); err != nil {
		return err
	}
	body, err := p.parsePolicyBody()
	if err != nil {
		return err
	}
	if _, err := p.expect(RBrace); err != nil {
		return err
	}
	m.Policies[action] = &ast.Policy{Action: action, Body: body, Span: start}
	return nil
}

// parseHook parses "hook Model.phase { ... }". The body is never
// interpreted by the core (§3) — it is captured as raw source text
// between the matching braces and carried opaquely on the Hook.
func (p *Parser) parseHook(models map[string]*ast.Model) error {
	start := p.cur().Span
	p.advance() // "hook"
	modelTok, err := p.expect(Ident)
	if err != nil {
		return err
	}
	if _, err := p.expect(Dot); err != nil {
		return err
	}
	phaseTok, err := p.expect(Ident)
	if err != nil {
		return err
	}
	phase := ast.Phase(phaseTok.Text)
	switch phase {
	case ast.BeforeCreate, ast.AfterCreate, ast.BeforeUpdate, ast.AfterUpdate, ast.BeforeDelete, ast.AfterDelete:
	default:
		return p.errorf(phaseTok.Span, "unknown hook phase %q", phaseTok.Text)
	}
	m, ok := models[modelTok.Text]
	if !ok {
		return p.errorf(modelTok.Span, "hook references undeclared model %q", modelTok.Text)
	}
	bodyTok, err := p.expect(HookBody)
	if err != nil {
		return err
	}
	m.Hooks = append(m.Hooks, &ast.Hook{Phase: phase, Body: bodyTok.Text, Span: start})
	return nil
}

func (p *Parser) parsePolicyBody() (ast.Expr, error) {
	if p.atIdent("return") {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseExprOrArrow()
}

// parseExprOrArrow parses either a bare expression or an arrow-shaped
// expression "(params) => expr" / "ident => expr" (§4.1, §4.2).
func (p *Parser) parseExprOrArrow() (ast.Expr, error) {
	if p.looksLikeArrowHead() {
		return p.parseArrow()
	}
	return p.parseExpr()
}

// looksLikeArrowHead reports whether the upcoming tokens form an arrow
// parameter list: either "ident =>" or "(" ... ")" "=>".
func (p *Parser) looksLikeArrowHead() bool {
	if p.at(Ident) && p.peekNext().Kind == FatArrow {
		return true
	}
	if !p.at(LParen) {
		return false
	}
	// Scan ahead for a matching ')' followed by '=>', without consuming.
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Kind == FatArrow
			}
		case EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrow() (*ast.Arrow, error) {
	start := p.cur().Span
	var params []string
	if p.at(LParen) {
		p.advance()
		for !p.at(RParen) {
			id, err := p.expect(Ident)
			if err != nil {
				return nil, err
			}
			params = append(params, id.Text)
			if p.at(Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(RParen); err != nil {
			return nil, err
		}
	} else {
		id, err := p.expect(Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, id.Text)
	}
	if _, err := p.expect(FatArrow); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewArrow(start, params, body), nil
}

// The expression grammar is precedence-climbing over the whitelist in
// §4.2: || binds loosest, then &&, then equality, then relational,
// then unary "!", then postfix member/method chains, then primaries.
// There is no arithmetic and no free-form call syntax anywhere in this
// chain — both are rejected as unsupported constructs by parsePrimary.

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(OrOr) {
		start := p.cur().Span
		p.advance()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = ast.NewBinary(start, ast.OpOr, x, y)
	}
	return x, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	x, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(AndAnd) {
		start := p.cur().Span
		p.advance()
		y, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		x = ast.NewBinary(start, ast.OpAnd, x, y)
	}
	return x, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	x, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case StrictEq:
			op = ast.OpStrictEq
		case StrictNotEq:
			op = ast.OpStrictNotEq
		case LooseEq:
			op = ast.OpLooseEq
		case LooseNotEq:
			op = ast.OpLooseNotEq
		default:
			return x, nil
		}
		start := p.cur().Span
		p.advance()
		y, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		x = ast.NewBinary(start, op, x, y)
	}
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case LT:
			op = ast.OpLT
		case LTE:
			op = ast.OpLTE
		case GT:
			op = ast.OpGT
		case GTE:
			op = ast.OpGTE
		default:
			return x, nil
		}
		start := p.cur().Span
		p.advance()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = ast.NewBinary(start, op, x, y)
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.at(Bang) {
		start := p.cur().Span
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewNot(start, x), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of
// ".name" member accesses and ".some(...)"/".every(...)"/".includes(...)"
// calls. Chain depth (member hops) is not bounded here — the lowerer
// enforces the depth-3 limit (§4.2) once it knows which hops are
// relation traversals versus plain field access.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(Dot) {
		p.advance()
		nameTok, err := p.expect(Ident)
		if err != nil {
			return nil, err
		}
		if p.at(LParen) && isQuantifierMethod(nameTok.Text) {
			call, err := p.parseMethodCall(x, nameTok)
			if err != nil {
				return nil, err
			}
			x = call
			continue
		}
		if p.at(LParen) {
			return nil, p.errorf(nameTok.Span, "method %q is not allowed in policy expressions", nameTok.Text)
		}
		x = ast.NewMember(nameTok.Span, x, nameTok.Text)
	}
	return x, nil
}

func isQuantifierMethod(name string) bool {
	switch name {
	case kwSome, kwEvery, kwIncludes:
		return true
	default:
		return false
	}
}

func (p *Parser) parseMethodCall(receiver ast.Expr, nameTok Token) (*ast.MethodCall, error) {
	p.advance() // '('
	var arg ast.Expr
	if !p.at(RParen) {
		var err error
		switch nameTok.Text {
		case kwSome, kwEvery:
			if !p.looksLikeArrowHead() {
				return nil, p.errorf(p.cur().Span, "%s() requires an arrow callback", nameTok.Text)
			}
			arg, err = p.parseArrow()
		default: // includes
			arg, err = p.parseExpr()
		}
		if err != nil {
			return nil, err
		}
	} else if nameTok.Text == kwSome || nameTok.Text == kwEvery {
		return nil, p.errorf(nameTok.Span, "%s() requires an arrow callback", nameTok.Text)
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	return ast.NewMethodCall(nameTok.Span, receiver, nameTok.Text, arg), nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case LParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen); err != nil {
			return nil, err
		}
		return ast.NewGroup(tok.Span, x), nil
	case String:
		p.advance()
		return ast.NewStringLit(tok.Span, tok.Text), nil
	case Number:
		p.advance()
		return ast.NewNumberLit(tok.Span, tok.Text), nil
	case Ident:
		switch tok.Text {
		case kwTrue:
			p.advance()
			return ast.NewBoolLit(tok.Span, true), nil
		case kwFalse:
			p.advance()
			return ast.NewBoolLit(tok.Span, false), nil
		default:
			p.advance()
			return ast.NewIdent(tok.Span, tok.Text), nil
		}
	default:
		return nil, p.errorf(tok.Span, "expected an expression, found %s", tok.Kind)
	}
}
