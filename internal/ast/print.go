//nolint:errcheck // Data assertions are checked by construction
package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Printer renders a tree back to canonical source: two-space indentation,
// every binary and unary expression parenthesised so precedence is visible.
type Printer struct {
	w      *bufio.Writer
	indent int
	err    error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: bufio.NewWriter(w)}
}

// Dump writes unit to w.
func Dump(w io.Writer, unit *CompUnit) error {
	p := NewPrinter(w)
	p.PrintUnit(unit)
	return p.Flush()
}

// String renders a single expression.
func (e *Expr) String() string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	p.printExpr(e)
	_ = p.Flush()
	return sb.String()
}

func (p *Printer) Flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) PrintUnit(u *CompUnit) {
	for _, it := range u.Items {
		switch it.Kind {
		case ItemDecl:
			p.printDecl(it.Decl)
		case ItemFunc:
			p.printFunc(it.Func)
		}
	}
}

func (p *Printer) printFunc(f *FuncDef) {
	p.printf("%s %s(", f.Result, f.Name)
	for i, prm := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("int %s", prm.Name)
		if prm.IsArray {
			p.printf("[]")
			p.printDims(prm.Dims)
		}
	}
	p.printf(") ")
	p.printBlock(f.Body)
	p.printf("\n")
}

func (p *Printer) printDecl(d *Decl) {
	p.printIndent()
	if d.Const {
		p.printf("const ")
	}
	p.printf("int ")
	for i, def := range d.Defs {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s", def.Name)
		p.printDims(def.Dims)
		if def.Init != nil {
			p.printf(" = ")
			p.printInit(def.Init)
		}
	}
	p.printf(";\n")
}

func (p *Printer) printDims(dims []*Expr) {
	for _, d := range dims {
		p.printf("[")
		p.printExpr(d)
		p.printf("]")
	}
}

func (p *Printer) printInit(iv *InitVal) {
	if !iv.IsList() {
		p.printExpr(iv.Expr)
		return
	}
	p.printf("{")
	for i, sub := range iv.List {
		if i > 0 {
			p.printf(", ")
		}
		p.printInit(sub)
	}
	p.printf("}")
}

func (p *Printer) printBlock(b *Block) {
	p.printf("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printStmt(s *Stmt) {
	if s.Kind == StmtDecl {
		p.printDecl(s.Data.(DeclData).Decl)
		return
	}
	p.printIndent()
	p.printStmtInline(s)
	p.printf("\n")
}

// printStmtInline prints s without leading indentation or trailing newline.
func (p *Printer) printStmtInline(s *Stmt) {
	switch s.Kind {
	case StmtAssign:
		data := s.Data.(AssignData)
		p.printExpr(data.Target)
		p.printf(" = ")
		p.printExpr(data.Value)
		p.printf(";")
	case StmtExpr:
		if e := s.Data.(ExprStmtData).Expr; e != nil {
			p.printExpr(e)
		}
		p.printf(";")
	case StmtBlock:
		p.printBlock(s.Data.(BlockData).Block)
	case StmtIf:
		data := s.Data.(IfData)
		p.printf("if (")
		p.printExpr(data.Cond)
		p.printf(") ")
		p.printBody(data.Then)
		if data.Else != nil {
			p.printf(" else ")
			p.printBody(data.Else)
		}
	case StmtWhile:
		data := s.Data.(WhileData)
		p.printf("while (")
		p.printExpr(data.Cond)
		p.printf(") ")
		p.printBody(data.Body)
	case StmtBreak:
		p.printf("break;")
	case StmtContinue:
		p.printf("continue;")
	case StmtReturn:
		p.printf("return")
		if v := s.Data.(ReturnData).Value; v != nil {
			p.printf(" ")
			p.printExpr(v)
		}
		p.printf(";")
	default:
		p.printf("<%s>", s.Kind)
	}
}

// printBody prints the arm of an if/while; non-block arms are wrapped in braces.
func (p *Printer) printBody(s *Stmt) {
	if s.Kind == StmtBlock {
		p.printBlock(s.Data.(BlockData).Block)
		return
	}
	p.printBlock(&Block{Span: s.Span, Stmts: []*Stmt{s}})
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch e.Kind {
	case ExprNumber:
		p.printf("%d", e.Data.(NumberData).Value)
	case ExprLVal:
		data := e.Data.(LValData)
		p.printf("%s", data.Name)
		p.printDims(data.Indices)
	case ExprUnary:
		data := e.Data.(UnaryData)
		p.printf("(%s", data.Op)
		p.printExpr(data.Operand)
		p.printf(")")
	case ExprBinary:
		data := e.Data.(BinaryData)
		p.printf("(")
		p.printExpr(data.Left)
		p.printf(" %s ", data.Op)
		p.printExpr(data.Right)
		p.printf(")")
	case ExprCall:
		data := e.Data.(CallData)
		p.printf("%s(", data.Name)
		for i, a := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf(")")
	default:
		p.printf("<%s>", e.Kind)
	}
}
