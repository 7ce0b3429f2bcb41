//nolint:errcheck // Data assertions are checked by construction
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"ophelia/internal/ast"
	"ophelia/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(children ...*treeNode) *treeNode {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

type treeBuilder struct {
	fs *source.FileSet
}

// FormatASTTree печатает дерево разбора в виде
//
//	CompUnit main.sy
//	└─ Func int main (1:1)
//	   └─ Block (1:12)
func FormatASTTree(w io.Writer, unit *ast.CompUnit, fs *source.FileSet, mode PathMode) error {
	b := treeBuilder{fs: fs}
	root := &treeNode{label: "CompUnit"}
	if fs != nil {
		root.label += " " + formatPath(fs.Get(unit.File), fs, mode)
	}
	for _, it := range unit.Items {
		switch it.Kind {
		case ast.ItemDecl:
			root.add(b.decl(it.Decl))
		case ast.ItemFunc:
			root.add(b.fn(it.Func))
		}
	}
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	renderTree(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderTree(sb *strings.Builder, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(n.label)
		sb.WriteByte('\n')
		renderTree(sb, n.children, prefix+next)
	}
}

func (b treeBuilder) at(sp source.Span) string {
	if b.fs == nil || !sp.IsValid() {
		return ""
	}
	pos, _ := b.fs.Resolve(sp)
	return fmt.Sprintf(" (%d:%d)", pos.Line, pos.Col)
}

func (b treeBuilder) decl(d *ast.Decl) *treeNode {
	label := "Decl"
	if d.Const {
		label += " const"
	}
	n := &treeNode{label: label + b.at(d.Span)}
	for _, def := range d.Defs {
		v := &treeNode{label: "VarDef " + def.Name + b.at(def.NameSpan)}
		if len(def.Dims) > 0 {
			v.add(b.group("Dims", def.Dims))
		}
		if def.Init != nil {
			v.add(&treeNode{label: "Init", children: []*treeNode{b.init(def.Init)}})
		}
		n.add(v)
	}
	return n
}

func (b treeBuilder) init(iv *ast.InitVal) *treeNode {
	if !iv.IsList() {
		return b.expr(iv.Expr)
	}
	n := &treeNode{label: fmt.Sprintf("List[%d]", len(iv.List)) + b.at(iv.Span)}
	for _, sub := range iv.List {
		n.add(b.init(sub))
	}
	return n
}

func (b treeBuilder) fn(f *ast.FuncDef) *treeNode {
	n := &treeNode{label: fmt.Sprintf("Func %s %s", f.Result, f.Name) + b.at(f.NameSpan)}
	for _, p := range f.Params {
		label := "Param " + p.Name
		if p.IsArray {
			label += "[]"
		}
		pn := &treeNode{label: label + b.at(p.NameSpan)}
		if len(p.Dims) > 0 {
			pn.add(b.group("Dims", p.Dims))
		}
		n.add(pn)
	}
	return n.add(b.block(f.Body))
}

func (b treeBuilder) block(blk *ast.Block) *treeNode {
	if blk == nil {
		return nil
	}
	n := &treeNode{label: "Block" + b.at(blk.Span)}
	for _, s := range blk.Stmts {
		n.add(b.stmt(s))
	}
	return n
}

func (b treeBuilder) stmt(s *ast.Stmt) *treeNode {
	n := &treeNode{label: s.Kind.String() + b.at(s.Span)}
	switch s.Kind {
	case ast.StmtDecl:
		return b.decl(s.Data.(ast.DeclData).Decl)
	case ast.StmtAssign:
		data := s.Data.(ast.AssignData)
		n.add(b.expr(data.Target), b.expr(data.Value))
	case ast.StmtExpr:
		if e := s.Data.(ast.ExprStmtData).Expr; e != nil {
			n.add(b.expr(e))
		}
	case ast.StmtBlock:
		return b.block(s.Data.(ast.BlockData).Block)
	case ast.StmtIf:
		data := s.Data.(ast.IfData)
		n.add(
			&treeNode{label: "Cond", children: []*treeNode{b.expr(data.Cond)}},
			&treeNode{label: "Then", children: []*treeNode{b.stmt(data.Then)}},
		)
		if data.Else != nil {
			n.add(&treeNode{label: "Else", children: []*treeNode{b.stmt(data.Else)}})
		}
	case ast.StmtWhile:
		data := s.Data.(ast.WhileData)
		n.add(
			&treeNode{label: "Cond", children: []*treeNode{b.expr(data.Cond)}},
			&treeNode{label: "Body", children: []*treeNode{b.stmt(data.Body)}},
		)
	case ast.StmtReturn:
		if v := s.Data.(ast.ReturnData).Value; v != nil {
			n.add(b.expr(v))
		}
	}
	return n
}

func (b treeBuilder) group(label string, exprs []*ast.Expr) *treeNode {
	n := &treeNode{label: label}
	for _, e := range exprs {
		n.add(b.expr(e))
	}
	return n
}

func (b treeBuilder) expr(e *ast.Expr) *treeNode {
	if e == nil {
		return nil
	}
	at := b.at(e.Span)
	switch e.Kind {
	case ast.ExprNumber:
		return &treeNode{label: fmt.Sprintf("Number %d", e.Data.(ast.NumberData).Value) + at}
	case ast.ExprLVal:
		data := e.Data.(ast.LValData)
		n := &treeNode{label: "LVal " + data.Name + at}
		for _, idx := range data.Indices {
			n.add(&treeNode{label: "Index", children: []*treeNode{b.expr(idx)}})
		}
		return n
	case ast.ExprUnary:
		data := e.Data.(ast.UnaryData)
		return (&treeNode{label: "Unary " + data.Op.String() + at}).add(b.expr(data.Operand))
	case ast.ExprBinary:
		data := e.Data.(ast.BinaryData)
		return (&treeNode{label: "Binary " + data.Op.String() + at}).add(b.expr(data.Left), b.expr(data.Right))
	case ast.ExprCall:
		data := e.Data.(ast.CallData)
		n := &treeNode{label: "Call " + data.Name + at}
		for _, arg := range data.Args {
			n.add(b.expr(arg))
		}
		return n
	}
	return &treeNode{label: e.Kind.String() + at}
}
