package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ferry/internal/ast"
	"ferry/internal/source"
)

// ASTNodeOutput is one node of the JSON AST dump.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	Text     string          `json:"text,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the parsed schema as a box-drawing outline.
func FormatASTPretty(w io.Writer, file *ast.File, fs *source.FileSet) error {
	if file == nil {
		return fmt.Errorf("file not parsed")
	}
	header := "File"
	if fs != nil {
		header = fs.Get(file.FileID).FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (bridge %s)\n", header, file.Bridge.Name)

	total := len(file.Imports) + len(file.Decls)
	idx := 0
	for _, imp := range file.Imports {
		branch, _ := branches(idx, total)
		fmt.Fprintf(w, "%s import %q as %s\n", branch, imp.Path.Value, imp.Alias.Name)
		idx++
	}
	for _, d := range file.Decls {
		branch, childPrefix := branches(idx, total)
		fmt.Fprintf(w, "%s %s (span: %s)\n", branch, declSummary(d), formatSpan(d.DeclSpan(), fs))
		printDeclChildren(w, d, childPrefix)
		idx++
	}
	return nil
}

func branches(idx, total int) (branch, childPrefix string) {
	if idx == total-1 {
		return "└─", "   "
	}
	return "├─", "│  "
}

func declSummary(d ast.Decl) string {
	switch d.(type) {
	case *ast.StructDecl:
		return "struct " + d.DeclName().Name
	case *ast.EnumDecl:
		return "enum " + d.DeclName().Name
	case *ast.ExternTypeDecl:
		return "extern type " + d.DeclName().Name
	default:
		return d.DeclName().Name
	}
}

func printDeclChildren(w io.Writer, d ast.Decl, prefix string) {
	lines := declChildLines(d)
	for i, line := range lines {
		branch := "├─"
		if i == len(lines)-1 {
			branch = "└─"
		}
		fmt.Fprintf(w, "%s%s %s\n", prefix, branch, line)
	}
}

func declChildLines(d ast.Decl) []string {
	var lines []string
	appendAttrs := func(attrs []ast.Attr) {
		for _, a := range attrs {
			lines = append(lines, "attr "+attrText(a))
		}
	}
	switch decl := d.(type) {
	case *ast.StructDecl:
		appendAttrs(decl.Attrs)
		for _, f := range decl.Fields {
			lines = append(lines, fmt.Sprintf("field %s: %s", f.Name.Name, f.Type.String()))
		}
		for i, t := range decl.Positional {
			lines = append(lines, fmt.Sprintf("field _%d: %s", i, t.String()))
		}
		if len(decl.Fields) == 0 && len(decl.Positional) == 0 {
			if decl.HasBody {
				lines = append(lines, "no fields")
			} else {
				lines = append(lines, "unit")
			}
		}
	case *ast.EnumDecl:
		appendAttrs(decl.Attrs)
		for _, v := range decl.Variants {
			lines = append(lines, "variant "+variantText(v))
		}
	case *ast.ExternTypeDecl:
		appendAttrs(decl.Attrs)
	}
	return lines
}

func attrText(a ast.Attr) string {
	if a.Arg == nil {
		return "@" + a.Name.Name
	}
	return fmt.Sprintf("@%s(%q)", a.Name.Name, a.Arg.Value)
}

func variantText(v ast.Variant) string {
	switch {
	case len(v.Positional) > 0:
		parts := make([]string, len(v.Positional))
		for i, t := range v.Positional {
			parts[i] = t.String()
		}
		return v.Name.Name + "(" + strings.Join(parts, ", ") + ")"
	case len(v.Fields) > 0:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name.Name + ": " + f.Type.String()
		}
		return v.Name.Name + "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Name.Name
	}
}

// FormatASTJSON prints the parsed schema as indented JSON.
func FormatASTJSON(w io.Writer, file *ast.File) error {
	node, err := BuildASTJSON(file)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(node)
}

// BuildASTJSON converts the parsed schema into the JSON dump structure.
func BuildASTJSON(file *ast.File) (ASTNodeOutput, error) {
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("file not parsed")
	}
	root := ASTNodeOutput{
		Type: "File",
		Name: file.Bridge.Name,
		Span: file.Bridge.Span,
	}
	for _, imp := range file.Imports {
		root.Children = append(root.Children, ASTNodeOutput{
			Type: "Import",
			Name: imp.Alias.Name,
			Text: imp.Path.Value,
			Span: imp.Span,
		})
	}
	for _, d := range file.Decls {
		root.Children = append(root.Children, declJSON(d))
	}
	return root, nil
}

func declJSON(d ast.Decl) ASTNodeOutput {
	node := ASTNodeOutput{
		Name: d.DeclName().Name,
		Span: d.DeclSpan(),
	}
	switch decl := d.(type) {
	case *ast.StructDecl:
		node.Type = "Struct"
		node.Children = append(node.Children, attrsJSON(decl.Attrs)...)
		for _, f := range decl.Fields {
			node.Children = append(node.Children, ASTNodeOutput{
				Type: "Field",
				Name: f.Name.Name,
				Text: f.Type.String(),
				Span: f.Span,
			})
		}
		for i, t := range decl.Positional {
			node.Children = append(node.Children, ASTNodeOutput{
				Type: "Field",
				Name: fmt.Sprintf("_%d", i),
				Text: t.String(),
				Span: t.TypeSpan(),
			})
		}
	case *ast.EnumDecl:
		node.Type = "Enum"
		node.Children = append(node.Children, attrsJSON(decl.Attrs)...)
		for _, v := range decl.Variants {
			node.Children = append(node.Children, ASTNodeOutput{
				Type: "Variant",
				Name: v.Name.Name,
				Text: variantText(v),
				Span: v.Span,
			})
		}
	case *ast.ExternTypeDecl:
		node.Type = "ExternType"
		node.Children = append(node.Children, attrsJSON(decl.Attrs)...)
	default:
		node.Type = "Decl"
	}
	return node
}

func attrsJSON(attrs []ast.Attr) []ASTNodeOutput {
	out := make([]ASTNodeOutput, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, ASTNodeOutput{
			Type: "Attr",
			Name: a.Name.Name,
			Text: attrText(a),
			Span: a.Span,
		})
	}
	return out
}

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and
// returns "startLine:startCol-endLine:endCol". If fs is nil, it returns
// "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
